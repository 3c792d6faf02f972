package bus

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/pkg/geo"
)

// ServiceConfig holds configuration for the bus service.
type ServiceConfig struct {
	// Client fetches dataset rows.
	Client opendata.RowFetcher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service answers bus queries against the live datasets.
type Service struct {
	client opendata.RowFetcher
	logger zerolog.Logger
}

// NewService creates a new bus service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client: cfg.Client,
		logger: cfg.Logger.With().Str("service", "bus").Logger(),
	}
}

// Routes lists routes, optionally narrowed to a route name.
func (s *Service) Routes(ctx context.Context, q RouteQuery) ([]Route, error) {
	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := q.Page
	if page < 0 {
		page = 0
	}

	params := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	if q.Name != "" {
		params.Set("nameZh", q.Name)
	}

	s.logger.Info().Str("route", q.Name).Int("page", page).Int("size", size).Msg("querying routes")

	routes, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBusRoutes, params, toRoute)
	if err != nil {
		return nil, fmt.Errorf("fetch bus routes: %w", err)
	}
	return routes, nil
}

// Stops lists the stops of the first route matching routeName.
func (s *Service) Stops(ctx context.Context, routeName string) ([]Stop, error) {
	routeID, err := s.routeID(ctx, routeName)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("route", routeName).Str("route_id", routeID).Msg("querying route stops")

	return s.stopsOf(ctx, routeID)
}

func (s *Service) stopsOf(ctx context.Context, routeID string) ([]Stop, error) {
	stops, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBusStops, url.Values{"routeId": {routeID}}, toStop)
	if err != nil {
		return nil, fmt.Errorf("fetch bus stops: %w", err)
	}
	return stops, nil
}

// AllStops lists every stop of every route.
func (s *Service) AllStops(ctx context.Context) ([]Stop, error) {
	s.logger.Info().Msg("querying all stops")

	stops, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBusStops, nil, toStop)
	if err != nil {
		return nil, fmt.Errorf("fetch bus stops: %w", err)
	}
	return stops, nil
}

// EstimatedTimes returns arrival estimates for a route, or for a single stop
// on it when stopName is set. The stop is matched by exact Chinese name.
func (s *Service) EstimatedTimes(ctx context.Context, routeName, stopName string) ([]EstimatedTime, error) {
	routeID, err := s.routeID(ctx, routeName)
	if err != nil {
		return nil, err
	}

	params := url.Values{"RouteID": {routeID}}
	if stopName != "" {
		stops, err := s.stopsOf(ctx, routeID)
		if err != nil {
			return nil, err
		}
		stopID := ""
		for _, stop := range stops {
			if stop.NameZh == stopName {
				stopID = stop.ID
				break
			}
		}
		if stopID == "" {
			return nil, fmt.Errorf("%w: %s on route %s", ErrStopNotFound, stopName, routeName)
		}
		params.Set("StopID", stopID)
	}

	s.logger.Info().Str("route", routeName).Str("stop", stopName).Msg("querying arrival estimates")

	times, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBusEstimatedTime, params, toEstimatedTime)
	if err != nil {
		return nil, fmt.Errorf("fetch bus estimated times: %w", err)
	}
	return times, nil
}

// RoutesByStop finds the routes serving any stop whose name contains stopName.
// Routes come back in the order their first matching stop appears.
func (s *Service) RoutesByStop(ctx context.Context, stopName string) ([]Route, error) {
	stops, err := s.AllStops(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	routeIDs := make([]string, 0)
	for _, stop := range stops {
		if !strings.Contains(stop.NameZh, stopName) || seen[stop.RouteID] {
			continue
		}
		seen[stop.RouteID] = true
		routeIDs = append(routeIDs, stop.RouteID)
	}

	s.logger.Info().Str("stop", stopName).Int("routes", len(routeIDs)).Msg("resolving routes by stop")

	routes := make([]Route, 0, len(routeIDs))
	found := make(map[string]bool)
	for _, id := range routeIDs {
		matched, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBusRoutes, url.Values{"Id": {id}}, toRoute)
		if err != nil {
			return nil, fmt.Errorf("fetch bus route %s: %w", id, err)
		}
		for _, r := range matched {
			key := r.ID + "/" + r.PathAttributeID
			if found[key] {
				continue
			}
			found[key] = true
			routes = append(routes, r)
		}
	}
	return routes, nil
}

// NearbyStops returns stops within the radius, nearest first.
func (s *Service) NearbyStops(ctx context.Context, r geo.Radius) ([]Stop, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	stops, err := s.AllStops(ctx)
	if err != nil {
		return nil, err
	}

	return geo.Within(stops, r, stopLocation, func(st *Stop, d float64) { st.DistanceMeters = &d }), nil
}

// routeID resolves a route name to the ID of the first matching route.
func (s *Service) routeID(ctx context.Context, routeName string) (string, error) {
	routes, err := s.Routes(ctx, RouteQuery{Name: routeName})
	if err != nil {
		return "", err
	}
	if len(routes) == 0 {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, routeName)
	}
	return routes[0].ID, nil
}

func stopLocation(st Stop) (geo.Point, bool) {
	if st.Latitude == 0 && st.Longitude == 0 {
		return geo.Point{}, false
	}
	return geo.Point{Lat: st.Latitude, Lon: st.Longitude}, true
}
