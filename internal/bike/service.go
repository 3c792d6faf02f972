package bike

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/pkg/geo"
)

// ServiceConfig holds configuration for the bike service.
type ServiceConfig struct {
	// Client fetches dataset rows.
	Client opendata.RowFetcher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service answers bicycle queries against the live datasets.
type Service struct {
	client opendata.RowFetcher
	logger zerolog.Logger
}

// NewService creates a new bike service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client: cfg.Client,
		logger: cfg.Logger.With().Str("service", "bike").Logger(),
	}
}

// YouBikeStations lists stations whose district or address contains the area.
func (s *Service) YouBikeStations(ctx context.Context, f opendata.AreaFilter) ([]YouBikeStation, error) {
	s.logger.Info().Str("area", f.Area).Msg("querying youbike stations")

	stations, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceYouBike, nil, toYouBikeStation)
	if err != nil {
		return nil, fmt.Errorf("fetch youbike stations: %w", err)
	}

	return opendata.Filter(stations, func(st YouBikeStation) bool {
		return f.Match(st.Area, st.Address)
	}), nil
}

// AvailableYouBikes returns stations with at least minBikes bikes to rent,
// most bikes first.
func (s *Service) AvailableYouBikes(ctx context.Context, minBikes int) ([]YouBikeStation, error) {
	if minBikes <= 0 {
		minBikes = DefaultMinBikes
	}

	stations, err := s.YouBikeStations(ctx, opendata.AreaFilter{})
	if err != nil {
		return nil, err
	}

	available := opendata.Filter(stations, func(st YouBikeStation) bool {
		return st.AvailableBikes >= minBikes
	})
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].AvailableBikes > available[j].AvailableBikes
	})
	return available, nil
}

// NearbyYouBikes returns stations within the radius, nearest first.
func (s *Service) NearbyYouBikes(ctx context.Context, r geo.Radius) ([]YouBikeStation, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	stations, err := s.YouBikeStations(ctx, opendata.AreaFilter{})
	if err != nil {
		return nil, err
	}

	return geo.Within(stations, r, stationLocation, func(st *YouBikeStation, d float64) {
		st.DistanceMeters = &d
	}), nil
}

// BikeRacks lists rack counts per district, or per MRT station when nearMRT
// is set. The area filter matches the district or station name.
func (s *Service) BikeRacks(ctx context.Context, f opendata.AreaFilter, nearMRT bool) ([]Rack, error) {
	s.logger.Info().Str("area", f.Area).Bool("near_mrt", nearMRT).Msg("querying bike racks")

	var racks []Rack
	if nearMRT {
		rows, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBikeRacksMRT, nil, toRackMRT)
		if err != nil {
			return nil, fmt.Errorf("fetch mrt bike racks: %w", err)
		}
		racks = make([]Rack, 0, len(rows))
		for _, r := range rows {
			racks = append(racks, Rack{Item: r.Item, Location: r.Station, Quantity: r.Quantity, NearMRT: true})
		}
	} else {
		rows, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBikeRacksDistricts, nil, toRackDistrict)
		if err != nil {
			return nil, fmt.Errorf("fetch district bike racks: %w", err)
		}
		racks = make([]Rack, 0, len(rows))
		for _, r := range rows {
			racks = append(racks, Rack{Item: r.Item, Location: r.Area, Quantity: r.Quantity})
		}
	}

	return opendata.Filter(racks, func(r Rack) bool { return f.Match(r.Location) }), nil
}

// BikeLanes lists bike lane construction records, optionally for one district.
func (s *Service) BikeLanes(ctx context.Context, f opendata.AreaFilter) ([]Lane, error) {
	s.logger.Info().Str("area", f.Area).Msg("querying bike lanes")

	lanes, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceBikeLanes, nil, toLane)
	if err != nil {
		return nil, fmt.Errorf("fetch bike lanes: %w", err)
	}

	return opendata.Filter(lanes, func(l Lane) bool { return f.Match(l.District) }), nil
}

func stationLocation(st YouBikeStation) (geo.Point, bool) {
	if st.Lat == 0 && st.Lng == 0 {
		return geo.Point{}, false
	}
	return geo.Point{Lat: st.Lat, Lon: st.Lng}, true
}
