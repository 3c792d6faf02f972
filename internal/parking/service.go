package parking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/pkg/geo"
)

// ServiceConfig holds configuration for the parking service.
type ServiceConfig struct {
	// Client fetches dataset rows.
	Client opendata.RowFetcher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service answers parking queries against the live datasets.
type Service struct {
	client opendata.RowFetcher
	logger zerolog.Logger
}

// NewService creates a new parking service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client: cfg.Client,
		logger: cfg.Logger.With().Str("service", "parking").Logger(),
	}
}

// Lots lists parking lots matching the area and type substrings.
func (s *Service) Lots(ctx context.Context, q LotQuery) ([]Lot, error) {
	s.logger.Info().Str("area", q.Area).Str("type", q.Type).Msg("querying parking lots")

	lots, err := s.allLots(ctx)
	if err != nil {
		return nil, err
	}

	area := opendata.AreaFilter{Area: q.Area}
	lotType := strings.TrimSpace(q.Type)
	return opendata.Filter(lots, func(l Lot) bool {
		if lotType != "" && !strings.Contains(l.Type, lotType) {
			return false
		}
		return area.Match(l.Area)
	}), nil
}

// Lot returns the lot with the given parking ID.
func (s *Service) Lot(ctx context.Context, id string) (*Lot, error) {
	s.logger.Info().Str("parking_id", id).Msg("querying parking lot")

	lots, err := s.allLots(ctx)
	if err != nil {
		return nil, err
	}

	for i := range lots {
		if lots[i].ParkingID == id {
			return &lots[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLotNotFound, id)
}

// AvailableLots returns lots with at least MinSpaces free spaces from the
// realtime dataset, most free spaces first.
func (s *Service) AvailableLots(ctx context.Context, q AvailabilityQuery) ([]Availability, error) {
	minSpaces := q.MinSpaces
	if minSpaces <= 0 {
		minSpaces = DefaultMinSpaces
	}

	s.logger.Info().Str("area", q.Area).Int("min_spaces", minSpaces).Msg("querying parking availability")

	rows, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceParkingRealtime, nil, toAvailability)
	if err != nil {
		return nil, fmt.Errorf("fetch parking availability: %w", err)
	}

	area := opendata.AreaFilter{Area: q.Area}
	available := opendata.Filter(rows, func(a Availability) bool {
		return a.AvailableSpaces >= minSpaces && area.Match(a.Area)
	})
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].AvailableSpaces > available[j].AvailableSpaces
	})
	return available, nil
}

// RoadsideSpaces lists metered roadside cells, optionally for one area.
// Cells without an AREA value match on their name.
func (s *Service) RoadsideSpaces(ctx context.Context, f opendata.AreaFilter) ([]RoadsideSpace, error) {
	s.logger.Info().Str("area", f.Area).Msg("querying roadside parking")

	spaces, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceRoadsideParking, nil, toRoadsideSpace)
	if err != nil {
		return nil, fmt.Errorf("fetch roadside parking: %w", err)
	}

	return opendata.Filter(spaces, func(sp RoadsideSpace) bool {
		if sp.Area != nil {
			return f.Match(*sp.Area, sp.Name)
		}
		return f.Match(sp.Name)
	}), nil
}

// NearbyLots returns lots with coordinates within the radius, nearest first.
func (s *Service) NearbyLots(ctx context.Context, r geo.Radius) ([]Lot, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	lots, err := s.allLots(ctx)
	if err != nil {
		return nil, err
	}

	return geo.Within(lots, r, lotLocation, func(l *Lot, d float64) { l.DistanceMeters = &d }), nil
}

func (s *Service) allLots(ctx context.Context) ([]Lot, error) {
	lots, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceParkingLots, nil, toLot)
	if err != nil {
		return nil, fmt.Errorf("fetch parking lots: %w", err)
	}
	return lots, nil
}

func lotLocation(l Lot) (geo.Point, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return geo.Point{}, false
	}
	if *l.Latitude == 0 && *l.Longitude == 0 {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *l.Latitude, Lon: *l.Longitude}, true
}
