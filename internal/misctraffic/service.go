package misctraffic

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/pkg/geo"
)

// ServiceConfig holds configuration for the misc traffic service.
type ServiceConfig struct {
	Client opendata.RowFetcher
	Logger zerolog.Logger
}

// Service answers taxi, towing and impact assessment queries.
type Service struct {
	client opendata.RowFetcher
	logger zerolog.Logger
}

// NewService creates a new misc traffic service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client: cfg.Client,
		logger: cfg.Logger.With().Str("service", "misctraffic").Logger(),
	}
}

// TaxiServices lists every registered taxi operator.
func (s *Service) TaxiServices(ctx context.Context) ([]TaxiService, error) {
	s.logger.Info().Msg("querying taxi services")

	services, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceTaxiService, nil, toTaxiService)
	if err != nil {
		return nil, fmt.Errorf("fetch taxi services: %w", err)
	}
	return services, nil
}

// SearchTaxiServices matches the keyword against operator names, ignoring
// case, and against phone numbers.
func (s *Service) SearchTaxiServices(ctx context.Context, keyword string) ([]TaxiService, error) {
	services, err := s.TaxiServices(ctx)
	if err != nil {
		return nil, err
	}

	keyword = strings.TrimSpace(keyword)
	lower := strings.ToLower(keyword)
	return opendata.Filter(services, func(t TaxiService) bool {
		return strings.Contains(strings.ToLower(t.Name), lower) || strings.Contains(t.Phone, keyword)
	}), nil
}

// TowingStorages lists towing yards whose address contains the area.
func (s *Service) TowingStorages(ctx context.Context, f opendata.AreaFilter) ([]TowingStorage, error) {
	s.logger.Info().Str("area", f.Area).Msg("querying towing storages")

	yards, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceTowingStorage, nil, toTowingStorage)
	if err != nil {
		return nil, fmt.Errorf("fetch towing storages: %w", err)
	}

	return opendata.Filter(yards, func(t TowingStorage) bool { return f.Match(t.Address) }), nil
}

// NearestTowingStorage returns the yard closest to the point, with its
// distance set. It returns nil without error when no yard carries coordinates.
func (s *Service) NearestTowingStorage(ctx context.Context, lat, lon float64) (*TowingStorage, error) {
	p := geo.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return nil, geo.ErrInvalidCoordinate
	}

	yards, err := s.TowingStorages(ctx, opendata.AreaFilter{})
	if err != nil {
		return nil, err
	}

	i, d := geo.Nearest(yards, p, towingLocation)
	if i < 0 {
		s.logger.Warn().Int("yards", len(yards)).Msg("no towing storage carries coordinates")
		return nil, nil
	}

	nearest := yards[i]
	nearest.DistanceMeters = &d
	return &nearest, nil
}

// ImpactAssessments lists assessment reports, optionally for one category.
func (s *Service) ImpactAssessments(ctx context.Context, category string) ([]ImpactAssessment, error) {
	s.logger.Info().Str("category", category).Msg("querying traffic impact assessments")

	reports, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceTrafficImpactAssessment, nil, toImpactAssessment)
	if err != nil {
		return nil, fmt.Errorf("fetch traffic impact assessments: %w", err)
	}

	category = strings.TrimSpace(category)
	return opendata.Filter(reports, func(a ImpactAssessment) bool {
		return strings.Contains(a.Category, category)
	}), nil
}

func towingLocation(t TowingStorage) (geo.Point, bool) {
	if t.Latitude == nil || t.Longitude == nil {
		return geo.Point{}, false
	}
	if *t.Latitude == 0 && *t.Longitude == 0 {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *t.Latitude, Lon: *t.Longitude}, true
}
