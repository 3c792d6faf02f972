package traffic

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

// ServiceConfig holds configuration for the traffic service.
type ServiceConfig struct {
	Client opendata.RowFetcher
	Logger zerolog.Logger
}

// Service answers traffic equipment queries.
type Service struct {
	client opendata.RowFetcher
	logger zerolog.Logger
}

// NewService creates a new traffic service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client: cfg.Client,
		logger: cfg.Logger.With().Str("service", "traffic").Logger(),
	}
}

// Cameras lists enforcement cameras in a district and along a road.
func (s *Service) Cameras(ctx context.Context, q CameraQuery) ([]Camera, error) {
	s.logger.Info().Str("area", q.Area).Str("road", q.Road).Msg("querying traffic cameras")

	cameras, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceTrafficCameras, nil, toCamera)
	if err != nil {
		return nil, fmt.Errorf("fetch traffic cameras: %w", err)
	}

	area := opendata.AreaFilter{Area: q.Area}
	road := strings.TrimSpace(q.Road)
	return opendata.Filter(cameras, func(c Camera) bool {
		return area.Match(c.District) && strings.Contains(c.Address, road)
	}), nil
}

// ETags lists eTag readers, optionally for one district.
func (s *Service) ETags(ctx context.Context, f opendata.AreaFilter) ([]ETag, error) {
	s.logger.Info().Str("area", f.Area).Msg("querying etag readers")

	etags, err := opendata.Query(ctx, s.client, s.logger, opendata.ResourceTrafficETag, nil, toETag)
	if err != nil {
		return nil, fmt.Errorf("fetch etag readers: %w", err)
	}

	return opendata.Filter(etags, func(e ETag) bool { return f.Match(e.District) }), nil
}
