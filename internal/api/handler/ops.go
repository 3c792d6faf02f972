// Package handler provides HTTP handlers for the tool service.
package handler

import (
	"net/http"
	"time"

	"github.com/ntpc-opendata/ntpc-opendata/internal/api/models"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/response"
	"github.com/ntpc-opendata/ntpc-opendata/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	health    *resilience.Registry
	now       func() time.Time
}

// NewOpsHandler creates a new OpsHandler. health may be nil, in which case no
// providers are reported.
func NewOpsHandler(version, buildTime string, health *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		health:    health,
		now:       time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The service is not ready while the
// circuit to any upstream is open.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := overall(h.providers())
	health := models.Health{
		Status: status,
		Time:   models.Timestamp(h.now()),
	}
	if status == models.HealthStatusFail {
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - upstream provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	providers := h.providers()
	status := models.SystemStatus{
		Status:    overall(providers),
		Time:      models.Timestamp(h.now()),
		Providers: providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) providers() []models.ProviderStatus {
	if h.health == nil {
		return []models.ProviderStatus{}
	}

	all := h.health.GetAllHealth()
	out := make([]models.ProviderStatus, 0, len(all))
	for _, p := range all {
		ps := models.ProviderStatus{
			Provider:            p.Name,
			Status:              healthStatus(p.Status()),
			CircuitState:        p.CircuitState.String(),
			Requests:            p.Counts.Requests,
			ConsecutiveFailures: p.Counts.ConsecutiveFailures,
		}
		if p.LastSuccessAt != nil {
			ps.LastSuccessAt = models.TimestampPtr(*p.LastSuccessAt)
		}
		if p.LastFailureAt != nil {
			ps.LastFailureAt = models.TimestampPtr(*p.LastFailureAt)
		}
		if p.LastError != "" {
			msg := p.LastError
			ps.Message = &msg
		}
		out = append(out, ps)
	}
	return out
}

func healthStatus(label string) models.HealthStatus {
	switch label {
	case resilience.StatusHealthy:
		return models.HealthStatusOK
	case resilience.StatusDegraded:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusFail
	}
}

// overall is the worst status among providers.
func overall(providers []models.ProviderStatus) models.HealthStatus {
	status := models.HealthStatusOK
	for _, p := range providers {
		switch p.Status {
		case models.HealthStatusFail:
			return models.HealthStatusFail
		case models.HealthStatusDegraded:
			status = models.HealthStatusDegraded
		}
	}
	return status
}
