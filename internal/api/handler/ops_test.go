package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntpc-opendata/ntpc-opendata/internal/api/handler"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/models"
	"github.com/ntpc-opendata/ntpc-opendata/internal/provider/resilience"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// trippedRegistry registers a client whose circuit opens on the first failure
// and makes one failing call through it.
func trippedRegistry(t *testing.T) *resilience.Registry {
	t.Helper()

	registry := resilience.NewRegistry()
	cfg := resilience.DefaultClientConfig("ntpc-opendata")
	cfg.Registry = registry
	cfg.CircuitBreaker.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 }
	cfg.Transport = roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	client := resilience.NewClient(cfg)

	req, err := http.NewRequest(http.MethodGet, "http://data.ntpc.test/api/datasets", http.NoBody)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.Error(t, err)

	return registry
}

func TestOpsHandler_HealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.0", "2026-10-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.HealthStatusOK, body.Status)
	assert.Equal(t, "1.2.0", body.Details["version"])
	assert.Equal(t, "2026-10-01T00:00:00Z", body.Details["buildTime"])
}

func TestOpsHandler_ReadinessCheck(t *testing.T) {
	t.Run("no providers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.NewOpsHandler("dev", "", nil).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	})

	t.Run("closed circuit", func(t *testing.T) {
		registry := resilience.NewRegistry()
		cfg := resilience.DefaultClientConfig("ntpc-opendata")
		cfg.Registry = registry
		resilience.NewClient(cfg)

		rec := httptest.NewRecorder()
		handler.NewOpsHandler("dev", "", registry).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("open circuit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.NewOpsHandler("dev", "", trippedRegistry(t)).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"FAIL"`)
	})
}

func TestOpsHandler_SystemStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewOpsHandler("dev", "", trippedRegistry(t)).SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)

	var body models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.HealthStatusFail, body.Status)
	require.Len(t, body.Providers, 1)

	p := body.Providers[0]
	assert.Equal(t, "ntpc-opendata", p.Provider)
	assert.Equal(t, models.HealthStatusFail, p.Status)
	assert.Equal(t, "open", p.CircuitState)
	assert.Nil(t, p.LastSuccessAt)
	require.NotNil(t, p.LastFailureAt)
	require.NotNil(t, p.Message)
	assert.Contains(t, *p.Message, "connection refused")
}

func TestOpsHandler_SystemStatus_NoProviders(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewOpsHandler("dev", "", nil).SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	assert.JSONEq(t, `"OK"`, string(mustField(t, rec.Body.Bytes(), "status")))
	assert.JSONEq(t, `[]`, string(mustField(t, rec.Body.Bytes(), "providers")))
}

func mustField(t *testing.T, body []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	v, ok := m[key]
	require.True(t, ok, "missing field %q", key)
	return v
}
