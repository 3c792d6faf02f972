// Package opendata provides a client for the New Taipei City open-data portal.
package opendata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/ntpc-opendata/ntpc-opendata/internal/provider/resilience"
	"github.com/ntpc-opendata/ntpc-opendata/internal/telemetry"
)

const (
	// DefaultBaseURL is the dataset API root of the NTPC portal.
	DefaultBaseURL = "https://data.ntpc.gov.tw/api/datasets"

	// DefaultTimeout bounds a single upstream round trip.
	DefaultTimeout = 30 * time.Second

	// ProviderName identifies the portal in health and metrics output.
	ProviderName = "ntpc-opendata"

	tracerName = "github.com/ntpc-opendata/ntpc-opendata/internal/opendata"

	// maxResponseBytes caps how much of a dataset body is read.
	maxResponseBytes = 64 << 20
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RowFetcher fetches the rows of a named dataset. It is the only dependency
// the domain services have on the client.
type RowFetcher interface {
	Rows(ctx context.Context, resource string, params url.Values) ([]json.RawMessage, error)
}

// ClientConfig holds configuration for the open-data client.
type ClientConfig struct {
	// BaseURL is the API root (defaults to DefaultBaseURL).
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout for individual API requests (default: 30s).
	Timeout time.Duration

	// Retries enables retrying transient failures. Zero means a single attempt.
	Retries uint64

	// Resources overrides or extends the default dataset catalog.
	Resources map[string]string

	// HTTPClient is the HTTP client to use.
	// If nil, a resilient client is created and registered in Registry.
	HTTPClient HTTPDoer

	// Registry tracks upstream health (optional).
	Registry *resilience.Registry

	// Metrics records upstream request metrics (optional).
	Metrics *telemetry.UpstreamMetrics

	// Tracer defaults to the global tracer provider.
	Tracer trace.Tracer

	Logger zerolog.Logger
}

// Client is a client for the NTPC open-data API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	catalog    Catalog
	names      map[string]string
	httpClient HTTPDoer
	metrics    *telemetry.UpstreamMetrics
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewClient creates a new open-data client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.MaxRetries = cfg.Retries
		clientCfg.Registry = cfg.Registry
		clientCfg.CircuitBreaker.OnStateChange = resilience.LogStateChanges(cfg.Logger)
		httpClient = resilience.NewClient(clientCfg)
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	catalog := DefaultCatalog().Merge(cfg.Resources)
	names := make(map[string]string, len(catalog))
	for name, id := range catalog {
		if id != "" {
			names[id] = name
		}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		catalog:    catalog,
		names:      names,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		tracer:     tracer,
		logger:     cfg.Logger,
	}
}

// Catalog returns a copy of the client's dataset catalog.
func (c *Client) Catalog() Catalog {
	return c.catalog.Merge(nil)
}

// GetByResourceID fetches the JSON document of a dataset by resource ID.
// The ID must belong to the catalog; unknown IDs are rejected without a request.
func (c *Client) GetByResourceID(ctx context.Context, id string, params url.Values) (json.RawMessage, error) {
	if !c.catalog.Known(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	return c.do(ctx, http.MethodGet, id+"/json", c.names[id], params, nil)
}

// Get issues a GET against a path below the base URL.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, path, params, nil)
}

// Post JSON-encodes body and POSTs it to a path below the base URL.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, path, nil, body)
}

// Rows resolves a dataset name, fetches it and unwraps the row list.
func (c *Client) Rows(ctx context.Context, resource string, params url.Values) ([]json.RawMessage, error) {
	id, err := c.catalog.ID(resource)
	if err != nil {
		return nil, err
	}

	raw, err := c.GetByResourceID(ctx, id, params)
	if err != nil {
		return nil, err
	}

	return UnwrapRows(raw)
}

func (c *Client) do(ctx context.Context, method, path, resource string, params url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if query := cleanParams(params).Encode(); query != "" {
		endpoint += "?" + query
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "opendata "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", endpoint),
			attribute.String("opendata.resource", resource),
		),
	)
	defer span.End()

	start := time.Now()
	raw, status, err := c.roundTrip(ctx, method, endpoint, body)
	duration := time.Since(start)

	c.metrics.RecordRequest(ctx, method, resource, status, duration, err)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("resource", resource).
			Int("status", status).
			Dur("duration", duration).
			Msg("upstream request failed")
		return nil, err
	}

	c.logger.Debug().
		Str("method", method).
		Str("resource", resource).
		Int("status", status).
		Int("bytes", len(raw)).
		Dur("duration", duration).
		Msg("upstream request")

	return raw, nil
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body any) (json.RawMessage, int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &Error{Kind: KindRequest, Method: method, URL: endpoint, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, &Error{Kind: KindRequest, Method: method, URL: endpoint, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Kind: KindNetwork, Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: KindNetwork, Method: method, URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &Error{
			Kind:       KindStatus,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
		}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, resp.StatusCode, &Error{
			Kind:       KindDecode,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
			Err:        err,
		}
	}

	return raw, resp.StatusCode, nil
}

// cleanParams trims every value and drops the empty ones.
func cleanParams(params url.Values) url.Values {
	cleaned := make(url.Values, len(params))
	for key, values := range params {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cleaned.Add(key, v)
			}
		}
	}
	return cleaned
}

// RecordSkipped counts rows of resource dropped by record validation.
func (c *Client) RecordSkipped(ctx context.Context, resource string, n int) {
	c.metrics.RecordSkipped(ctx, resource, n)
}
