package opendata_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/internal/provider/resilience"
)

const youbikeID = "010e5b15-3823-4b20-b401-b1cf000550c5"

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*opendata.ClientConfig)) *opendata.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := opendata.ClientConfig{
		BaseURL: server.URL + "/api/datasets",
		Timeout: 5 * time.Second,
		Logger:  zerolog.Nop(),
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return opendata.NewClient(cfg)
}

func TestClient_GetByResourceID(t *testing.T) {
	var gotPath, gotAccept, gotAuth, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"sno":"1001"}]`))
	})

	params := url.Values{"page": {"0"}, "size": {"100"}}
	raw, err := client.GetByResourceID(context.Background(), youbikeID, params)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"sno":"1001"}]`, string(raw))
	assert.Equal(t, "/api/datasets/"+youbikeID+"/json", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "page=0&size=100", gotQuery)
}

func TestClient_BearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, func(cfg *opendata.ClientConfig) {
		cfg.APIKey = "secret-key"
	})

	_, err := client.GetByResourceID(context.Background(), youbikeID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestClient_TrimsParams(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})

	params := url.Values{"nameZh": {"  935  "}, "empty": {"   "}, "page": {"0"}}
	_, err := client.GetByResourceID(context.Background(), youbikeID, params)
	require.NoError(t, err)

	assert.Equal(t, "935", gotQuery.Get("nameZh"))
	assert.Equal(t, "0", gotQuery.Get("page"))
	_, hasEmpty := gotQuery["empty"]
	assert.False(t, hasEmpty)
}

func TestClient_UnknownResourceMakesNoRequest(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.GetByResourceID(context.Background(), "not-a-real-id", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, opendata.ErrUnknownResource)
	assert.False(t, errors.Is(err, opendata.ErrUpstream))
	assert.False(t, called)
}

func TestClient_UnconfiguredDataset(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Rows(context.Background(), opendata.ResourceTaxiService, nil)
	assert.ErrorIs(t, err, opendata.ErrResourceNotConfigured)
	assert.False(t, called)
}

func TestClient_ConfiguredDataset(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":[{"countycode":"65000"}]}`))
	}, func(cfg *opendata.ClientConfig) {
		cfg.Resources = map[string]string{opendata.ResourceTaxiService: "taxi-id"}
	})

	rows, err := client.Rows(context.Background(), opendata.ResourceTaxiService, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "/api/datasets/taxi-id/json", gotPath)
}

func TestClient_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	})

	_, err := client.Rows(context.Background(), opendata.ResourceYouBike, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, opendata.ErrUpstream)

	var upstreamErr *opendata.Error
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, opendata.KindStatus, upstreamErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Body, "boom")
	assert.Equal(t, http.StatusInternalServerError, opendata.StatusCode(err))
	assert.Contains(t, err.Error(), "upstream request failed")
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_NotFoundIsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetByResourceID(context.Background(), youbikeID, nil)
	assert.ErrorIs(t, err, opendata.ErrUpstream)
	assert.Equal(t, http.StatusNotFound, opendata.StatusCode(err))
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.GetByResourceID(context.Background(), youbikeID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, opendata.ErrUpstream)

	var upstreamErr *opendata.Error
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, opendata.KindDecode, upstreamErr.Kind)
	assert.Equal(t, http.StatusOK, upstreamErr.StatusCode)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	client := opendata.NewClient(opendata.ClientConfig{BaseURL: base, Logger: zerolog.Nop()})

	_, err := client.GetByResourceID(context.Background(), youbikeID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, opendata.ErrUpstream)

	var upstreamErr *opendata.Error
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, opendata.KindNetwork, upstreamErr.Kind)
	assert.Zero(t, opendata.StatusCode(err))
}

func TestClient_RequestBuildErrors(t *testing.T) {
	var hits int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	tests := []struct {
		name    string
		call    func() error
		wantMsg string
	}{
		{
			name: "unencodable body",
			call: func() error {
				_, err := client.Post(context.Background(), "search", map[string]any{"ch": make(chan int)})
				return err
			},
			wantMsg: "encode request body",
		},
		{
			name: "invalid url",
			call: func() error {
				_, err := client.Get(context.Background(), "bad\npath", nil)
				return err
			},
			wantMsg: "create request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, opendata.ErrUpstream)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var upstreamErr *opendata.Error
			require.ErrorAs(t, err, &upstreamErr)
			assert.Equal(t, opendata.KindRequest, upstreamErr.Kind)
			assert.Zero(t, opendata.StatusCode(err))
		})
	}
	assert.Zero(t, hits)
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`[]`))
	}, func(cfg *opendata.ClientConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	_, err := client.GetByResourceID(context.Background(), youbikeID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, opendata.ErrUpstream)
}

func TestClient_Post(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	raw, err := client.Post(context.Background(), "/search", map[string]any{"keyword": "youbike"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "youbike", gotBody["keyword"])
}

func TestClient_Get(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"total":3}`))
	})

	raw, err := client.Get(context.Background(), "meta/youbike", url.Values{"lang": {"zh"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3}`, string(raw))
	assert.Equal(t, "/api/datasets/meta/youbike", gotPath)
}

func TestClient_RowsEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "array", body: `[{"a":1},{"a":2}]`, want: 2},
		{name: "data object", body: `{"data":[{"a":1}],"total":1}`, want: 1},
		{name: "object without data", body: `{"total":0}`, want: 0},
		{name: "scalar", body: `"nothing here"`, want: 0},
		{name: "empty array", body: `[]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			rows, err := client.Rows(context.Background(), opendata.ResourceYouBike, nil)
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestClient_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, func(cfg *opendata.ClientConfig) {
		cfg.Tracer = tp.Tracer("test")
	})

	_, err := client.Rows(context.Background(), opendata.ResourceYouBike, nil)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "opendata GET", spans[0].Name())
}

func TestClient_RegistersHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	registry := resilience.NewRegistry()
	client := opendata.NewClient(opendata.ClientConfig{
		BaseURL:  server.URL,
		Registry: registry,
		Logger:   zerolog.Nop(),
	})

	_, err := client.Rows(context.Background(), opendata.ResourceYouBike, nil)
	require.NoError(t, err)

	health := registry.GetHealth(opendata.ProviderName)
	require.NotNil(t, health)
	assert.True(t, health.IsHealthy())
	assert.NotNil(t, health.LastSuccessAt)
}

func TestClient_CatalogIsCopy(t *testing.T) {
	client := opendata.NewClient(opendata.ClientConfig{Logger: zerolog.Nop()})

	catalog := client.Catalog()
	catalog[opendata.ResourceYouBike] = "changed"

	assert.Equal(t, youbikeID, client.Catalog()[opendata.ResourceYouBike])
	assert.True(t, strings.HasPrefix(opendata.DefaultBaseURL, "https://data.ntpc.gov.tw"))
}
