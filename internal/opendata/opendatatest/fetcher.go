// Package opendatatest provides an in-memory RowFetcher for service tests.
package opendatatest

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

// Call records one Rows invocation.
type Call struct {
	Resource string
	Params   url.Values
}

// Fetcher serves canned JSON bodies per dataset name. Bodies go through
// opendata.UnwrapRows, so both bare arrays and {"data": [...]} envelopes work.
type Fetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  []Call

	// Respond, when set, picks the body from the request parameters.
	Respond func(resource string, params url.Values) (string, bool)
}

// NewFetcher creates an empty fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
	}
}

// With registers a JSON body for a dataset.
func (f *Fetcher) With(resource, body string) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[resource] = body
	return f
}

// Failing makes every request for resource return err.
func (f *Fetcher) Failing(resource string, err error) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[resource] = err
	return f
}

// Rows implements opendata.RowFetcher.
func (f *Fetcher) Rows(_ context.Context, resource string, params url.Values) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Resource: resource, Params: params})

	if err, ok := f.errs[resource]; ok {
		return nil, err
	}
	if f.Respond != nil {
		if body, ok := f.Respond(resource, params); ok {
			return opendata.UnwrapRows(json.RawMessage(body))
		}
	}
	body, ok := f.bodies[resource]
	if !ok {
		return []json.RawMessage{}, nil
	}
	return opendata.UnwrapRows(json.RawMessage(body))
}

// Calls returns the recorded invocations.
func (f *Fetcher) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// StatusError builds the error the client returns for a non-2xx response.
func StatusError(status int) error {
	return &opendata.Error{Kind: opendata.KindStatus, Method: "GET", URL: "https://data.ntpc.gov.tw/api/datasets", StatusCode: status}
}
