package opendata

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined errors for the open-data client.
var (
	// ErrUpstream is wrapped by every failure talking to the portal:
	// unbuildable requests, connection problems, non-2xx statuses and
	// undecodable bodies.
	ErrUpstream = errors.New("upstream request failed")

	// ErrUnknownResource is returned when a resource ID is not in the catalog.
	ErrUnknownResource = errors.New("unknown resource id")

	// ErrResourceNotConfigured is returned for datasets that have no resource ID.
	ErrResourceNotConfigured = errors.New("resource not configured")
)

// Kind classifies an upstream failure.
type Kind string

// Upstream failure kinds.
const (
	KindRequest Kind = "request"
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
)

// maxBodySnippet bounds how much of an error response is kept.
const maxBodySnippet = 512

// Error describes a failed upstream call.
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(ErrUpstream.Error())
	if e.Method != "" {
		fmt.Fprintf(&b, ": %s %s", e.Method, e.URL)
	}
	switch e.Kind {
	case KindStatus:
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
		if e.Body != "" {
			b.WriteString(": " + e.Body)
		}
	default:
		b.WriteString(": " + string(e.Kind))
		if e.Err != nil {
			b.WriteString(": " + e.Err.Error())
		}
	}
	return b.String()
}

// Unwrap exposes both ErrUpstream and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}

// StatusCode extracts the upstream HTTP status from err, or 0 if there is none.
func StatusCode(err error) int {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode
	}
	return 0
}

func snippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "..."
	}
	return string(body)
}
