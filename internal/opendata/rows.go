package opendata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UnwrapRows extracts the row list from a portal response. A top-level array
// is the row list, an object yields its "data" array, and any other value
// yields no rows.
func UnwrapRows(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []json.RawMessage{}, nil
	}

	switch raw[0] {
	case '[':
		var rows []json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, &Error{Kind: KindDecode, Body: snippet(raw), Err: err}
		}
		return rows, nil
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, &Error{Kind: KindDecode, Body: snippet(raw), Err: err}
		}
		data := bytes.TrimSpace(envelope.Data)
		if len(data) == 0 || data[0] != '[' {
			return []json.RawMessage{}, nil
		}
		return UnwrapRows(data)
	default:
		return []json.RawMessage{}, nil
	}
}

// DecodeRow unmarshals one row into a wire struct and validates it.
func DecodeRow[W any](row json.RawMessage) (*W, error) {
	var w W
	if err := json.Unmarshal(row, &w); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	if err := validate.Struct(&w); err != nil {
		return nil, fmt.Errorf("validate row: %w", err)
	}
	return &w, nil
}

// DecodeRows decodes and validates every row, converting the valid ones into
// records. Rows that fail to decode or validate are skipped and counted.
func DecodeRows[W any, R any](rows []json.RawMessage, convert func(*W) R) ([]R, int) {
	records := make([]R, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		w, err := DecodeRow[W](row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, convert(w))
	}
	return records, skipped
}

// Query fetches a dataset through f and decodes its rows. Dropped rows are
// logged and, when f supports it, counted in metrics.
func Query[W any, R any](ctx context.Context, f RowFetcher, logger zerolog.Logger, resource string, params url.Values, convert func(*W) R) ([]R, error) {
	rows, err := f.Rows(ctx, resource, params)
	if err != nil {
		return nil, err
	}

	records, skipped := DecodeRows(rows, convert)
	if skipped > 0 {
		logger.Warn().
			Str("resource", resource).
			Int("rows", len(rows)).
			Int("skipped", skipped).
			Msg("dropped invalid rows")
		if recorder, ok := f.(skipRecorder); ok {
			recorder.RecordSkipped(ctx, resource, skipped)
		}
	}

	return records, nil
}

type skipRecorder interface {
	RecordSkipped(ctx context.Context, resource string, n int)
}
