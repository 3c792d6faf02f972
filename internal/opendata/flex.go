package opendata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// The portal serialises most scalars as strings ("20", "1", "121.46").
// The types below accept both the quoted and the native JSON form. null
// leaves the field absent. A blank numeric or boolean string is an error, as
// is anything else that does not parse, which drops the row.

var null = []byte("null")

var errBlank = errors.New("opendata: blank value")

// String accepts a JSON string or number.
type String string

// UnmarshalJSON implements json.Unmarshaler.
func (s *String) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, null) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = String(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("opendata: cannot decode %s as string", b)
	}
	*s = String(n.String())
	return nil
}

// Int accepts a JSON number or a numeric string.
type Int int64

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil {
		return err
	}
	if raw == "" {
		return errBlank
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = Int(v)
		return nil
	}
	// "12.0" shows up in a few datasets
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return fmt.Errorf("opendata: cannot decode %q as integer", raw)
	}
	*i = Int(int64(f))
	return nil
}

// Float accepts a JSON number or a numeric string.
type Float float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil {
		return err
	}
	if raw == "" {
		return errBlank
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("opendata: cannot decode %q as number", raw)
	}
	*f = Float(v)
	return nil
}

// Bool accepts true/false, 1/0 and their string forms.
type Bool bool

// UnmarshalJSON implements json.Unmarshaler.
func (v *Bool) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil {
		return err
	}
	switch strings.ToLower(raw) {
	case "":
		return errBlank
	case "1", "true", "y", "yes":
		*v = true
	case "0", "false", "n", "no":
		*v = false
	default:
		return fmt.Errorf("opendata: cannot decode %q as boolean", raw)
	}
	return nil
}

// scalarText returns the trimmed text of a JSON string, number or boolean.
func scalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "", fmt.Errorf("opendata: empty value")
	}
	if bytes.Equal(b, null) {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case '{', '[':
		return "", fmt.Errorf("opendata: expected scalar, got %s", b)
	default:
		return string(b), nil
	}
}

// Ptr helpers used when converting wire rows into records.

// StringPtr converts an optional wire string.
func StringPtr(s *String) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// IntPtr converts an optional wire integer.
func IntPtr(i *Int) *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

// FloatPtr converts an optional wire number.
func FloatPtr(f *Float) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// Deref helpers for required wire fields, which validation has already
// guaranteed to be present.

// Str dereferences a required wire string.
func Str(s *String) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Num dereferences a required wire integer.
func Num(i *Int) int {
	if i == nil {
		return 0
	}
	return int(*i)
}

// Coord dereferences a required wire number.
func Coord(f *Float) float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

// Flag dereferences a required wire boolean.
func Flag(v *Bool) bool {
	if v == nil {
		return false
	}
	return bool(*v)
}
