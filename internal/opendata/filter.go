package opendata

import "strings"

// AreaFilter narrows a dataset to rows whose district or area contains Area.
// An empty Area matches every row.
type AreaFilter struct {
	Area string
}

// Match reports whether any of the candidate values contains the area.
func (f AreaFilter) Match(values ...string) bool {
	area := strings.TrimSpace(f.Area)
	if area == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(v, area) {
			return true
		}
	}
	return false
}

// Filter returns the records accepted by keep, preserving order.
func Filter[R any](records []R, keep func(R) bool) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
