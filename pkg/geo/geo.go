// Package geo provides great-circle distance helpers for radius queries.
package geo

import (
	"errors"
	"math"
	"sort"
)

const (
	// EarthRadius is the mean Earth radius in meters.
	EarthRadius = 6371000

	// DefaultRadiusMeters is used when a Radius has no explicit size.
	DefaultRadiusMeters = 500
)

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

// Radius describes a circle around a caller-supplied point.
type Radius struct {
	Lat    float64
	Lon    float64
	Meters float64
}

// Center returns the radius origin.
func (r Radius) Center() Point {
	return Point{Lat: r.Lat, Lon: r.Lon}
}

// WithDefaults fills in DefaultRadiusMeters when Meters is not positive.
func (r Radius) WithDefaults() Radius {
	if r.Meters <= 0 {
		r.Meters = DefaultRadiusMeters
	}
	return r
}

// Validate checks that the center is a real coordinate.
func (r Radius) Validate() error {
	if !r.Center().Valid() {
		return ErrInvalidCoordinate
	}
	return nil
}

// Within keeps the items located inside r, attaches their distance (rounded to
// whole meters) through setDistance and sorts them nearest first. Items that
// locate reports as unplaceable are dropped.
func Within[T any](items []T, r Radius, locate func(T) (Point, bool), setDistance func(*T, float64)) []T {
	r = r.WithDefaults()
	center := r.Center()

	type placed struct {
		item     T
		distance float64
	}
	hits := make([]placed, 0, len(items))
	for _, item := range items {
		p, ok := locate(item)
		if !ok {
			continue
		}
		d := Distance(center, p)
		if d > r.Meters {
			continue
		}
		setDistance(&item, math.Round(d))
		hits = append(hits, placed{item: item, distance: d})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

// Nearest returns the index of the item closest to p, or -1 when none can be
// located, together with its distance.
func Nearest[T any](items []T, p Point, locate func(T) (Point, bool)) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, item := range items {
		q, ok := locate(item)
		if !ok {
			continue
		}
		if d := Distance(p, q); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, math.Round(bestDist)
}
