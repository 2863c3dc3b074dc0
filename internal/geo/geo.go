// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package geo computes geodesic distances between positions reported by
// chat clients and decides whether two positions are within the chat radius.
//
// Distances are measured on the WGS-84 ellipsoid with Karney's inverse
// solution (github.com/tidwall/geodesic), which converges for every pair of
// points including nearly antipodal ones.
package geo

import "github.com/tidwall/geodesic"

// Point is a WGS-84 position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// less orders points by latitude, then longitude.
func (p Point) less(q Point) bool {
	if p.Lat != q.Lat {
		return p.Lat < q.Lat
	}
	return p.Lon < q.Lon
}

// Distance returns the geodesic distance between a and b in kilometres.
// The result does not depend on argument order.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}
	// The inverse solution is only symmetric up to rounding.
	if b.less(a) {
		a, b = b, a
	}
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000
}

// Radius is the fixed chat range, derived once from a metres value.
type Radius struct {
	km float64
}

// NewRadius converts a configured radius in metres into a Radius.
func NewRadius(meters int) Radius {
	return Radius{km: float64(meters) / 1000}
}

// Km returns the radius in kilometres.
func (r Radius) Km() float64 {
	return r.km
}

// Contains reports whether a and b are within the radius of each other.
func (r Radius) Contains(a, b Point) bool {
	return WithinRadius(a, b, r.km)
}

// WithinRadius reports whether the geodesic distance between a and b is at
// most radiusKm.
func WithinRadius(a, b Point, radiusKm float64) bool {
	return Distance(a, b) <= radiusKm
}
