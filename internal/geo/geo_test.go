// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package geo

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   Point
		wantKm float64
		tolKm  float64
	}{
		{"same point", Point{51.5, -0.12}, Point{51.5, -0.12}, 0, 0},
		{"equator 0.005 deg", Point{0, 0}, Point{0, 0.005}, 0.5566, 0.001},
		{"equator 1 deg", Point{0, 0}, Point{0, 1}, 111.319, 0.01},
		{"meridian 1 deg", Point{0, 0}, Point{1, 0}, 110.574, 0.01},
		// Flinders Peak to Buninyong, the classic Vincenty test case.
		{"flinders buninyong", Point{-37.95103342, 144.42486789}, Point{-37.65282114, 143.92649554}, 54.972271, 0.0005},
		{"nearly antipodal", Point{0, 0}, Point{0.5, 179.7}, 19960, 70},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("Distance(%v, %v) = %.6f km, want %.6f ± %.4f", tt.a, tt.b, got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestWithinRadiusSymmetric(t *testing.T) {
	t.Parallel()

	points := []Point{
		{0, 0}, {0, 0.005}, {0, 1.0}, {0.004, 0.004},
		{48.8566, 2.3522}, {48.8600, 2.3400}, {-33.8688, 151.2093},
	}
	radius := NewRadius(1000)

	for _, a := range points {
		for _, b := range points {
			if radius.Contains(a, b) != radius.Contains(b, a) {
				t.Errorf("Contains not symmetric for %v, %v", a, b)
			}
		}
		if !radius.Contains(a, a) {
			t.Errorf("point %v not within radius of itself", a)
		}
	}
}

func TestDistanceArgumentOrder(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 20000; i++ {
		a := Point{Lat: rng.Float64()*170 - 85, Lon: rng.Float64()*358 - 179}
		b := Point{Lat: a.Lat + rng.Float64()*0.4 - 0.2, Lon: a.Lon + rng.Float64()*0.4 - 0.2}

		ab, ba := Distance(a, b), Distance(b, a)
		if ab != ba {
			t.Fatalf("Distance(%v, %v) = %v, reversed = %v", a, b, ab, ba)
		}
		// A radius of exactly the pair's distance sits on the boundary.
		if !WithinRadius(a, b, ab) || !WithinRadius(b, a, ab) {
			t.Fatalf("boundary radius %v not symmetric for %v, %v", ab, a, b)
		}
	}
}

func TestDistanceBoundaryPair(t *testing.T) {
	t.Parallel()

	a := Point{52.0364, -52.1122}
	b := Point{52.1702, -52.0673}
	r := Distance(a, b)
	if !WithinRadius(b, a, r) {
		t.Errorf("WithinRadius(b, a, Distance(a, b)) = false, distance %v", r)
	}
}

func TestRadius(t *testing.T) {
	t.Parallel()

	r := NewRadius(1000)
	if r.Km() != 1 {
		t.Fatalf("Km() = %v, want 1", r.Km())
	}

	alice := Point{0, 0}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"bob 0.56 km", Point{0, 0.005}, true},
		{"carol 111 km", Point{0, 1.0}, false},
		{"just inside", Point{0, 0.0089}, true},
		{"just outside", Point{0, 0.0091}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(alice, tt.p); got != tt.want {
			t.Errorf("%s: Contains = %v, want %v (distance %.4f km)", tt.name, got, tt.want, Distance(alice, tt.p))
		}
	}
}

func TestZeroRadius(t *testing.T) {
	t.Parallel()

	r := NewRadius(0)
	if !r.Contains(Point{1, 1}, Point{1, 1}) {
		t.Error("zero radius must still contain the identical point")
	}
	if r.Contains(Point{1, 1}, Point{1, 1.0001}) {
		t.Error("zero radius must not contain a distinct point")
	}
}

func BenchmarkDistance(b *testing.B) {
	p1 := Point{48.8566, 2.3522}
	p2 := Point{48.8600, 2.3400}
	for i := 0; i < b.N; i++ {
		Distance(p1, p2)
	}
}
