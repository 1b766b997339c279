package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 6.3703, Lng: 2.3912}
	if d := DistanceKm(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceKmCotonouLandmarks(t *testing.T) {
	// Ganhi to Akpakpa, roughly 3km across the lagoon.
	ganhi := Point{Lat: 6.3550, Lng: 2.4183}
	akpakpa := Point{Lat: 6.3672, Lng: 2.4442}

	d := DistanceKm(ganhi, akpakpa)
	if d < 2 || d > 4 {
		t.Fatalf("expected roughly 3km, got %f", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := Point{Lat: 6.3703, Lng: 2.3912}
	b := Point{Lat: 6.4012, Lng: 2.3501}
	if diff := math.Abs(DistanceKm(a, b) - DistanceKm(b, a)); diff > 1e-9 {
		t.Fatalf("distance should be symmetric, diff %g", diff)
	}
}
