package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			lat1:      5.6502, lng1: -0.1864,
			lat2:      5.6502, lng2: -0.1864,
			wantKm:    0,
			tolerance: 1e-9,
		},
		{
			name:      "Main campus to Korle Bu campus (~14km)",
			lat1:      5.6502, lng1: -0.1864,
			lat2:      5.5333, lng2: -0.2167,
			wantKm:    13.4,
			tolerance: 1.0,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			lat1:      40.7128, lng1: -74.0060,
			lat2:      34.0522, lng2: -118.2437,
			wantKm:    3944,
			tolerance: 50,
		},
		{
			name:      "one degree of latitude on a meridian",
			lat1:      0, lng1: 0,
			lat2:      1, lng2: 0,
			wantKm:    111.19,
			tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{25.0, 121.0, 26.0, 122.0},
		{5.6502, -0.1864, 5.6578, -0.1938},
		{-33.86, 151.21, 51.5, -0.12},
		{89.9, 179.9, -89.9, -179.9},
	}
	for _, p := range pairs {
		d1 := DistanceKm(p[0], p[1], p[2], p[3])
		d2 := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(d1-d2) > 1e-9 {
			t.Errorf("distance is not symmetric for %v: %f vs %f", p, d1, d2)
		}
		if d1 < 0 {
			t.Errorf("negative distance for %v: %f", p, d1)
		}
	}
}

func TestDegreesRadiansRoundTrip(t *testing.T) {
	for _, deg := range []float64{-180, -90, -0.1864, 0, 5.6502, 90, 180} {
		got := RadiansToDegrees(DegreesToRadians(deg))
		if math.Abs(got-deg) > 1e-12 {
			t.Errorf("round trip of %f = %f", deg, got)
		}
	}
	if got := DegreesToRadians(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("DegreesToRadians(180) = %f, want pi", got)
	}
}
