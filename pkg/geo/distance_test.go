package geo

import (
	"math"
	"testing"
)

var (
	tunis    = Point{Lat: 36.8065, Lon: 10.1815}
	sousse   = Point{Lat: 35.8256, Lon: 10.6369}
	sfax     = Point{Lat: 34.7406, Lon: 10.7603}
	djerba   = Point{Lat: 33.8076, Lon: 10.8451}
	bizerte  = Point{Lat: 37.2744, Lon: 9.8739}
	allPairs = []Point{tunis, sousse, sfax, djerba, bizerte}
)

func TestHaversineSymmetry(t *testing.T) {
	for _, a := range allPairs {
		for _, b := range allPairs {
			ab := HaversineKm(a, b)
			ba := HaversineKm(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("expected symmetric distance, got %f and %f", ab, ba)
			}
		}
	}
}

func TestHaversineIdentity(t *testing.T) {
	for _, p := range allPairs {
		if d := HaversineKm(p, p); d != 0 {
			t.Errorf("expected zero distance to self, got %f", d)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Tunis to Sousse is roughly 115 km great-circle.
	d := HaversineKm(tunis, sousse)
	if d < 110 || d > 125 {
		t.Errorf("expected roughly 115 km, got %f", d)
	}
}

func TestRoadKmAppliesTortuosity(t *testing.T) {
	straight := HaversineKm(tunis, sfax)
	road := RoadKm(tunis, sfax, DefaultTortuosity)
	expected := math.Round(straight*DefaultTortuosity*10) / 10
	if road != expected {
		t.Errorf("expected %f, got %f", expected, road)
	}
	if road <= straight {
		t.Errorf("road distance %f should exceed straight-line %f", road, straight)
	}
}

func TestRoadKmRounding(t *testing.T) {
	d := RoadKm(tunis, bizerte, DefaultTortuosity)
	if math.Abs(d*10-math.Round(d*10)) > 1e-9 {
		t.Errorf("expected one decimal, got %f", d)
	}
	if d < 0 {
		t.Errorf("expected non-negative distance, got %f", d)
	}
}
