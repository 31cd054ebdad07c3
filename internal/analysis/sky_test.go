package analysis

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestGal2Eq_KnownSources(t *testing.T) {
	tests := []struct {
		name    string
		l, b    float64
		ra, dec float64
	}{
		{"galactic center", 0, 0, 266.40500, -28.93617},
		{"crab", 184.5575, -5.7843, 83.63317, 22.01449},
		{"vela", 263.5523, -2.7870, 128.83664, -45.17655},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := Gal2Eq(tt.l, tt.b)
			if math.Abs(ra-tt.ra) > 1e-4 || math.Abs(dec-tt.dec) > 1e-4 {
				t.Errorf("Gal2Eq(%v, %v) = (%v, %v), want (%v, %v)", tt.l, tt.b, ra, dec, tt.ra, tt.dec)
			}
			l, b := Eq2Gal(tt.ra, tt.dec)
			if angularGap(l, tt.l) > 1e-3 || math.Abs(b-tt.b) > 1e-3 {
				t.Errorf("Eq2Gal(%v, %v) = (%v, %v), want (%v, %v)", tt.ra, tt.dec, l, b, tt.l, tt.b)
			}
		})
	}
}

func angularGap(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

func TestSkyProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := rapid.Float64Range(0, 359.999).Draw(t, "l")
		// Stay away from the poles where longitude is degenerate.
		b := rapid.Float64Range(-85, 85).Draw(t, "b")

		ra, dec := Gal2Eq(l, b)
		if ra < 0 || ra >= 360 || dec < -90 || dec > 90 {
			t.Fatalf("Gal2Eq(%v, %v) out of range: (%v, %v)", l, b, ra, dec)
		}
		l2, b2 := Eq2Gal(ra, dec)
		if angularGap(l, l2) > 1e-5 || math.Abs(b-b2) > 1e-5 {
			t.Fatalf("round trip (%v, %v) -> (%v, %v) -> (%v, %v)", l, b, ra, dec, l2, b2)
		}
	})
}

func TestClampLat(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{90, 90},
		{-90, -90},
		{45.5, 45.5},
		{90.0000001, 90},
		{-90.0000001, -90},
	}
	for _, tt := range tests {
		if got := clampLat(tt.in); got != tt.want {
			t.Errorf("clampLat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEq2Gal_NorthGalacticPole(t *testing.T) {
	_, b := Eq2Gal(192.85948, 27.12825)
	if b < 89.99 {
		t.Errorf("Eq2Gal(north galactic pole) latitude = %v, want +90", b)
	}
	_, dec := Gal2Eq(122.93192, 27.12825)
	if dec < 89.99 {
		t.Errorf("Gal2Eq(north celestial pole) declination = %v, want +90", dec)
	}
}
