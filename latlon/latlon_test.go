package latlon

import (
	"errors"
	"math"
	"testing"
)

func TestWrap2π(t *testing.T) {
	a := Wrap2π(-π / 2)
	if math.Abs(a-3*π/2) > 1e-12 {
		t.Errorf("Wrap2π(-π/2) = %f; want 3π/2", a)
	}
	b := Wrap2π(5 * π / 2)
	if math.Abs(b-π/2) > 1e-12 {
		t.Errorf("Wrap2π(5π/2) = %f; want π/2", b)
	}
	c := Wrap2π(2 * π)
	if c != 0 {
		t.Errorf("Wrap2π(2π) = %f; want 0", c)
	}
	d := Wrap2π(-1e-18)
	if d < 0 || d >= 2*π {
		t.Errorf("Wrap2π(-1e-18) = %f; want in [0, 2π)", d)
	}
}

func TestWrapπ(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{π, π},
		{-π, π},
		{3 * π / 2, -π / 2},
		{-3 * π / 2, π / 2},
		{ToRadians(-359.9989), ToRadians(0.0011)},
	}
	for _, tt := range tests {
		if got := wrapπ(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("wrapπ(%f) = %f; want %f", tt.in, got, tt.want)
		}
	}
}

func TestWrap360(t *testing.T) {
	a := wrap360(-1.0)
	if math.Abs(a-359.0) > 1e-9 {
		t.Errorf("wrap360(-1) = %f; want 359.0", a)
	}
	b := wrap360(361.0)
	if math.Abs(b-1.0) > 1e-9 {
		t.Errorf("wrap360(361) = %f; want 1.0", b)
	}
}

func TestAngleConversion(t *testing.T) {
	if ToRadians(180) != π {
		t.Errorf("ToRadians(180) = %f; want π", ToRadians(180))
	}
	if ToDegrees(π/2) != 90 {
		t.Errorf("ToDegrees(π/2) = %f; want 90", ToDegrees(π/2))
	}
	for _, d := range []float64{-720, -90.5, 0, 12.345, 359.999} {
		if r := ToDegrees(ToRadians(d)); math.Abs(r-d) > 1e-9 {
			t.Errorf("ToDegrees(ToRadians(%f)) = %f", d, r)
		}
	}
}

func TestByName(t *testing.T) {
	m, err := ByName("haversine")
	if _, ok := m.(LatLonHaversine); err != nil || !ok {
		t.Errorf("ByName(haversine) = %T, %v; want LatLonHaversine", m, err)
	}
	m, err = ByName("wsg84")
	if _, ok := m.(LatLonVincenty); err != nil || !ok {
		t.Errorf("ByName(wsg84) = %T, %v; want LatLonVincenty", m, err)
	}
	_, err = ByName("flat")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("ByName(flat) error = %v; want ErrUnknownModel", err)
	}
}
