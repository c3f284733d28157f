package latlon

import (
	"errors"
	"fmt"
	"math"
)

const π = math.Pi

// R is the equatorial radius used by the spherical model.
const R = 6378137.0

// ErrConvergenceFailure is returned when the ellipsoidal solver runs out of
// iterations.
var ErrConvergenceFailure = errors.New("formula failed to converge")

// ErrUnknownModel is returned by ByName.
var ErrUnknownModel = errors.New("unknown distance model")

// LatLon is a WGS84 point in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p LatLon) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// Solution of a distance problem. Bearings are radians clockwise from true
// north in [0, 2π).
type Solution struct {
	Distance       float64 `json:"distance"`
	InitialBearing float64 `json:"initialBearing"`
	FinalBearing   float64 `json:"finalBearing"`
}

// Model computes the distance and bearings between two points.
type Model interface {
	Distance(from, to LatLon) (Solution, error)
}

// ByName returns the model configured under name: "haversine" or "wsg84".
func ByName(name string) (Model, error) {
	switch name {
	case "haversine":
		return LatLonHaversine{}, nil
	case "wsg84":
		return LatLonVincenty{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// ToRadians converts degrees to radians.
func ToRadians(a float64) float64 {
	return a * π / 180.0
}

// ToDegrees converts radians to degrees.
func ToDegrees(a float64) float64 {
	return a * 180.0 / π
}

// Wrap2π normalizes an angle in radians into [0, 2π).
func Wrap2π(a float64) float64 {
	if 0.0 <= a && a < 2*π {
		return a
	}
	a = math.Mod(a, 2*π)
	if a < 0 {
		a += 2 * π
	}
	if a >= 2*π {
		a = 0
	}
	return a
}

// wrapπ normalizes an angle in radians into (-π, π].
func wrapπ(a float64) float64 {
	a = math.Mod(a+π, 2*π)
	if a <= 0 {
		a += 2 * π
	}
	return a - π
}

func wrap360(d float64) float64 {
	return ToDegrees(Wrap2π(ToRadians(d)))
}
