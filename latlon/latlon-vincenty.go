package latlon

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid.
const (
	SemiMajorAxis = 6378137.0
	SemiMinorAxis = 6356752.314245
	Flattening    = 1 / 298.257223563
	EccSquared    = 0.006694380004260827
)

const (
	vincentyTolerance  = 1e-12
	vincentyIterations = 100
)

// LatLonVincenty solves the inverse problem on the WGS84 ellipsoid with
// Vincenty's iterative formula.
type LatLonVincenty struct{}

type outcome uint8

const (
	converged outcome = iota
	coincident
	failed
)

// iteration holds the state of the λ recurrence once it stopped.
type iteration struct {
	outcome    outcome
	steps      int
	λ          float64
	sinλ, cosλ float64
	sinσ, cosσ float64
	σ          float64
	cosSqα     float64
	cos2σm     float64
}

func (LatLonVincenty) iterate(L, sinU1, cosU1, sinU2, cosU2 float64) iteration {
	it := iteration{λ: L}

	for it.steps = 1; it.steps <= vincentyIterations; it.steps++ {
		it.sinλ, it.cosλ = math.Sincos(it.λ)
		sinSqσ := (cosU2*it.sinλ)*(cosU2*it.sinλ) +
			(cosU1*sinU2-sinU1*cosU2*it.cosλ)*(cosU1*sinU2-sinU1*cosU2*it.cosλ)
		it.sinσ = math.Sqrt(sinSqσ)
		if it.sinσ == 0 {
			it.outcome = coincident
			return it
		}

		it.cosσ = sinU1*sinU2 + cosU1*cosU2*it.cosλ
		it.σ = math.Atan2(it.sinσ, it.cosσ)
		sinα := cosU1 * cosU2 * it.sinλ / it.sinσ
		it.cosSqα = 1 - sinα*sinα
		it.cos2σm = it.cosσ - 2*sinU1*sinU2/it.cosSqα
		if math.IsNaN(it.cos2σm) || math.IsInf(it.cos2σm, 0) {
			// equatorial line: cosSqα = 0 (Vincenty 1975, §6)
			it.cos2σm = 0
		}

		C := Flattening / 16 * it.cosSqα * (4 + Flattening*(4-3*it.cosSqα))
		λPrev := it.λ
		it.λ = L + (1-C)*Flattening*sinα*
			(it.σ+C*it.sinσ*(it.cos2σm+C*it.cosσ*(-1+2*it.cos2σm*it.cos2σm)))

		if math.Abs(it.λ-λPrev) <= vincentyTolerance {
			it.outcome = converged
			return it
		}
	}

	it.outcome = failed
	return it
}

// Distance returns ErrConvergenceFailure for nearly antipodal points the
// recurrence cannot resolve within 100 iterations.
func (v LatLonVincenty) Distance(from, to LatLon) (Solution, error) {
	L := ToRadians(to.Lon) - ToRadians(from.Lon)

	tanU1 := (1 - Flattening) * math.Tan(ToRadians(from.Lat))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	tanU2 := (1 - Flattening) * math.Tan(ToRadians(to.Lat))
	cosU2 := 1 / math.Sqrt(1+tanU2*tanU2)
	sinU2 := tanU2 * cosU2

	it := v.iterate(L, sinU1, cosU1, sinU2, cosU2)
	switch it.outcome {
	case coincident:
		return Solution{}, nil
	case failed:
		return Solution{}, fmt.Errorf("%w: %s to %s after %d iterations", ErrConvergenceFailure, from, to, vincentyIterations)
	}

	a2, b2 := SemiMajorAxis*SemiMajorAxis, SemiMinorAxis*SemiMinorAxis
	uSq := it.cosSqα * (a2 - b2) / b2
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	Δσ := B * it.sinσ * (it.cos2σm + B/4*(it.cosσ*(-1+2*it.cos2σm*it.cos2σm)-
		B/6*it.cos2σm*(-3+4*it.sinσ*it.sinσ)*(-3+4*it.cos2σm*it.cos2σm)))

	s := SemiMinorAxis * A * (it.σ - Δσ)

	α1 := math.Atan2(cosU2*it.sinλ, cosU1*sinU2-sinU1*cosU2*it.cosλ)
	α2 := math.Atan2(cosU1*it.sinλ, -sinU1*cosU2+cosU1*sinU2*it.cosλ)

	return Solution{
		Distance:       math.Round(s*1e4) / 1e4,
		InitialBearing: Wrap2π(α1),
		FinalBearing:   Wrap2π(α2),
	}, nil
}
