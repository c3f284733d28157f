package latlon

import "math"

// LatLonHaversine models the Earth as a sphere of radius R.
type LatLonHaversine struct{}

func (LatLonHaversine) initialBearingTo(λ1, φ1, λ2, φ2 float64) float64 {
	Δλ := λ2 - λ1
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return math.Mod(θ+2*π, 2*π)
}

// Distance never fails.
func (hav LatLonHaversine) Distance(from, to LatLon) (Solution, error) {
	φ1 := ToRadians(from.Lat)
	φ2 := ToRadians(to.Lat)
	λ1 := ToRadians(from.Lon)
	λ2 := ToRadians(to.Lon)
	Δφ := φ2 - φ1
	Δλ := λ2 - λ1

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	if δ == 0 {
		return Solution{}, nil
	}

	return Solution{
		Distance:       R * δ,
		InitialBearing: hav.initialBearingTo(λ1, φ1, λ2, φ2),
		FinalBearing:   math.Mod(hav.initialBearingTo(λ2, φ2, λ1, φ1)+π, 2*π),
	}, nil
}

// Destination returns the point reached after travelling distance meters
// from from on the initial bearing (degrees).
func (LatLonHaversine) Destination(from LatLon, bearing float64, distance float64) LatLon {
	φ1 := ToRadians(from.Lat)
	λ1 := ToRadians(from.Lon)
	θ := ToRadians(bearing)

	δ := distance / R

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	lon := ToDegrees(λ2)
	lon = wrap360(lon+180) - 180

	return LatLon{Lat: ToDegrees(φ2), Lon: lon}
}
