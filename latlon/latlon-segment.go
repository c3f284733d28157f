package latlon

import "math"

// DistanceToSegment returns the solution from p to the closest point of the
// segment a-b.
//
// The closest point is found on an equirectangular plane centred on p, so
// the result is only meaningful for short segments such as a start line.
func DistanceToSegment(p, a, b LatLon, model Model) (Solution, error) {
	λ0, φ0 := ToRadians(p.Lon), ToRadians(p.Lat)
	φ1, φ2 := ToRadians(a.Lat), ToRadians(b.Lat)

	// longitudes relative to p, so a segment across the antimeridian stays short
	dλ1 := wrapπ(ToRadians(a.Lon) - λ0)
	dλ2 := wrapπ(ToRadians(b.Lon) - λ0)

	cosφ0 := math.Cos(φ0)

	x1 := R * dλ1 * cosφ0
	y1 := R * (φ1 - φ0)

	Δx := x1 - R*dλ2*cosφ0
	Δy := y1 - R*(φ2-φ0)

	L2 := Δx*Δx + Δy*Δy
	if L2 == 0 {
		return model.Distance(p, a)
	}

	t := math.Max(0, math.Min(1, (x1*Δx+y1*Δy)/L2))

	closest := LatLon{
		Lat: ToDegrees(φ1 - t*(φ1-φ2)),
		Lon: ToDegrees(wrapπ(λ0 + dλ1 - t*(dλ1-dλ2))),
	}
	return model.Distance(p, closest)
}
