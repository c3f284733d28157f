package race

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/a-bouts/racing-calculator/latlon"
)

// Observation is what the vessel reports at a tick. Nil fields are absent.
// COG is in radians, SOG in m/s.
type Observation struct {
	Position *latlon.LatLon
	COG      *float64
	SOG      *float64
}

// Metrics computed by a tick. Only the values whose inputs were available
// are set.
type Metrics struct {
	TimeToStart       *float64 // seconds, negative once started
	RaceStatus        *Status  // set on the pre-start to racing transition
	DistanceBoatEnd   *float64
	DistanceStartline *float64
	DistancePinEnd    *float64
	DistanceToMark    *float64
	CogToMark         *float64 // bearing to the mark
	BearingToMark     *float64 // relative to COG
	VmgToMark         *float64
	Vmg               *float64 // along the course bearing
	MarkName          *string  // set when the leg was completed this tick
}

// Evaluate advances the race to now and computes the navigation metrics.
//
// A failed distance computation drops the metrics depending on it; the
// failures are returned joined and the other metrics are still computed.
func (r *Race) Evaluate(now time.Time, o Observation) (Metrics, error) {
	var m Metrics
	var errs []error

	if r.hasStart {
		timeToStart := r.start.Sub(now).Seconds()
		m.TimeToStart = &timeToStart

		if r.status == PreStart && timeToStart < 0 {
			r.status = Racing
			status := r.status
			m.RaceStatus = &status
		}
	}

	if o.Position != nil {
		if boat := r.startline.BoatEnd; boat != nil {
			if s, err := r.model.Distance(*o.Position, *boat); err != nil {
				errs = append(errs, fmt.Errorf("distance to boat end: %w", err))
			} else {
				m.DistanceBoatEnd = &s.Distance
			}
			if pin := r.startline.PinEnd; pin != nil {
				if s, err := latlon.DistanceToSegment(*o.Position, *boat, *pin, r.model); err != nil {
					errs = append(errs, fmt.Errorf("distance to start line: %w", err))
				} else {
					m.DistanceStartline = &s.Distance
				}
			}
		}

		if pin := r.startline.PinEnd; pin != nil {
			if s, err := r.model.Distance(*o.Position, *pin); err != nil {
				errs = append(errs, fmt.Errorf("distance to pin end: %w", err))
			} else {
				m.DistancePinEnd = &s.Distance
			}
		}
	}

	if leg, ok := r.CurrentLeg(); ok && o.Position != nil && o.COG != nil && o.SOG != nil {
		cog, sog := *o.COG, *o.SOG

		if selfToMark, err := r.model.Distance(*o.Position, leg.WaypointMarkPoint); err != nil {
			errs = append(errs, fmt.Errorf("distance to %s: %w", leg.WaypointMarkName, err))
		} else {
			bearingToMark := latlon.Wrap2π(selfToMark.InitialBearing - cog)
			vmgToMark := sog * math.Cos(bearingToMark)

			m.DistanceToMark = &selfToMark.Distance
			m.CogToMark = &selfToMark.InitialBearing
			m.BearingToMark = &bearingToMark
			m.VmgToMark = &vmgToMark

			if selfToMark.Distance < r.radius && r.course.HasNextLeg(r.currentLegIndex) {
				next, _ := r.AdvanceLeg()
				m.MarkName = &next.WaypointMarkName
			}
		}

		vmg := sog * math.Cos(latlon.Wrap2π(r.course.Bearing - cog))
		m.Vmg = &vmg
	}

	return m, errors.Join(errs...)
}
