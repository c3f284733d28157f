// Package publish turns race metrics into Signal K values and sends them
// onto a bus.
package publish

import (
	"time"

	"github.com/a-bouts/racing-calculator/race"
)

const (
	Context = "vessels.self"
	Prefix  = "navigation.racing."
)

const (
	TimeToStart       = Prefix + "timeToStart"
	RaceStatus        = Prefix + "raceStatus"
	DistanceBoatEnd   = Prefix + "distanceBoatEnd"
	DistanceStartline = Prefix + "distanceStartline"
	DistancePinEnd    = Prefix + "distancePinEnd"
	DistanceToMark    = Prefix + "distanceToMark"
	CogToMark         = Prefix + "cogToMark"
	BearingToMark     = Prefix + "bearingToMark"
	VmgToMark         = Prefix + "vmgToMark"
	Vmg               = Prefix + "vmg"
	MarkName          = Prefix + "markName"
)

type Value struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

type Update struct {
	Timestamp time.Time `json:"timestamp"`
	Values    []Value   `json:"values"`
}

// Delta is a Signal K delta message.
type Delta struct {
	Context string   `json:"context"`
	Updates []Update `json:"updates"`
}

func NewDelta(at time.Time, values []Value) Delta {
	return Delta{
		Context: Context,
		Updates: []Update{{Timestamp: at.UTC(), Values: values}},
	}
}

// Values returns the metrics that are set, in a stable order.
func Values(m race.Metrics) []Value {
	var values []Value

	float := func(path string, v *float64) {
		if v != nil {
			values = append(values, Value{Path: path, Value: *v})
		}
	}

	float(TimeToStart, m.TimeToStart)
	if m.RaceStatus != nil {
		values = append(values, Status(*m.RaceStatus))
	}
	float(DistanceBoatEnd, m.DistanceBoatEnd)
	float(DistanceStartline, m.DistanceStartline)
	float(DistancePinEnd, m.DistancePinEnd)
	float(DistanceToMark, m.DistanceToMark)
	float(CogToMark, m.CogToMark)
	float(BearingToMark, m.BearingToMark)
	float(VmgToMark, m.VmgToMark)
	float(Vmg, m.Vmg)
	if m.MarkName != nil {
		values = append(values, Mark(*m.MarkName))
	}

	return values
}

func Status(s race.Status) Value {
	return Value{Path: RaceStatus, Value: s.String()}
}

func Mark(name string) Value {
	return Value{Path: MarkName, Value: name}
}
