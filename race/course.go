package race

import (
	"encoding/json"
	"fmt"

	"github.com/a-bouts/racing-calculator/latlon"
)

// Direction is the general point of sail of a leg.
type Direction uint8

const (
	Upwind Direction = iota
	Downwind
)

func (d Direction) String() string {
	switch d {
	case Upwind:
		return "upwind"
	case Downwind:
		return "downwind"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts "upwind" or "downwind".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "upwind":
		return Upwind, nil
	case "downwind":
		return Downwind, nil
	}
	return 0, fmt.Errorf("invalid leg direction %q", s)
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// CourseLeg ends at a waypoint mark.
type CourseLeg struct {
	WaypointMarkName  string        `json:"waypointMarkName"`
	WaypointMarkPoint latlon.LatLon `json:"waypointMarkPoint"`
	Direction         Direction     `json:"direction"`
}

// Course is an ordered list of at least two legs. Bearing is the nominal
// downwind bearing, in radians.
type Course struct {
	Name    string      `json:"name"`
	Bearing float64     `json:"bearing"`
	Legs    []CourseLeg `json:"legs"`
}

func (c *Course) HasNextLeg(index int) bool {
	return index+1 < len(c.Legs)
}

func (c *Course) Leg(index int) CourseLeg {
	return c.Legs[index]
}

// MarkNames lists the waypoint marks in course order.
func (c *Course) MarkNames() []string {
	names := make([]string, len(c.Legs))
	for i, leg := range c.Legs {
		names[i] = leg.WaypointMarkName
	}
	return names
}
