package race

import (
	"errors"
	"math"
	"time"

	"github.com/a-bouts/racing-calculator/latlon"
)

var (
	ErrNoPositionAvailable = errors.New("no position available")
	ErrRaceInProgress      = errors.New("race in progress")
	ErrNoCourseSelected    = errors.New("no course selected")
	ErrLastLegReached      = errors.New("last leg reached")
	ErrInvalidCountdown    = errors.New("invalid countdown")
)

// Status of a race. There is no finished state: a race keeps racing until
// it is cancelled.
type Status uint8

const (
	Setup Status = iota
	PreStart
	Racing
)

func (s Status) String() string {
	switch s {
	case Setup:
		return "setup"
	case PreStart:
		return "pre-start"
	case Racing:
		return "racing"
	}
	return "unknown"
}

// StartLine ends are pinged independently.
type StartLine struct {
	BoatEnd *latlon.LatLon `json:"boatEnd,omitempty"`
	PinEnd  *latlon.LatLon `json:"pinEnd,omitempty"`
}

// Race is the race state machine. It is not safe for concurrent use; the
// owner serializes commands and Evaluate.
type Race struct {
	model  latlon.Model
	radius float64

	course          *Course
	startline       StartLine
	start           time.Time
	hasStart        bool
	status          Status
	currentLegIndex int
}

// New returns a race in setup. radius is the distance to a mark, in
// meters, under which the current leg is considered completed.
func New(model latlon.Model, radius float64) *Race {
	return &Race{
		model:  model,
		radius: radius,
		status: Setup,
	}
}

func (r *Race) Status() Status {
	return r.status
}

func (r *Race) Course() *Course {
	return r.course
}

func (r *Race) StartLine() StartLine {
	return r.startline
}

func (r *Race) CurrentLegIndex() int {
	return r.currentLegIndex
}

// StartTime is the scheduled start, if a countdown is running or the race
// has started.
func (r *Race) StartTime() (time.Time, bool) {
	return r.start, r.hasStart
}

// CurrentLeg is false until a course is selected.
func (r *Race) CurrentLeg() (CourseLeg, bool) {
	if r.course == nil {
		return CourseLeg{}, false
	}
	return r.course.Leg(r.currentLegIndex), true
}

// maxCountdown is the longest countdown, in seconds, a time.Duration holds.
const maxCountdown = float64(math.MaxInt64) / float64(time.Second)

// StartCountdown schedules the start secondsFromNow after now.
func (r *Race) StartCountdown(now time.Time, secondsFromNow float64) error {
	if math.IsNaN(secondsFromNow) || math.Abs(secondsFromNow) >= maxCountdown {
		return ErrInvalidCountdown
	}
	r.start = now.Add(time.Duration(secondsFromNow * float64(time.Second)))
	r.hasStart = true
	r.status = PreStart
	r.currentLegIndex = 0
	return nil
}

func (r *Race) CancelRace() {
	r.start = time.Time{}
	r.hasStart = false
	r.status = Setup
	r.currentLegIndex = 0
}

func (r *Race) PingBoatEnd(position *latlon.LatLon) error {
	if position == nil {
		return ErrNoPositionAvailable
	}
	p := *position
	r.startline.BoatEnd = &p
	return nil
}

func (r *Race) PingPinEnd(position *latlon.LatLon) error {
	if position == nil {
		return ErrNoPositionAvailable
	}
	p := *position
	r.startline.PinEnd = &p
	return nil
}

func (r *Race) SelectCourse(course *Course) error {
	if r.status == Racing {
		return ErrRaceInProgress
	}
	r.course = course
	r.currentLegIndex = 0
	return nil
}

// AdvanceLeg moves to the next leg and returns it.
func (r *Race) AdvanceLeg() (CourseLeg, error) {
	if r.course == nil {
		return CourseLeg{}, ErrNoCourseSelected
	}
	if !r.course.HasNextLeg(r.currentLegIndex) {
		return CourseLeg{}, ErrLastLegReached
	}
	r.currentLegIndex++
	return r.course.Leg(r.currentLegIndex), nil
}
