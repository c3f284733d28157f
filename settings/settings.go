// Package settings turns the plugin settings document into validated
// courses and a distance model.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/racing-calculator/latlon"
	"github.com/a-bouts/racing-calculator/race"
)

const DefaultDistanceToDetectLegCompletion = 30.0

var (
	ErrUnknownDistanceMetric = errors.New("unknown distance metric")
	ErrInvalidRadius         = errors.New("invalid leg completion radius")
)

type FixedMark struct {
	MarkName  string   `json:"markName"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Leg struct {
	WaypointMark string `json:"waypointMark"`
	Direction    string `json:"direction"`
}

type RaceCourse struct {
	CourseName    string   `json:"courseName"`
	CourseBearing *float64 `json:"courseBearing"`
	Legs          []Leg    `json:"legs"`
}

// Settings as stored by the host, angles in degrees.
type Settings struct {
	DistanceMetric                string       `json:"distanceMetric"`
	DistanceToDetectLegCompletion *float64     `json:"distanceToDetectLegCompletion"`
	FixedMarks                    []FixedMark  `json:"fixedMarks"`
	RaceCourses                   []RaceCourse `json:"raceCourses"`
}

// Config is what the race needs.
type Config struct {
	Model                         latlon.Model
	DistanceToDetectLegCompletion float64
	Marks                         map[string]latlon.LatLon
	Courses                       map[string]*race.Course
}

// CourseNames returns the course names sorted.
func (c Config) CourseNames() []string {
	names := make([]string, 0, len(c.Courses))
	for name := range c.Courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads and validates a settings file.
func Load(file string) (Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		log.Errorf("Error reading file '%s'", file)
		return Config{}, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	var s Settings
	if err := json.Unmarshal(b, &s); err != nil {
		return Config{}, fmt.Errorf("decode settings: %w", err)
	}
	return s.Config()
}

// Config validates the settings. Invalid marks and courses are skipped
// with a warning, an invalid distance metric or radius is an error.
func (s Settings) Config() (Config, error) {
	// no fallback model: an unknown metric is refused rather than read as haversine
	model, err := latlon.ByName(s.DistanceMetric)
	if err != nil {
		return Config{}, fmt.Errorf("%w %q", ErrUnknownDistanceMetric, s.DistanceMetric)
	}

	c := Config{
		Model:                         model,
		DistanceToDetectLegCompletion: DefaultDistanceToDetectLegCompletion,
		Marks:                         make(map[string]latlon.LatLon),
		Courses:                       make(map[string]*race.Course),
	}

	if r := s.DistanceToDetectLegCompletion; r != nil {
		if !(*r > 0) || math.IsInf(*r, 0) {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidRadius, *r)
		}
		c.DistanceToDetectLegCompletion = *r
	}

	for _, mark := range s.FixedMarks {
		p, err := mark.point()
		if err != nil {
			log.Warnf("Skip fixed mark '%s': %v", mark.MarkName, err)
			continue
		}
		c.Marks[mark.MarkName] = p
		log.Debugf("%s @ %s", mark.MarkName, p)
	}

	for _, rc := range s.RaceCourses {
		course, err := rc.course(c.Marks)
		if err != nil {
			log.Warnf("Skip race course '%s': %v", rc.CourseName, err)
			continue
		}
		c.Courses[course.Name] = course
		log.Debugf("%s = %v", course.Name, course.MarkNames())
	}

	return c, nil
}

func (m FixedMark) point() (latlon.LatLon, error) {
	if m.MarkName == "" {
		return latlon.LatLon{}, errors.New("missing mark name")
	}
	if m.Latitude == nil || m.Longitude == nil {
		return latlon.LatLon{}, errors.New("missing coordinates")
	}
	lat, lon := *m.Latitude, *m.Longitude
	if !(lat >= -90 && lat <= 90) || !(lon >= -180 && lon <= 180) {
		return latlon.LatLon{}, fmt.Errorf("coordinates out of range (%f, %f)", lat, lon)
	}
	return latlon.LatLon{Lat: lat, Lon: lon}, nil
}

func (rc RaceCourse) course(marks map[string]latlon.LatLon) (*race.Course, error) {
	if rc.CourseName == "" {
		return nil, errors.New("missing course name")
	}
	if rc.CourseBearing == nil || math.IsNaN(*rc.CourseBearing) || math.IsInf(*rc.CourseBearing, 0) {
		return nil, errors.New("missing course bearing")
	}
	if len(rc.Legs) < 2 {
		return nil, fmt.Errorf("%d legs, want at least 2", len(rc.Legs))
	}

	course := &race.Course{
		Name:    rc.CourseName,
		Bearing: latlon.Wrap2π(latlon.ToRadians(*rc.CourseBearing)),
		Legs:    make([]race.CourseLeg, 0, len(rc.Legs)),
	}
	for i, leg := range rc.Legs {
		p, ok := marks[leg.WaypointMark]
		if !ok {
			return nil, fmt.Errorf("leg %d: unknown mark %q", i+1, leg.WaypointMark)
		}
		d, err := race.ParseDirection(leg.Direction)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}
		course.Legs = append(course.Legs, race.CourseLeg{
			WaypointMarkName:  leg.WaypointMark,
			WaypointMarkPoint: p,
			Direction:         d,
		})
	}
	return course, nil
}
