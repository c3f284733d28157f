// Package vessel keeps the latest navigation data of the own vessel.
package vessel

import (
	"sync"
	"time"

	"github.com/a-bouts/racing-calculator/latlon"
)

type reading struct {
	value float64
	at    time.Time
}

// Self is safe for concurrent use.
type Self struct {
	maxAge time.Duration

	lock       sync.RWMutex
	position   *latlon.LatLon
	positionAt time.Time
	cog        *reading
	sog        *reading
}

// New returns an empty vessel whose readings expire after maxAge. A zero
// maxAge keeps readings forever.
func New(maxAge time.Duration) *Self {
	return &Self{maxAge: maxAge}
}

func (s *Self) SetPosition(p latlon.LatLon, at time.Time) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.position = &p
	s.positionAt = at
}

// SetCourseOverGround takes radians from true north.
func (s *Self) SetCourseOverGround(cog float64, at time.Time) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cog = &reading{value: latlon.Wrap2π(cog), at: at}
}

// SetSpeedOverGround takes m/s.
func (s *Self) SetSpeedOverGround(sog float64, at time.Time) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sog = &reading{value: sog, at: at}
}

func (s *Self) fresh(at, now time.Time) bool {
	return s.maxAge <= 0 || now.Sub(at) <= s.maxAge
}

func (s *Self) Position(now time.Time) *latlon.LatLon {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.position == nil || !s.fresh(s.positionAt, now) {
		return nil
	}
	p := *s.position
	return &p
}

// Snapshot returns the readings still fresh at now, nil otherwise.
func (s *Self) Snapshot(now time.Time) (position *latlon.LatLon, cog, sog *float64) {
	position = s.Position(now)

	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.cog != nil && s.fresh(s.cog.at, now) {
		v := s.cog.value
		cog = &v
	}
	if s.sog != nil && s.fresh(s.sog.at, now) {
		v := s.sog.value
		sog = &v
	}
	return position, cog, sog
}
