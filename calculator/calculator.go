// Package calculator hosts a race: it serializes commands and ticks,
// publishes what they compute and notifies race events.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/racing-calculator/latlon"
	"github.com/a-bouts/racing-calculator/publish"
	"github.com/a-bouts/racing-calculator/race"
	"github.com/a-bouts/racing-calculator/settings"
	"github.com/a-bouts/racing-calculator/vessel"
)

// DefaultCountdown is published as time to start when a race is cancelled.
const DefaultCountdown = 300.0

var ErrUnknownCourse = errors.New("unknown race course")

type Notifier interface {
	Send(message string) error
}

type Calculator struct {
	lock sync.Mutex

	race      *race.Race
	config    settings.Config
	self      *vessel.Self
	publisher publish.Publisher
	notifier  Notifier
	now       func() time.Time

	latest map[string]publish.Value
}

// New returns a calculator for the courses of config. notifier may be nil.
func New(config settings.Config, self *vessel.Self, publisher publish.Publisher, notifier Notifier) *Calculator {
	return &Calculator{
		race:      race.New(config.Model, config.DistanceToDetectLegCompletion),
		config:    config,
		self:      self,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
		latest:    make(map[string]publish.Value),
	}
}

// CourseNames returns the configured courses, sorted.
func (c *Calculator) CourseNames() []string {
	return c.config.CourseNames()
}

// Latest returns the last published value of every path, sorted by path.
func (c *Calculator) Latest() []publish.Value {
	c.lock.Lock()
	defer c.lock.Unlock()

	values := make([]publish.Value, 0, len(c.latest))
	for _, v := range c.latest {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Path < values[j].Path })
	return values
}

// Status returns the race status and the current mark, if any.
func (c *Calculator) Status() (race.Status, string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	mark := ""
	if leg, ok := c.race.CurrentLeg(); ok {
		mark = leg.WaypointMarkName
	}
	return c.race.Status(), mark
}

// publish must be called with the lock held.
func (c *Calculator) publish(ctx context.Context, at time.Time, values []publish.Value) {
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		c.latest[v.Path] = v
	}
	if err := c.publisher.Publish(ctx, at, values); err != nil {
		log.Errorf("Error publishing %d values: %v", len(values), err)
	}
}

func (c *Calculator) withCurrentMark(values []publish.Value) []publish.Value {
	if leg, ok := c.race.CurrentLeg(); ok {
		values = append(values, publish.Mark(leg.WaypointMarkName))
	}
	return values
}

func (c *Calculator) StartCountdown(ctx context.Context, seconds float64) ([]publish.Value, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	if err := c.race.StartCountdown(now, seconds); err != nil {
		return nil, err
	}
	start, _ := c.race.StartTime()
	log.Debugf("SetStartTime @ %s", start.Format(time.RFC3339))

	values := c.withCurrentMark([]publish.Value{publish.Status(c.race.Status())})
	c.publish(ctx, now, values)
	return values, nil
}

func (c *Calculator) CancelRace(ctx context.Context) []publish.Value {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.race.CancelRace()
	log.Debug("Race cancelled")

	// metrics of the cancelled race are no longer current
	c.latest = make(map[string]publish.Value)

	values := c.withCurrentMark([]publish.Value{
		{Path: publish.TimeToStart, Value: DefaultCountdown},
		publish.Status(c.race.Status()),
	})
	c.publish(ctx, c.now(), values)
	return values
}

func (c *Calculator) PingBoat() (latlon.LatLon, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	p := c.self.Position(c.now())
	if err := c.race.PingBoatEnd(p); err != nil {
		return latlon.LatLon{}, err
	}
	log.Debugf("PingBoat @ %s", p)
	return *p, nil
}

func (c *Calculator) PingPin() (latlon.LatLon, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	p := c.self.Position(c.now())
	if err := c.race.PingPinEnd(p); err != nil {
		return latlon.LatLon{}, err
	}
	log.Debugf("PingPin @ %s", p)
	return *p, nil
}

func (c *Calculator) SelectRaceCourse(ctx context.Context, name string) ([]publish.Value, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	course, ok := c.config.Courses[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCourse, name)
	}
	if err := c.race.SelectCourse(course); err != nil {
		return nil, err
	}
	log.Debugf("Race course selected: %s", name)

	values := c.withCurrentMark(nil)
	c.publish(ctx, c.now(), values)
	return values, nil
}

func (c *Calculator) NextWaypoint(ctx context.Context) ([]publish.Value, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	leg, err := c.race.AdvanceLeg()
	if err != nil {
		return nil, err
	}
	log.Debugf("Next waypoint: %s", leg.WaypointMarkName)

	values := []publish.Value{publish.Mark(leg.WaypointMarkName)}
	c.publish(ctx, c.now(), values)
	return values, nil
}

// Tick evaluates the race at now with the current vessel readings and
// publishes the metrics.
func (c *Calculator) Tick(ctx context.Context, now time.Time) []publish.Value {
	position, cog, sog := c.self.Snapshot(now)

	c.lock.Lock()
	m, err := c.race.Evaluate(now, race.Observation{Position: position, COG: cog, SOG: sog})
	if err != nil {
		log.Warnf("Evaluate: %v", err)
	}
	values := publish.Values(m)
	c.publish(ctx, now, values)
	c.lock.Unlock()

	if m.RaceStatus != nil && *m.RaceStatus == race.Racing {
		c.notify("Race started")
	}
	if m.MarkName != nil {
		c.notify(fmt.Sprintf("Mark rounded, next mark %s", *m.MarkName))
	}
	return values
}

func (c *Calculator) notify(message string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Send(message); err != nil {
		log.Warnf("Error sending notification '%s': %v", message, err)
	}
}

// Schedule ticks every period, rounded down to whole seconds with a
// minimum of one, until the returned function is called.
func (c *Calculator) Schedule(period time.Duration) (stop func()) {
	seconds := uint64(period / time.Second)
	if seconds == 0 {
		seconds = 1
	}

	s := gocron.NewScheduler()
	s.Every(seconds).Seconds().Do(func() {
		c.Tick(context.Background(), time.Now())
	})
	stopped := s.Start()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.Clear()
			close(stopped)
		})
	}
}
