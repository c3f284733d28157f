package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/racing-calculator/race"
)

func f(v float64) *float64 {
	return &v
}

func TestValuesOrder(t *testing.T) {
	status := race.Racing
	mark := "leeward"
	m := race.Metrics{
		MarkName:        &mark,
		Vmg:             f(2.5),
		DistanceBoatEnd: f(12),
		RaceStatus:      &status,
		TimeToStart:     f(-0.5),
	}

	assert.Equal(t, []Value{
		{Path: TimeToStart, Value: -0.5},
		{Path: RaceStatus, Value: "racing"},
		{Path: DistanceBoatEnd, Value: 12.0},
		{Path: Vmg, Value: 2.5},
		{Path: MarkName, Value: "leeward"},
	}, Values(m))

	assert.Empty(t, Values(race.Metrics{}))
}

func TestDeltaJSON(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	b, err := json.Marshal(NewDelta(at, []Value{Mark("Frioul")}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"context": "vessels.self",
		"updates": [{"timestamp": "2026-06-01T12:00:00Z", "values": [{"path": "navigation.racing.markName", "value": "Frioul"}]}]
	}`, string(b))
}

func TestRedisPublish(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	sub := redis.NewClient(&redis.Options{Addr: s.Addr()}).Subscribe(ctx, "navigation.racing")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewRedis(s.Addr(), "navigation.racing")
	defer p.Close()

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(ctx, at, nil))
	require.NoError(t, p.Publish(ctx, at, []Value{{Path: Vmg, Value: 3.2}}))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var d Delta
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &d))
	assert.Equal(t, Context, d.Context)
	require.Len(t, d.Updates, 1)
	assert.Equal(t, []Value{{Path: Vmg, Value: 3.2}}, d.Updates[0].Values)
}

func TestRedisPublishUnreachable(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedis(s.Addr(), "navigation.racing")
	defer p.Close()
	s.Close()

	err := p.Publish(context.Background(), time.Now(), []Value{Mark("A")})
	assert.Error(t, err)
}

type recorder struct {
	values [][]Value
	err    error
}

func (r *recorder) Publish(_ context.Context, _ time.Time, values []Value) error {
	r.values = append(r.values, values)
	return r.err
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{err: boom}, &recorder{}

	err := Multi{a, Logger{}, b}.Publish(context.Background(), time.Now(), []Value{Mark("A")})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.values, 1)
	assert.Len(t, b.values, 1)
}
