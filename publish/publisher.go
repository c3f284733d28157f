package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, at time.Time, values []Value) error
}

// Logger logs deltas at debug level.
type Logger struct{}

func (Logger) Publish(_ context.Context, at time.Time, values []Value) error {
	if len(values) == 0 {
		return nil
	}
	fields := log.Fields{"at": at.Format(time.RFC3339Nano)}
	for _, v := range values {
		fields[v.Path] = v.Value
	}
	log.WithFields(fields).Debug("Publish")
	return nil
}

// Redis publishes JSON encoded deltas on a channel.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(addr, channel string) *Redis {
	return &Redis{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
	}
}

func (r *Redis) Publish(ctx context.Context, at time.Time, values []Value) error {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(NewDelta(at, values))
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, b).Err(); err != nil {
		return fmt.Errorf("publish on %s: %w", r.channel, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Multi publishes to every publisher, even when some fail.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, at time.Time, values []Value) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, at, values); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
