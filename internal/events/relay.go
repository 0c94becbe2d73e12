// Package events relays outbox rows to Redis pub/sub.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/strata/internal/repository"
	"github.com/redis/go-redis/v9"
)

const defaultBatchSize = 100

// Message is one payload bound for a pub/sub channel.
type Message struct {
	Channel string
	Payload []byte
}

// Publisher sends a batch of messages. A returned error means none of the
// batch may be treated as delivered.
type Publisher interface {
	PublishBatch(ctx context.Context, msgs []Message) error
}

// RedisPublisher publishes through a single pipeline per batch.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// NewRedisClient builds a client from a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (p *RedisPublisher) PublishBatch(ctx context.Context, msgs []Message) error {
	pipe := p.client.Pipeline()
	for _, m := range msgs {
		pipe.Publish(ctx, m.Channel, m.Payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publishing %d events: %w", len(msgs), err)
	}
	return nil
}

// Relay drains the outbox. Rows are marked published only after the publish
// succeeds, so a crash in between redelivers them (at-least-once).
type Relay struct {
	outbox    repository.EventOutbox
	publisher Publisher
	prefix    string
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

type RelayOption func(*Relay)

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(l *slog.Logger) RelayOption {
	return func(r *Relay) { r.logger = l }
}

func WithClock(now func() time.Time) RelayOption {
	return func(r *Relay) { r.now = now }
}

func NewRelay(outbox repository.EventOutbox, publisher Publisher, channelPrefix string, opts ...RelayOption) *Relay {
	r := &Relay{
		outbox:    outbox,
		publisher: publisher,
		prefix:    channelPrefix,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Channel returns the pub/sub channel an event name is published on.
func (r *Relay) Channel(eventName string) string {
	return r.prefix + eventName
}

// Flush publishes pending events in occurrence order until the outbox is
// empty or a batch fails. It returns how many events were published.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	published := 0
	for {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		pending, err := r.outbox.ListPending(ctx, r.batchSize)
		if err != nil {
			return published, fmt.Errorf("reading outbox: %w", err)
		}
		if len(pending) == 0 {
			return published, nil
		}

		msgs := make([]Message, len(pending))
		ids := make([]string, len(pending))
		for i, ev := range pending {
			msgs[i] = Message{Channel: r.Channel(ev.Name), Payload: ev.Payload}
			ids[i] = ev.ID
		}

		if err := r.publisher.PublishBatch(ctx, msgs); err != nil {
			r.logger.ErrorContext(ctx, "event relay publish failed",
				"batch", len(msgs), "first_event", ids[0], "error", err)
			return published, err
		}
		if err := r.outbox.MarkPublished(ctx, ids, r.now()); err != nil {
			return published, fmt.Errorf("marking events published: %w", err)
		}
		published += len(pending)
		r.logger.DebugContext(ctx, "event relay batch published", "count", len(pending))

		if len(pending) < r.batchSize {
			return published, nil
		}
	}
}
