package infra_redis_voted_set

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

// completeMarker is stored next to the movie IDs once the set was filled
// from the ledger. A set without it only holds write-through additions.
const completeMarker = "*"

const breakerName = "redis-voted-set"

// Driver caches, per session and voter, the movie IDs the voter has
// decided on. Sets only ever grow because votes are never deleted, so
// filling by union can not hide a vote written concurrently.
type Driver struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]string]

	logger *slog.Logger
}

type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithBreakerSettings overrides the circuit breaker tuning.
func WithBreakerSettings(maxFailures uint32, openTimeout time.Duration) Option {
	return func(d *Driver) {
		d.cb = newBreaker(d, maxFailures, openTimeout)
	}
}

func New(
	client *redis.Client,
	key string,
	ttl time.Duration,
	opts ...Option,
) *Driver {
	d := &Driver{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: slog.Default(),
	}
	d.cb = newBreaker(d, 5, 30*time.Second)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func newBreaker(d *Driver, maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker[[]string] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

// Load returns the cached voted set. loaded is false when the set was never
// filled from the ledger.
func (d *Driver) Load(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID) ([]uuid.UUID, bool, error) {
	members, err := d.cb.Execute(func() ([]string, error) {
		return d.client.WithContext(ctx).SMembers(d.fullKey(sessionID, voterID)).Result()
	})
	if err != nil {
		return nil, false, err
	}

	complete := false
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if m == completeMarker {
			complete = true
			continue
		}
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if !complete {
		return nil, false, nil
	}
	return ids, true, nil
}

// Fill merges the ledger state into the set and marks it complete.
func (d *Driver) Fill(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID, ids []uuid.UUID) error {
	members := make([]interface{}, 0, len(ids)+1)
	members = append(members, completeMarker)
	for _, id := range ids {
		members = append(members, id.String())
	}
	return d.write(ctx, d.fullKey(sessionID, voterID), members)
}

// Add records a new vote. When the write fails the set is dropped so the
// next read goes to the ledger.
func (d *Driver) Add(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID, movieID uuid.UUID) error {
	key := d.fullKey(sessionID, voterID)
	if err := d.write(ctx, key, []interface{}{movieID.String()}); err != nil {
		if delErr := d.client.WithContext(ctx).Del(key).Err(); delErr != nil {
			d.logger.Error("failed to drop voted set",
				slog.String("key", key),
				slog.String("error", delErr.Error()))
		}
		return err
	}
	return nil
}

func (d *Driver) write(ctx context.Context, key string, members []interface{}) error {
	_, err := d.cb.Execute(func() ([]string, error) {
		_, err := d.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
			pipe.SAdd(key, members...)
			pipe.Expire(key, d.ttl)
			return nil
		})
		return nil, err
	})
	return err
}

func (d *Driver) fullKey(sessionID uuid.UUID, voterID uuid.UUID) string {
	if d.key != "" {
		return d.key + ":" + sessionID.String() + ":" + voterID.String()
	}
	return sessionID.String() + ":" + voterID.String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
