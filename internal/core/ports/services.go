package ports

import (
	"context"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// EventPublisher publishes exploration events to a message broker.
type EventPublisher interface {
	PublishReveal(ctx context.Context, event *domain.RevealEvent) error
	PublishProgress(ctx context.Context, snapshot *domain.ProgressSnapshot) error
	PublishLevelUp(ctx context.Context, levelUp *domain.LevelUp) error
}

// EventSubscriber subscribes to exploration events from a message broker.
type EventSubscriber interface {
	SubscribeProgress(ctx context.Context, handler func(ctx context.Context, snapshot *domain.ProgressSnapshot) error) error
	SubscribeLevelUps(ctx context.Context, handler func(ctx context.Context, levelUp *domain.LevelUp) error) error
}

// CacheService defines a byte-oriented key/value cache.
// Get returns nil, nil on a miss.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// HealthChecker is any backend that can report reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
