package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// CachingCustomerRepository decorates a port.CustomerRepository with a Redis
// read-through cache. Profiles change rarely during a conversation, and the
// sales stage and the engine both load them, so a short TTL removes the
// duplicate lookups. Cache failures degrade to the backing repository.
type CachingCustomerRepository struct {
	inner  port.CustomerRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachingCustomerRepository wraps the given repository.
func NewCachingCustomerRepository(inner port.CustomerRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachingCustomerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingCustomerRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func customerKey(id string) string { return "customer:" + id }

// FindByID loads from Redis first and falls through to the inner repository.
func (r *CachingCustomerRepository) FindByID(ctx context.Context, id string) (model.CustomerProfile, error) {
	key := customerKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var profile model.CustomerProfile
		if jerr := json.Unmarshal(raw, &profile); jerr == nil {
			return profile, nil
		}
		// A corrupt entry hides the real profile; drop it.
		r.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("customer cache read failed",
			slog.String("customer_id", id),
			slog.String("error", err.Error()))
	}

	profile, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return model.CustomerProfile{}, err
	}
	r.store(ctx, key, profile)
	return profile, nil
}

// FindByPhone always hits the backing repository; phone lookups are rare and
// caching them would need a second index.
func (r *CachingCustomerRepository) FindByPhone(ctx context.Context, phone string) (model.CustomerProfile, error) {
	profile, err := r.inner.FindByPhone(ctx, phone)
	if err != nil {
		return model.CustomerProfile{}, err
	}
	r.store(ctx, customerKey(profile.ID), profile)
	return profile, nil
}

func (r *CachingCustomerRepository) store(ctx context.Context, key string, profile model.CustomerProfile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("customer cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
