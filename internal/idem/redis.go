// Package idem stores the outcome of payment creation keyed by a
// client-supplied idempotency key, so a retried create returns the first
// result instead of opening a second provider payment.
package idem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("idempotency key not found")

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

// CreatedPayment is the cached outcome of a successful payment creation.
type CreatedPayment struct {
	ProviderID  string `json:"payment_id"`
	ApprovalURL string `json:"approval_url"`
}

// Save stores the result under the key unless a result already exists.
func (r *Redis) Save(ctx context.Context, key string, p CreatedPayment) error {
	var sb strings.Builder
	if err := json.NewEncoder(&sb).Encode(p); err != nil {
		return fmt.Errorf("serialize created payment: %w", err)
	}

	if _, err := r.rdb.SetNX(ctx, keyFor(key), sb.String(), r.ttl).Result(); err != nil {
		return fmt.Errorf("store idempotency key in redis: %w", err)
	}

	return nil
}

// Load returns the stored result for the key, or ErrNotFound.
func (r *Redis) Load(ctx context.Context, key string) (CreatedPayment, error) {
	val, err := r.rdb.Get(ctx, keyFor(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return CreatedPayment{}, ErrNotFound
		}

		return CreatedPayment{}, fmt.Errorf("retrieve idempotency key from redis: %w", err)
	}

	var p CreatedPayment
	if err := json.NewDecoder(strings.NewReader(val)).Decode(&p); err != nil {
		return CreatedPayment{}, fmt.Errorf("deserialize created payment: %w", err)
	}

	return p, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func keyFor(key string) string {
	return "idem:payment:" + key
}
