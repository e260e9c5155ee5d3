package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"trainingpanel/internal/domain/activity"
)

// keyPrefix namespaces config snapshots in a shared redis.
const keyPrefix = "trainingpanel:config:"

type redisConfig struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	IsBadHabit bool   `json:"is_bad_habit"`
}

// Redis is a ConfigCache shared by several server processes.
type Redis struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedis connects to redis and verifies the connection.
// PRE: addr is host:port
// POST: Returns a ready cache or the ping error
func NewRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

// Key returns the redis key holding a tenant's snapshot.
func Key(tenant string) string {
	return keyPrefix + tenant
}

// Get loads and decodes the tenant's snapshot.
func (r *Redis) Get(ctx context.Context, tenant string) ([]activity.Config, bool, error) {
	raw, err := r.rdb.Get(ctx, Key(tenant)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	cfg, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Set encodes and stores the snapshot with the cache TTL.
func (r *Redis) Set(ctx context.Context, tenant string, cfg []activity.Config) error {
	raw, err := encode(cfg)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, Key(tenant), raw, r.ttl).Err()
}

// Invalidate deletes the tenant's snapshot.
func (r *Redis) Invalidate(ctx context.Context, tenant string) error {
	return r.rdb.Del(ctx, Key(tenant)).Err()
}

// Close releases the redis connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func encode(cfg []activity.Config) ([]byte, error) {
	out := make([]redisConfig, len(cfg))
	for i, c := range cfg {
		out[i] = redisConfig{Name: c.Name, Category: c.Category, IsBadHabit: c.IsBadHabit}
	}
	return json.Marshal(out)
}

func decode(raw []byte) ([]activity.Config, error) {
	var in []redisConfig
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode config snapshot: %w", err)
	}
	out := make([]activity.Config, len(in))
	for i, c := range in {
		out[i] = activity.Config{Name: c.Name, Category: c.Category, IsBadHabit: c.IsBadHabit}
	}
	return out, nil
}
