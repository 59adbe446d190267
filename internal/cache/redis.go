package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisClient struct {
	rdb *redis.Client
	ns  keyspace
}

// NewRedis conecta y hace ping antes de devolver el cliente.
func NewRedis(cfg Config) (*redisClient, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis %s: %w", addr, err)
	}
	return NewRedisFromClient(rdb, cfg.Prefix), nil
}

func NewRedisFromClient(rdb *redis.Client, prefix string) *redisClient {
	return &redisClient{rdb: rdb, ns: keyspace(prefix)}
}

// Raw lo usa el rate limiter para compartir la conexión.
func (c *redisClient) Raw() *redis.Client { return c.rdb }

// Put es SET NX PX.
func (c *redisClient) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrNoTTL
	}
	ok, err := c.rdb.SetNX(ctx, c.ns.key(key), value, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Take es GETDEL (redis >= 6.2).
func (c *redisClient) Take(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.GetDel(ctx, c.ns.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (c *redisClient) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *redisClient) Close() error { return c.rdb.Close() }
