// Package cache guarda valores efímeros de un solo uso (nonces del OAuth
// state) con TTL obligatorio.
//
// Backends:
//   - memory: go-cache, para desarrollo o una sola réplica
//   - redis: compartido entre réplicas; el callback puede caer en otra
//     instancia que la que emitió el nonce
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client es el contrato mínimo que necesita el nonce store.
type Client interface {
	// Put guarda value bajo key por ttl. Nunca pisa una key viva:
	// devuelve ErrExists si ya estaba.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Take lee y borra la key en un solo paso; de dos Take concurrentes
	// sólo uno recibe el valor. ErrNotFound si no existe o expiró.
	Take(ctx context.Context, key string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Driver   string // memory | redis
	Addr     string
	Password string
	DB       int
	Prefix   string
}

var (
	ErrNotFound = errors.New("cache: key not found")
	ErrExists   = errors.New("cache: key already set")
	ErrNoTTL    = errors.New("cache: ttl must be positive")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New abre el backend pedido. Un driver vacío es memory.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.Prefix), nil
	case "redis":
		return NewRedis(cfg)
	}
	return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
}

type keyspace string

func (k keyspace) key(s string) string {
	if k == "" {
		return s
	}
	return string(k) + ":" + s
}
