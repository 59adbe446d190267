package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryClient struct {
	ns keyspace
	c  *gocache.Cache
	mu sync.Mutex // go-cache no trae get-and-delete
}

func NewMemory(prefix string) *memoryClient {
	return &memoryClient{ns: keyspace(prefix), c: gocache.New(10*time.Minute, time.Minute)}
}

func (m *memoryClient) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrNoTTL
	}
	if err := m.c.Add(m.ns.key(key), value, ttl); err != nil {
		return ErrExists
	}
	return nil
}

func (m *memoryClient) Take(_ context.Context, key string) (string, error) {
	k := m.ns.key(key)
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(k)
	if !ok {
		return "", ErrNotFound
	}
	m.c.Delete(k)
	return v.(string), nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
