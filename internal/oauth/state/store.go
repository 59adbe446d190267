package state

import (
	"context"
	"time"

	"github.com/dropDatabas3/autolink/internal/cache"
)

// NonceStore records which user minted a nonce so the callback can be
// correlated server-side. Consume must be single-use.
type NonceStore interface {
	Save(ctx context.Context, nonce, userID string, ttl time.Duration) error
	// Consume returns the userID bound to nonce and removes it. ok is false
	// when the nonce was never saved, expired or was already consumed.
	Consume(ctx context.Context, nonce string) (userID string, ok bool, err error)
}

const keyPrefix = "li_state:"

// CacheNonceStore implements NonceStore on a cache.Client (memory or redis).
type CacheNonceStore struct {
	c cache.Client
}

func NewCacheNonceStore(c cache.Client) *CacheNonceStore {
	return &CacheNonceStore{c: c}
}

func (s *CacheNonceStore) Save(ctx context.Context, nonce, userID string, ttl time.Duration) error {
	return s.c.Put(ctx, keyPrefix+nonce, userID, ttl)
}

func (s *CacheNonceStore) Consume(ctx context.Context, nonce string) (string, bool, error) {
	if nonce == "" {
		return "", false, nil
	}
	uid, err := s.c.Take(ctx, keyPrefix+nonce)
	if cache.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return uid, true, nil
}
