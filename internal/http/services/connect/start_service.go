package connect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/autolink/internal/oauth/state"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// AuthURLBuilder builds the provider authorization URL for a state value.
type AuthURLBuilder interface {
	AuthURL(state string) string
}

// StartDeps contains dependencies for start service.
type StartDeps struct {
	Codec    state.Codec
	Nonces   state.NonceStore // optional
	AuthURL  AuthURLBuilder
	NonceTTL time.Duration
}

// StartResult is what the authorize endpoint hands back to the browser.
type StartResult struct {
	URL   string
	State string
	Nonce string
}

var ErrStartMissingUser = errors.New("missing user id")

// StartService mints the state for a new connect attempt.
type StartService struct {
	codec    state.Codec
	nonces   state.NonceStore
	authURL  AuthURLBuilder
	nonceTTL time.Duration
}

// NewStartService creates a new StartService.
func NewStartService(d StartDeps) *StartService {
	s := &StartService{codec: d.Codec, nonces: d.Nonces, authURL: d.AuthURL, nonceTTL: d.NonceTTL}
	if s.codec == nil {
		s.codec = state.PlainCodec{}
	}
	if s.nonceTTL <= 0 {
		s.nonceTTL = 10 * time.Minute
	}
	return s
}

// AuthorizeURL mints a nonce, records {nonce → userID} and returns the
// provider URL carrying the encoded state.
func (s *StartService) AuthorizeURL(ctx context.Context, userID string) (*StartResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("connect.start"))

	if userID == "" {
		return nil, ErrStartMissingUser
	}
	nonce, err := state.NewNonce()
	if err != nil {
		return nil, fmt.Errorf("mint nonce: %w", err)
	}
	token, err := s.codec.Encode(state.State{UserID: userID, Nonce: nonce})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	if s.nonces != nil {
		if err := s.nonces.Save(ctx, nonce, userID, s.nonceTTL); err != nil {
			log.Error("save nonce failed", logger.UserID(userID), logger.Err(err))
			return nil, fmt.Errorf("save nonce: %w", err)
		}
	}

	log.Debug("authorize url issued", logger.UserID(userID))
	return &StartResult{URL: s.authURL.AuthURL(token), State: token, Nonce: nonce}, nil
}

// NonceTTL is how long a minted state stays valid.
func (s *StartService) NonceTTL() time.Duration { return s.nonceTTL }
