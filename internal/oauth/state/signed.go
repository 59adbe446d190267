package state

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// Audience is the expected audience of signed state tokens.
const Audience = "linkedin-state"

const hkdfInfo = "autolink/linkedin-state/v1"

type signedClaims struct {
	UserID string `json:"uid"`
	Nonce  string `json:"nonce"`
	jwtv5.RegisteredClaims
}

// SignedCodec encodes the state as an HS256 JWT. The HMAC key is derived from
// the configured secret with HKDF-SHA256.
type SignedCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSignedCodec derives the signing key from secret. ttl bounds the token
// lifetime and should match the nonce TTL.
func NewSignedCodec(secret []byte, ttl time.Duration) (*SignedCodec, error) {
	if len(secret) < 32 {
		return nil, errors.New("state: signing secret must be at least 32 bytes")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("state: derive key: %w", err)
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SignedCodec{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source; tests only.
func (c *SignedCodec) WithClock(now func() time.Time) *SignedCodec {
	c.now = now
	return c
}

func (c *SignedCodec) Encode(s State) (string, error) {
	if !s.valid() {
		return "", fmt.Errorf("state: userId and nonce are required")
	}
	now := c.now().UTC()
	claims := signedClaims{
		UserID: s.UserID,
		Nonce:  s.Nonce,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Audience:  jwtv5.ClaimStrings{Audience},
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *SignedCodec) Decode(token string) (State, error) {
	var claims signedClaims
	_, err := jwtv5.ParseWithClaims(token, &claims,
		func(*jwtv5.Token) (any, error) { return c.key, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithAudience(Audience),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(30*time.Second),
		jwtv5.WithTimeFunc(c.now),
	)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	s := State{UserID: claims.UserID, Nonce: claims.Nonce}
	if !s.valid() {
		return State{}, fmt.Errorf("%w: missing uid or nonce", ErrDecode)
	}
	return s, nil
}
