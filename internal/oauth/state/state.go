// Package state implements the OAuth state parameter used by the LinkedIn
// connect flow: the token codecs, nonce minting and the single-use nonce store.
package state

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// State is what the connect flow round-trips through the provider.
type State struct {
	UserID string `json:"userId"`
	Nonce  string `json:"nonce"`
}

// Codec turns a State into the opaque value sent as the OAuth `state` param.
type Codec interface {
	Encode(s State) (string, error)
	Decode(token string) (State, error)
}

// ErrDecode is returned (wrapped) by every Codec when a token cannot be
// attributed to a user.
var ErrDecode = errors.New("state: cannot decode token")

// NonceBytes is the entropy of a minted nonce.
const NonceBytes = 16

// NewNonce returns 16 random bytes, base64url without padding (22 chars).
func NewNonce() (string, error) {
	b := make([]byte, NonceBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s State) valid() bool { return s.UserID != "" && s.Nonce != "" }
