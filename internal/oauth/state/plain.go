package state

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// PlainCodec is base64(JSON{userId, nonce}). It carries no signature, so the
// nonce store is what binds a callback to the session that started it.
type PlainCodec struct{}

func (PlainCodec) Encode(s State) (string, error) {
	if !s.valid() {
		return "", fmt.Errorf("state: userId and nonce are required")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (PlainCodec) Decode(token string) (State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return State{}, fmt.Errorf("%w: empty", ErrDecode)
	}

	raw, err := decodeAnyBase64(token)
	if err != nil {
		return State{}, fmt.Errorf("%w: base64: %v", ErrDecode, err)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("%w: json: %v", ErrDecode, err)
	}
	if !s.valid() {
		return State{}, fmt.Errorf("%w: missing userId or nonce", ErrDecode)
	}
	return s, nil
}

// Browsers and providers re-encode `+`, `/` and padding inconsistently.
var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeAnyBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
