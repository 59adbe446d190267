package state

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainCodec_RoundTrip(t *testing.T) {
	cases := []State{
		{UserID: "u_123", Nonce: "abcdefghijkl"},
		{UserID: "2b9c3f1e-7d4a-4e0a-9b1c-5d6f7a8b9c0d", Nonce: "Zx_-9+/=="},
		{UserID: "usuario-ñ", Nonce: "né\"quoted\""},
	}
	var c PlainCodec
	for _, s := range cases {
		tok, err := c.Encode(s)
		require.NoError(t, err)

		got, err := c.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestPlainCodec_WireFormat(t *testing.T) {
	// Same shape the browser builds with btoa(JSON.stringify({userId, nonce})).
	tok := base64.StdEncoding.EncodeToString([]byte(`{"userId":"u_1","nonce":"n0nce-123456"}`))

	got, err := PlainCodec{}.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, State{UserID: "u_1", Nonce: "n0nce-123456"}, got)
}

func TestPlainCodec_AcceptsURLSafeUnpadded(t *testing.T) {
	raw := []byte(`{"userId":"u_1","nonce":"????>>>>"}`)
	tok := base64.RawURLEncoding.EncodeToString(raw)

	got, err := PlainCodec{}.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "u_1", got.UserID)
}

func TestPlainCodec_DecodeFailures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"%%%not-base64%%%",
		base64.StdEncoding.EncodeToString([]byte("not json")),
		base64.StdEncoding.EncodeToString([]byte(`{"userId":""}`)),
		base64.StdEncoding.EncodeToString([]byte(`{"nonce":"x"}`)),
		base64.StdEncoding.EncodeToString([]byte(`[1,2,3]`)),
		base64.StdEncoding.EncodeToString([]byte(`{"userId":12,"nonce":"x"}`)),
	}
	for _, in := range inputs {
		_, err := PlainCodec{}.Decode(in)
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, ErrDecode, "input %q", in)
	}
}

func TestPlainCodec_EncodeRequiresFields(t *testing.T) {
	_, err := PlainCodec{}.Encode(State{UserID: "u"})
	assert.Error(t, err)
}

func TestNewNonce(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n, err := NewNonce()
		require.NoError(t, err)
		assert.Len(t, n, 22)
		assert.False(t, seen[n])
		seen[n] = true
	}
}
