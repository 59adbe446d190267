package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/autolink/internal/store"
)

// Corre solo con una base real: AUTOLINK_TEST_PG_DSN=postgres://...
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("AUTOLINK_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("AUTOLINK_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := New(ctx, dsn, Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.Migrate(ctx)
	require.NoError(t, err)
	return s
}

func TestUpsertCredential_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	uid := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _, _ = s.Pool().Exec(context.Background(), `DELETE FROM profiles WHERE user_id = $1`, uid) })

	exp := time.Now().Add(60 * 24 * time.Hour).UTC().Truncate(time.Second)
	c := store.Credential{UserID: uid, AccessToken: "tok_abc", ExternalProfileID: "li_999", TokenExpiresAt: exp}

	require.NoError(t, s.UpsertCredential(ctx, c))
	require.NoError(t, s.UpsertCredential(ctx, c))

	var n int
	require.NoError(t, s.Pool().QueryRow(ctx, `SELECT count(*) FROM profiles WHERE user_id = $1`, uid).Scan(&n))
	assert.Equal(t, 1, n)

	p, err := s.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.True(t, p.LinkedInConnected)
	assert.Equal(t, "tok_abc", p.LinkedInToken)
	assert.Equal(t, "li_999", p.LinkedInProfileID)
	require.NotNil(t, p.TokenExpiresAt)
	assert.True(t, exp.Equal(*p.TokenExpiresAt))
}

func TestDisconnectAndStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	uid := "test-dc-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _, _ = s.Pool().Exec(context.Background(), `DELETE FROM profiles WHERE user_id = $1`, uid) })

	require.NoError(t, s.UpsertCredential(ctx, store.Credential{UserID: uid, AccessToken: "t", ExternalProfileID: "p", TokenExpiresAt: time.Now()}))
	require.NoError(t, s.Disconnect(ctx, uid))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.SetAgentStatus(ctx, uid, store.StatusActive, &now))

	p, err := s.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.False(t, p.LinkedInConnected)
	assert.Empty(t, p.LinkedInToken)
	assert.Nil(t, p.TokenExpiresAt)
	assert.Equal(t, store.StatusActive, p.Status)
	require.NotNil(t, p.LastAgentRun)
	assert.True(t, now.Equal(*p.LastAgentRun))
}

func TestGetProfile_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProfile(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertCredential_InvalidDoesNotTouchDB(t *testing.T) {
	s := &Store{}
	err := s.UpsertCredential(context.Background(), store.Credential{UserID: "u"})
	assert.ErrorIs(t, err, store.ErrInvalidCredential)
}
