package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/autolink/internal/store"
)

func TestUpsertCredential_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	exp := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := store.Credential{UserID: "u_123", AccessToken: "tok_abc", ExternalProfileID: "li_999", Connected: true, TokenExpiresAt: exp}

	require.NoError(t, s.UpsertCredential(ctx, c))
	first, err := s.GetProfile(ctx, "u_123")
	require.NoError(t, err)

	require.NoError(t, s.UpsertCredential(ctx, c))
	second, err := s.GetProfile(ctx, "u_123")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, first.Credential(), second.Credential())
	assert.True(t, second.LinkedInConnected)
	assert.Equal(t, exp, *second.TokenExpiresAt)
}

func TestUpsertCredential_KeepsProfileFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed(store.Profile{UserID: "u", Email: "a@b.c", Skills: []string{"go"}})

	require.NoError(t, s.UpsertCredential(ctx, store.Credential{UserID: "u", AccessToken: "t", ExternalProfileID: "p", Connected: true}))

	p, err := s.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", p.Email)
	assert.Equal(t, []string{"go"}, p.Skills)
}

func TestUpsertCredential_Invalid(t *testing.T) {
	s := New()
	err := s.UpsertCredential(context.Background(), store.Credential{UserID: "u", AccessToken: "t"})
	assert.ErrorIs(t, err, store.ErrInvalidCredential)
	assert.Equal(t, 0, s.Len())
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.UpsertCredential(ctx, store.Credential{UserID: "u", AccessToken: "t", ExternalProfileID: "p", Connected: true}))

	require.NoError(t, s.Disconnect(ctx, "u"))
	p, err := s.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.False(t, p.LinkedInConnected)
	assert.Empty(t, p.LinkedInToken)
	assert.Nil(t, p.TokenExpiresAt)
	assert.Equal(t, "p", p.LinkedInProfileID)

	assert.NoError(t, s.Disconnect(ctx, "unknown"))
}

func TestAgentStatus(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now().UTC()

	require.NoError(t, s.SetAgentStatus(ctx, "u", store.StatusActive, &now))
	require.NoError(t, s.SetAgentStatus(ctx, "u", store.StatusPaused, nil))

	p, err := s.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, store.StatusPaused, p.Status)
	require.NotNil(t, p.LastAgentRun)
	assert.Equal(t, now, *p.LastAgentRun)

	_, err = s.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
