package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/autolink/internal/store"
)

// fakePostgREST keeps one row per user_id, like a table with a PK.
type fakePostgREST struct {
	mu   sync.Mutex
	rows map[string]map[string]any
	reqs []*http.Request
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, r)

	if r.Header.Get("apikey") != "service-key" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"PGRST301","message":"JWT invalid"}`))
		return
	}

	uid := r.URL.Query().Get("user_id")
	if len(uid) > 3 {
		uid = uid[3:] // strip "eq."
	}

	switch r.Method {
	case http.MethodPost:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		id := body["user_id"].(string)
		existing := f.rows[id]
		if existing == nil {
			existing = map[string]any{}
		}
		for k, v := range body {
			existing[k] = v
		}
		f.rows[id] = existing
		w.WriteHeader(http.StatusCreated)
	case http.MethodPatch:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if row, ok := f.rows[uid]; ok {
			for k, v := range body {
				row[k] = v
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		out := []map[string]any{}
		if uid == "" {
			for _, row := range f.rows {
				out = append(out, row)
				break
			}
		} else if row, ok := f.rows[uid]; ok {
			out = append(out, row)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func newFake(t *testing.T) (*Store, *fakePostgREST) {
	f := &fakePostgREST{rows: map[string]map[string]any{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(Options{URL: srv.URL + "/", ServiceKey: "service-key", HTTPClient: srv.Client()}), f
}

func TestUpsertCredential(t *testing.T) {
	s, f := newFake(t)
	ctx := context.Background()
	exp := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := store.Credential{UserID: "u_123", AccessToken: "tok_abc", ExternalProfileID: "li_999", TokenExpiresAt: exp}

	require.NoError(t, s.UpsertCredential(ctx, c))
	require.NoError(t, s.UpsertCredential(ctx, c))
	assert.Len(t, f.rows, 1)

	req := f.reqs[0]
	assert.Equal(t, "/rest/v1/profiles", req.URL.Path)
	assert.Equal(t, "user_id", req.URL.Query().Get("on_conflict"))
	assert.Contains(t, req.Header.Get("Prefer"), "resolution=merge-duplicates")
	assert.Equal(t, "Bearer service-key", req.Header.Get("Authorization"))

	p, err := s.GetProfile(ctx, "u_123")
	require.NoError(t, err)
	assert.True(t, p.LinkedInConnected)
	assert.Equal(t, "tok_abc", p.LinkedInToken)
	assert.Equal(t, "li_999", p.LinkedInProfileID)
	require.NotNil(t, p.TokenExpiresAt)
	assert.True(t, exp.Equal(*p.TokenExpiresAt))
}

func TestDisconnect(t *testing.T) {
	s, _ := newFake(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertCredential(ctx, store.Credential{UserID: "u", AccessToken: "t", ExternalProfileID: "p"}))

	require.NoError(t, s.Disconnect(ctx, "u"))
	p, err := s.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.False(t, p.LinkedInConnected)
	assert.Empty(t, p.LinkedInToken)
	assert.Nil(t, p.TokenExpiresAt)
}

func TestSetAgentStatusAndProfile(t *testing.T) {
	s, f := newFake(t)
	ctx := context.Background()
	f.rows["u"] = map[string]any{"user_id": "u", "email": "a@b.c", "skills": "go, sql", "status": "paused"}

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.SetAgentStatus(ctx, "u", store.StatusActive, &now))

	p, err := s.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, store.StatusActive, p.Status)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	require.NotNil(t, p.LastAgentRun)
	assert.True(t, now.Equal(*p.LastAgentRun))
}

func TestGetProfile_NotFound(t *testing.T) {
	s, _ := newFake(t)
	_, err := s.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAPIError(t *testing.T) {
	s, _ := newFake(t)
	s.key = "wrong"

	err := s.UpsertCredential(context.Background(), store.Credential{UserID: "u", AccessToken: "t", ExternalProfileID: "p"})
	var pe *store.PersistenceError
	require.True(t, errors.As(err, &pe))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "PGRST301", apiErr.Code)

	assert.Error(t, s.Ping(context.Background()))
}
