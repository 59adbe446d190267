package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/autolink/internal/config"
	"github.com/dropDatabas3/autolink/internal/oauth/state"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("LINKEDIN_CLIENT_ID", "cid")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "secret")
	t.Setenv("LINKEDIN_REDIRECT_URI", "http://localhost:3000/api/linkedin/callback")
	t.Setenv("RATE_ENABLED", "true")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuild_MemoryStack(t *testing.T) {
	a, cleanup, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"Connected"`)

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	res, err := a.Start.AuthorizeURL(context.Background(), "u_123")
	require.NoError(t, err)
	assert.Contains(t, res.URL, "https://www.linkedin.com/oauth/v2/authorization?")
	assert.Contains(t, res.URL, "client_id=cid")
}

func TestNewCodec(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewCodec(cfg)
	require.NoError(t, err)
	assert.IsType(t, state.PlainCodec{}, c)

	cfg.State.SigningKey = "0123456789abcdef0123456789abcdef"
	c, err = NewCodec(cfg)
	require.NoError(t, err)
	assert.IsType(t, &state.SignedCodec{}, c)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "mongo"
	_, err := OpenStore(context.Background(), cfg)
	assert.Error(t, err)
}
