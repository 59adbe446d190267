package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

const minimalYAML = `
linkedin:
  client_id: "86j7ddjv9w7b8m"
  client_secret: "shh"
  redirect_uri: "http://localhost:3000/api/linkedin/callback"
`

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(writeYAML(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, ":3000", c.Server.Addr)
	assert.Equal(t, []string{"openid", "profile", "email", "w_member_social"}, c.LinkedIn.Scopes)
	assert.Equal(t, 10*time.Second, c.LinkedIn.TokenEndpointTimeout)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, 10*time.Minute, c.State.NonceTTL)
	assert.Equal(t, []string{"http://localhost:3000/api/linkedin/callback"}, c.LinkedIn.AllowedRedirectURIs)
	assert.Equal(t, "https://www.linkedin.com/oauth/v2/authorization", c.LinkedIn.AuthURL)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "from-env")
	t.Setenv("LINKEDIN_SCOPES", "openid, profile")
	t.Setenv("MAKE_WEBHOOK_URL", "https://hook.make.com/abc")
	t.Setenv("LINKEDIN_TOKEN_ENDPOINT_TIMEOUT", "3s")

	c, err := Load(writeYAML(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.LinkedIn.ClientID)
	assert.Equal(t, []string{"openid", "profile"}, c.LinkedIn.Scopes)
	assert.Equal(t, "https://hook.make.com/abc", c.Automation.WebhookURL)
	assert.Equal(t, 3*time.Second, c.LinkedIn.TokenEndpointTimeout)
}

func TestLoad_PortAlias(t *testing.T) {
	t.Setenv("PORT", "8088")
	c, err := Load(writeYAML(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, ":8088", c.Server.Addr)
}

func TestValidate_Errors(t *testing.T) {
	_, err := Load(writeYAML(t, `
linkedin:
  redirect_uri: "/relative"
storage:
  driver: postgres
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linkedin.client_id is required")
	assert.Contains(t, err.Error(), "linkedin.redirect_uri must be an absolute URL")
	assert.Contains(t, err.Error(), "storage.dsn is required")
}

func TestValidate_ShortSigningKey(t *testing.T) {
	t.Setenv("STATE_SIGNING_KEY", "short")
	_, err := Load(writeYAML(t, minimalYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state.signing_key")
}

func TestLoad_ProdForcesSecureCookie(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SUPABASE_JWT_SECRET", "super-secret-jwt-key")
	c, err := Load(writeYAML(t, minimalYAML))
	require.NoError(t, err)
	assert.True(t, c.State.CookieSecure)
	assert.True(t, c.IsProd())
}

func TestValidate_ProdRejectsWildcardCORS(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SUPABASE_JWT_SECRET", "super-secret-jwt-key")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://app.example.com,*")
	_, err := Load(writeYAML(t, minimalYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.cors_allowed_origins")
}

func TestValidate_TrustedProxies(t *testing.T) {
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7")
	c, err := Load(writeYAML(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.7"}, c.Server.TrustedProxies)

	t.Setenv("SERVER_TRUSTED_PROXIES", "load-balancer")
	_, err = Load(writeYAML(t, minimalYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.trusted_proxies")
}
