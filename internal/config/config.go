// Package config carga la configuración del servicio: YAML opcional, defaults y
// overrides por variables de entorno.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env" env:"APP_ENV"`
		Name    string `yaml:"name" env:"APP_NAME"`
		Version string `yaml:"version" env:"APP_VERSION"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr" env:"SERVER_ADDR"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"SERVER_CORS_ALLOWED_ORIGINS" envSeparator:","`
		// TrustedProxies son CIDRs o IPs cuyos X-Forwarded-For se creen.
		TrustedProxies  []string      `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	// ───────── LinkedIn OAuth ─────────
	LinkedIn struct {
		ClientID     string `yaml:"client_id" env:"LINKEDIN_CLIENT_ID"`
		ClientSecret string `yaml:"client_secret" env:"LINKEDIN_CLIENT_SECRET"`
		// Debe coincidir byte a byte con el registrado en LinkedIn.
		RedirectURI string `yaml:"redirect_uri" env:"LINKEDIN_REDIRECT_URI"`
		// URIs aceptadas por POST /api/linkedin/exchange. Vacío => solo RedirectURI.
		AllowedRedirectURIs  []string      `yaml:"allowed_redirect_uris" env:"LINKEDIN_ALLOWED_REDIRECT_URIS" envSeparator:","`
		Scopes               []string      `yaml:"scopes" env:"LINKEDIN_SCOPES" envSeparator:","`
		AuthURL              string        `yaml:"auth_url" env:"LINKEDIN_AUTH_URL"`
		TokenURL             string        `yaml:"token_url" env:"LINKEDIN_TOKEN_URL"`
		UserInfoURL          string        `yaml:"userinfo_url" env:"LINKEDIN_USERINFO_URL"`
		TokenEndpointTimeout time.Duration `yaml:"token_endpoint_timeout" env:"LINKEDIN_TOKEN_ENDPOINT_TIMEOUT"`
		UserInfoTimeout      time.Duration `yaml:"userinfo_timeout" env:"LINKEDIN_USERINFO_TIMEOUT"`
	} `yaml:"linkedin"`

	State struct {
		// Si está vacío se usa el codec base64 sin firma (compatible con el front actual).
		SigningKey   string        `yaml:"signing_key" env:"STATE_SIGNING_KEY"`
		NonceTTL     time.Duration `yaml:"nonce_ttl" env:"STATE_NONCE_TTL"`
		CookieName   string        `yaml:"cookie_name" env:"STATE_COOKIE_NAME"`
		CookieSecure bool          `yaml:"cookie_secure" env:"STATE_COOKIE_SECURE"`
	} `yaml:"state"`

	Frontend struct {
		// Destino de los redirects del callback, ej: https://app.example.com/#/app/settings
		SettingsURL string `yaml:"settings_url" env:"FRONTEND_SETTINGS_URL"`
	} `yaml:"frontend"`

	Storage struct {
		Driver  string        `yaml:"driver" env:"STORAGE_DRIVER"` // memory | postgres | supabase
		DSN     string        `yaml:"dsn" env:"STORAGE_DSN"`
		Timeout time.Duration `yaml:"timeout" env:"STORAGE_TIMEOUT"`

		Postgres struct {
			MaxConns int32 `yaml:"max_conns" env:"POSTGRES_MAX_CONNS"`
			MinConns int32 `yaml:"min_conns" env:"POSTGRES_MIN_CONNS"`
		} `yaml:"postgres"`

		Supabase struct {
			URL        string `yaml:"url" env:"SUPABASE_URL"`
			ServiceKey string `yaml:"service_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
			Table      string `yaml:"table" env:"SUPABASE_PROFILES_TABLE"`
		} `yaml:"supabase"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind" env:"CACHE_KIND"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
			Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		// Secreto HS256 con el que el backend de auth firma los access tokens de usuario.
		JWTSecret string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
		Audience  string `yaml:"audience" env:"AUTH_AUDIENCE"`
	} `yaml:"auth"`

	Automation struct {
		WebhookURL     string        `yaml:"webhook_url" env:"MAKE_WEBHOOK_URL"`
		Timeout        time.Duration `yaml:"timeout" env:"AUTOMATION_TIMEOUT"`
		StartOnConnect bool          `yaml:"start_on_connect" env:"AUTOMATION_START_ON_CONNECT"`
		DispatchRPS    int           `yaml:"dispatch_rps" env:"AUTOMATION_DISPATCH_RPS"` // 0 = sin límite

		Make struct {
			APIURL     string `yaml:"api_url" env:"MAKE_API_URL"`
			APIKey     string `yaml:"api_key" env:"MAKE_API_KEY"`
			ScenarioID string `yaml:"scenario_id" env:"MAKE_SCENARIO_ID"`
		} `yaml:"make"`
	} `yaml:"automation"`

	Rate struct {
		Enabled     bool          `yaml:"enabled" env:"RATE_ENABLED"`
		Window      time.Duration `yaml:"window" env:"RATE_WINDOW"`
		MaxRequests int           `yaml:"max_requests" env:"RATE_MAX_REQUESTS"`
	} `yaml:"rate"`
}

// Load lee el YAML en path (si path no es vacío), aplica defaults, luego los
// overrides de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()

	// PORT se acepta como alias (lo inyectan Heroku, Render, etc).
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" && os.Getenv("SERVER_ADDR") == "" {
		c.Server.Addr = ":" + p
	}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "autolink"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}

	if len(c.LinkedIn.Scopes) == 0 {
		c.LinkedIn.Scopes = []string{"openid", "profile", "email", "w_member_social"}
	}
	if c.LinkedIn.AuthURL == "" {
		c.LinkedIn.AuthURL = "https://www.linkedin.com/oauth/v2/authorization"
	}
	if c.LinkedIn.TokenURL == "" {
		c.LinkedIn.TokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	}
	if c.LinkedIn.UserInfoURL == "" {
		c.LinkedIn.UserInfoURL = "https://api.linkedin.com/v2/userinfo"
	}
	if c.LinkedIn.TokenEndpointTimeout == 0 {
		c.LinkedIn.TokenEndpointTimeout = 10 * time.Second
	}
	if c.LinkedIn.UserInfoTimeout == 0 {
		c.LinkedIn.UserInfoTimeout = 10 * time.Second
	}

	if c.State.NonceTTL == 0 {
		c.State.NonceTTL = 10 * time.Minute
	}
	if c.State.CookieName == "" {
		c.State.CookieName = "li_auth_state"
	}

	if c.Frontend.SettingsURL == "" {
		c.Frontend.SettingsURL = "http://localhost:5173/#/app/settings"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Timeout == 0 {
		c.Storage.Timeout = 10 * time.Second
	}
	if c.Storage.Supabase.Table == "" {
		c.Storage.Supabase.Table = "profiles"
	}

	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "autolink"
	}

	if c.Auth.Audience == "" {
		c.Auth.Audience = "authenticated"
	}

	if c.Automation.Timeout == 0 {
		c.Automation.Timeout = 10 * time.Second
	}
	if c.Automation.Make.APIURL == "" {
		c.Automation.Make.APIURL = "https://api.make.com/v2"
	}

	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 30
	}
}

func (c *Config) normalize() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Cache.Kind = strings.ToLower(strings.TrimSpace(c.Cache.Kind))
	c.LinkedIn.Scopes = compact(c.LinkedIn.Scopes)
	c.LinkedIn.AllowedRedirectURIs = compact(c.LinkedIn.AllowedRedirectURIs)
	c.Server.CORSAllowedOrigins = compact(c.Server.CORSAllowedOrigins)
	c.Server.TrustedProxies = compact(c.Server.TrustedProxies)
	if len(c.LinkedIn.AllowedRedirectURIs) == 0 && c.LinkedIn.RedirectURI != "" {
		c.LinkedIn.AllowedRedirectURIs = []string{c.LinkedIn.RedirectURI}
	}
	// Guardia dura: en prod la cookie de state siempre es Secure.
	if c.App.Env == "prod" {
		c.State.CookieSecure = true
	}
}

// Validate checks the options the relay cannot run without.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.LinkedIn.ClientID) == "" {
		errs = append(errs, errors.New("linkedin.client_id is required"))
	}
	if strings.TrimSpace(c.LinkedIn.ClientSecret) == "" {
		errs = append(errs, errors.New("linkedin.client_secret is required"))
	}
	if err := absoluteURL("linkedin.redirect_uri", c.LinkedIn.RedirectURI); err != nil {
		errs = append(errs, err)
	}
	for _, u := range c.LinkedIn.AllowedRedirectURIs {
		if err := absoluteURL("linkedin.allowed_redirect_uris", u); err != nil {
			errs = append(errs, err)
		}
	}
	if err := absoluteURL("frontend.settings_url", c.Frontend.SettingsURL); err != nil {
		errs = append(errs, err)
	}
	if c.Automation.WebhookURL != "" {
		if err := absoluteURL("automation.webhook_url", c.Automation.WebhookURL); err != nil {
			errs = append(errs, err)
		}
	}

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	case "supabase":
		if err := absoluteURL("storage.supabase.url", c.Storage.Supabase.URL); err != nil {
			errs = append(errs, err)
		}
		if c.Storage.Supabase.ServiceKey == "" {
			errs = append(errs, errors.New("storage.supabase.service_key is required for supabase"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported", c.Cache.Kind))
	}

	if c.State.SigningKey != "" && len(c.State.SigningKey) < 32 {
		errs = append(errs, errors.New("state.signing_key must be at least 32 bytes"))
	}
	if c.App.Env == "prod" && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required in prod"))
	}
	for _, o := range c.Server.CORSAllowedOrigins {
		if o == "*" && c.App.Env == "prod" {
			errs = append(errs, errors.New("server.cors_allowed_origins must list explicit origins in prod, not \"*\""))
		}
	}
	for _, p := range c.Server.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: %q is not an IP or CIDR", p))
		}
	}

	return errors.Join(errs...)
}

// IsProd reports whether the service runs with production guards.
func (c *Config) IsProd() bool { return c.App.Env == "prod" }

func validProxy(s string) bool {
	if _, err := netip.ParsePrefix(s); err == nil {
		return true
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

func absoluteURL(field, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, raw)
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
