// Package server construye la infraestructura desde la configuración y corre
// el servidor HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/autolink/internal/app"
	"github.com/dropDatabas3/autolink/internal/cache"
	"github.com/dropDatabas3/autolink/internal/config"
	mw "github.com/dropDatabas3/autolink/internal/http/middlewares"
	"github.com/dropDatabas3/autolink/internal/oauth/linkedin"
	"github.com/dropDatabas3/autolink/internal/oauth/state"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
	"github.com/dropDatabas3/autolink/internal/rate"
	"github.com/dropDatabas3/autolink/internal/store"
	"github.com/dropDatabas3/autolink/internal/store/memory"
	"github.com/dropDatabas3/autolink/internal/store/pg"
	"github.com/dropDatabas3/autolink/internal/store/supabase"
)

// OpenStore abre el backend de persistencia configurado.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return pg.New(ctx, cfg.Storage.DSN, pg.Options{
			MaxConns: cfg.Storage.Postgres.MaxConns,
			MinConns: cfg.Storage.Postgres.MinConns,
			Timeout:  cfg.Storage.Timeout,
		})
	case "supabase":
		return supabase.New(supabase.Options{
			URL:        cfg.Storage.Supabase.URL,
			ServiceKey: cfg.Storage.Supabase.ServiceKey,
			Table:      cfg.Storage.Supabase.Table,
			Timeout:    cfg.Storage.Timeout,
		}), nil
	case "memory", "":
		logger.L().Warn("using in-memory storage; credentials are lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// NewCodec elige el codec del state: firmado si hay signing key.
func NewCodec(cfg *config.Config) (state.Codec, error) {
	if cfg.State.SigningKey == "" {
		return state.PlainCodec{}, nil
	}
	return state.NewSignedCodec([]byte(cfg.State.SigningKey), cfg.State.NonceTTL)
}

// NewLinkedIn crea el cliente OAuth de LinkedIn.
func NewLinkedIn(cfg *config.Config, httpClient *http.Client) *linkedin.Client {
	return linkedin.New(linkedin.Options{
		ClientID:        cfg.LinkedIn.ClientID,
		ClientSecret:    cfg.LinkedIn.ClientSecret,
		RedirectURI:     cfg.LinkedIn.RedirectURI,
		Scopes:          cfg.LinkedIn.Scopes,
		AuthURL:         cfg.LinkedIn.AuthURL,
		TokenURL:        cfg.LinkedIn.TokenURL,
		UserInfoURL:     cfg.LinkedIn.UserInfoURL,
		TokenTimeout:    cfg.LinkedIn.TokenEndpointTimeout,
		UserInfoTimeout: cfg.LinkedIn.UserInfoTimeout,
		HTTPClient:      httpClient,
	})
}

type rawRedis interface {
	Raw() *redis.Client
}

// Build arma la app completa. El cleanup devuelto libera store y cache.
func Build(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	log := logger.L().With(logger.Component("server.wiring"))

	// 1. Cache (nonces + rate limit)
	cc, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cache init: %w", err)
	}

	// 2. Store
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		_ = cc.Close()
		return nil, nil, fmt.Errorf("store init: %w", err)
	}
	cleanup := func() {
		st.Close()
		_ = cc.Close()
	}

	// 3. State codec
	codec, err := NewCodec(cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("state codec: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	deps := app.Deps{
		Store:      st,
		Codec:      codec,
		Nonces:     state.NewCacheNonceStore(cc),
		LinkedIn:   NewLinkedIn(cfg, httpClient),
		HTTPClient: httpClient,
	}
	if cfg.Cache.Kind == "redis" {
		deps.Cache = cc
	}

	// 4. Rate limiter
	if cfg.Rate.Enabled {
		if rr, ok := cc.(rawRedis); ok {
			deps.RateLimiter = rate.NewRedisLimiter(rr.Raw(), cfg.Cache.Redis.Prefix+":rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
		} else {
			deps.RateLimiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.Rate.Window)
		}
	}

	// 5. Metrics
	mcfg := mw.MetricsConfig{}
	if pgs, ok := st.(*pg.Store); ok {
		mcfg.Pool = pgs.Pool
	}
	metricsHandler, err := mw.RegisterMetrics(mcfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}
	deps.Metrics = metricsHandler

	a := app.New(cfg, deps)
	log.Info("app wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("signed_state", cfg.State.SigningKey != ""),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
		logger.Bool("start_on_connect", cfg.Automation.StartOnConnect),
	)
	return a, cleanup, nil
}
