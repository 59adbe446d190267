// Package app ensambla services, controllers y router a partir de la
// infraestructura ya construida.
package app

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/autolink/internal/config"
	autoctrl "github.com/dropDatabas3/autolink/internal/http/controllers/automation"
	connectctrl "github.com/dropDatabas3/autolink/internal/http/controllers/connect"
	healthctrl "github.com/dropDatabas3/autolink/internal/http/controllers/health"
	mw "github.com/dropDatabas3/autolink/internal/http/middlewares"
	"github.com/dropDatabas3/autolink/internal/http/router"
	"github.com/dropDatabas3/autolink/internal/http/services/automation"
	"github.com/dropDatabas3/autolink/internal/http/services/connect"
	"github.com/dropDatabas3/autolink/internal/http/services/health"
	"github.com/dropDatabas3/autolink/internal/oauth/linkedin"
	"github.com/dropDatabas3/autolink/internal/oauth/state"
	"github.com/dropDatabas3/autolink/internal/rate"
	"github.com/dropDatabas3/autolink/internal/store"
)

// Deps holds raw dependencies required to build the app.
type Deps struct {
	Store    store.Store
	Cache    health.Pinger // optional, only when the cache is remote
	Codec    state.Codec
	Nonces   state.NonceStore
	LinkedIn *linkedin.Client

	RateLimiter rate.Limiter // optional
	Metrics     http.Handler // optional
	HTTPClient  *http.Client // optional, for webhook and Make API calls
	Clock       func() time.Time
}

// App represents the wired application.
type App struct {
	Handler      http.Handler
	Orchestrator *connect.Orchestrator
	Agent        *automation.Agent
	Start        *connect.StartService
}

// New creates and wires the application.
func New(cfg *config.Config, d Deps) *App {
	if d.Clock == nil {
		d.Clock = time.Now
	}

	// 1. Services
	proxy := automation.NewProxy(automation.ProxyDeps{
		WebhookURL: cfg.Automation.WebhookURL,
		Timeout:    cfg.Automation.Timeout,
		PerSecond:  cfg.Automation.DispatchRPS,
		HTTPClient: d.HTTPClient,
	})
	agent := automation.NewAgent(d.Store, proxy, d.Clock)
	scheduler := automation.NewScheduler(automation.SchedulerDeps{
		APIURL:     cfg.Automation.Make.APIURL,
		APIKey:     cfg.Automation.Make.APIKey,
		ScenarioID: cfg.Automation.Make.ScenarioID,
		Timeout:    cfg.Automation.Timeout,
		HTTPClient: d.HTTPClient,
	})

	start := connect.NewStartService(connect.StartDeps{
		Codec:    d.Codec,
		Nonces:   d.Nonces,
		AuthURL:  d.LinkedIn,
		NonceTTL: cfg.State.NonceTTL,
	})

	callbackDeps := connect.CallbackDeps{
		Codec:               d.Codec,
		Nonces:              d.Nonces,
		Tokens:              d.LinkedIn,
		Identity:            d.LinkedIn,
		Credentials:         d.Store,
		RedirectURI:         cfg.LinkedIn.RedirectURI,
		AllowedRedirectURIs: cfg.LinkedIn.AllowedRedirectURIs,
		ExchangeTimeout:     cfg.LinkedIn.TokenEndpointTimeout,
		IdentityTimeout:     cfg.LinkedIn.UserInfoTimeout,
		PersistTimeout:      cfg.Storage.Timeout,
		AutomationTimeout:   cfg.Automation.Timeout,
		Clock:               d.Clock,
	}
	if cfg.Automation.StartOnConnect {
		callbackDeps.Automation = agent
	}
	orch := connect.NewOrchestrator(callbackDeps)

	healthSvc := health.NewHealthService(health.Deps{
		Storage: d.Store,
		Cache:   d.Cache,
		Version: cfg.App.Version,
	})

	// 2. Controllers
	connectCtrls := connectctrl.NewControllers(connectctrl.Deps{
		Start:      start,
		Flow:       orch,
		Disconnect: connect.NewDisconnectService(d.Store),
		Redirects:  connect.NewRedirectBuilder(cfg.Frontend.SettingsURL),
		Cookie: connectctrl.CookieConfig{
			Name:   cfg.State.CookieName,
			Secure: cfg.State.CookieSecure,
			TTL:    start.NonceTTL(),
		},
	})
	autoCtrls := autoctrl.NewControllers(autoctrl.Deps{
		Proxy:     proxy,
		Agent:     agent,
		Scheduler: scheduler,
	})

	// 3. Router
	handler := router.New(router.Deps{
		Connect:     connectCtrls,
		Automation:  autoCtrls,
		Health:      healthctrl.NewHealthController(healthSvc),
		Verifier:    mw.NewHS256Verifier(cfg.Auth.JWTSecret, cfg.Auth.Audience),
		RateLimiter: d.RateLimiter,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Proxies:     mw.NewProxyTrust(cfg.Server.TrustedProxies),
		Metrics:     d.Metrics,
	})

	return &App{Handler: handler, Orchestrator: orch, Agent: agent, Start: start}
}
