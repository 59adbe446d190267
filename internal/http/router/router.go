// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	autoctrl "github.com/dropDatabas3/autolink/internal/http/controllers/automation"
	connectctrl "github.com/dropDatabas3/autolink/internal/http/controllers/connect"
	healthctrl "github.com/dropDatabas3/autolink/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/autolink/internal/http/errors"
	mw "github.com/dropDatabas3/autolink/internal/http/middlewares"
	"github.com/dropDatabas3/autolink/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Connect    *connectctrl.Controllers
	Automation *autoctrl.Controllers
	Health     *healthctrl.HealthController

	Verifier    mw.TokenVerifier
	RateLimiter rate.Limiter // Opcional
	CORSOrigins []string
	Proxies     *mw.ProxyTrust // Opcional: sin proxies se ignora X-Forwarded-For
	Metrics     http.Handler   // Opcional: /metrics
}

// New arma el handler completo.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/api/health", d.Health.Health)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	limited := mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.RateLimiter, Proxies: d.Proxies})

	// Callback: público, lo invoca el browser al volver de LinkedIn.
	browser := mw.Compose(limited, mw.WithNoStore())
	r.With(browser).Get("/api/linkedin/callback", d.Connect.Callback.Callback)

	// Proxy hacia Make.com: sin sesión, igual que el cliente web lo usa hoy.
	r.With(limited).Post("/api/trigger-make", d.Automation.Trigger.Trigger)
	r.With(limited).Post("/api/automation/trigger", d.Automation.Trigger.Trigger)

	r.Group(func(r chi.Router) {
		r.Use(limited, mw.RequireAuth(d.Verifier))

		registerConnectRoutes(r, d.Connect)
		registerAutomationRoutes(r, d.Automation)
	})

	return r
}

func registerConnectRoutes(r chi.Router, c *connectctrl.Controllers) {
	r.With(mw.WithNoStore()).Get("/api/linkedin/authorize", c.Authorize.Authorize)
	r.Post("/api/linkedin/exchange", c.Exchange.Exchange)
	r.Post("/api/linkedin/disconnect", c.Disconnect.Disconnect)
}

func registerAutomationRoutes(r chi.Router, c *autoctrl.Controllers) {
	r.Post("/api/agent/start", c.Agent.Start)
	r.Post("/api/agent/stop", c.Agent.Stop)
	r.Get("/api/agent/status", c.Agent.Status)

	r.Post("/api/save-schedule", c.Schedule.Save)
}
