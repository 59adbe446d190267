// Package connect contains the LinkedIn connect controllers.
package connect

import (
	"context"
	"time"

	svc "github.com/dropDatabas3/autolink/internal/http/services/connect"
)

// Starter issues authorization URLs.
type Starter interface {
	AuthorizeURL(ctx context.Context, userID string) (*svc.StartResult, error)
}

// CallbackFlow runs the callback orchestrator.
type CallbackFlow interface {
	HandleCallback(ctx context.Context, req svc.CallbackRequest) svc.Outcome
	Complete(ctx context.Context, userID, code, redirectURI string) svc.Outcome
}

// Disconnector clears the stored credential.
type Disconnector interface {
	Disconnect(ctx context.Context, userID string) error
}

// CookieConfig describes the li_auth_state cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type Deps struct {
	Start      Starter
	Flow       CallbackFlow
	Disconnect Disconnector
	Redirects  svc.RedirectBuilder
	Cookie     CookieConfig
}

// Controllers agrupa todos los controllers del dominio connect.
type Controllers struct {
	Authorize  *AuthorizeController
	Callback   *CallbackController
	Exchange   *ExchangeController
	Disconnect *DisconnectController
}

func NewControllers(d Deps) *Controllers {
	if d.Cookie.Name == "" {
		d.Cookie.Name = "li_auth_state"
	}
	return &Controllers{
		Authorize:  NewAuthorizeController(d.Start, d.Cookie),
		Callback:   NewCallbackController(d.Flow, d.Redirects, d.Cookie),
		Exchange:   NewExchangeController(d.Flow),
		Disconnect: NewDisconnectController(d.Disconnect),
	}
}
