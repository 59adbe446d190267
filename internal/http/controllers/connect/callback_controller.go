package connect

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/autolink/internal/http/helpers"
	svc "github.com/dropDatabas3/autolink/internal/http/services/connect"
	"github.com/dropDatabas3/autolink/internal/metrics"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// CallbackController handles GET /api/linkedin/callback. Every outcome ends
// in a 302 to the settings page; nothing is rendered here.
type CallbackController struct {
	flow      CallbackFlow
	redirects svc.RedirectBuilder
	cookie    CookieConfig
}

func NewCallbackController(flow CallbackFlow, redirects svc.RedirectBuilder, cookie CookieConfig) *CallbackController {
	return &CallbackController{flow: flow, redirects: redirects, cookie: cookie}
}

func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	q := r.URL.Query()
	req := svc.CallbackRequest{
		Code:             strings.TrimSpace(q.Get("code")),
		State:            strings.TrimSpace(q.Get("state")),
		Error:            strings.TrimSpace(q.Get("error")),
		ErrorDescription: strings.TrimSpace(q.Get("error_description")),
		CookieNonce:      helpers.CookieValue(r, c.cookie.Name),
	}

	// El browser puede cerrar la conexión; el flujo igual termina.
	ctx := context.WithoutCancel(r.Context())
	out := c.flow.HandleCallback(ctx, req)

	metrics.ObserveCallback(out.Success, out.Code)
	if out.Success {
		log.Info("linkedin connected", logger.UserID(out.UserID), logger.Stage(out.Stage.String()))
	} else {
		log.Warn("linkedin callback failed",
			logger.UserID(out.UserID),
			logger.Stage(out.Stage.String()),
			logger.ErrCode(out.Code),
			logger.Err(out.Err),
		)
	}

	if req.CookieNonce != "" {
		helpers.ClearStateCookie(w, c.cookie.Name, c.cookie.Secure)
	}
	http.Redirect(w, r, c.redirects.For(out), http.StatusFound)
}
