package connect

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/connect"
	httperrors "github.com/dropDatabas3/autolink/internal/http/errors"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	"github.com/dropDatabas3/autolink/internal/http/middlewares"
	svc "github.com/dropDatabas3/autolink/internal/http/services/connect"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// AuthorizeController handles GET /api/linkedin/authorize.
type AuthorizeController struct {
	start  Starter
	cookie CookieConfig
}

func NewAuthorizeController(start Starter, cookie CookieConfig) *AuthorizeController {
	return &AuthorizeController{start: start, cookie: cookie}
}

// Authorize returns {"url": ...}, or redirects when ?redirect=1.
func (c *AuthorizeController) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthorizeController.Authorize"))

	res, err := c.start.AuthorizeURL(ctx, middlewares.GetUserID(ctx))
	if err != nil {
		if errors.Is(err, svc.ErrStartMissingUser) {
			httperrors.WriteError(w, httperrors.ErrUnauthorized)
			return
		}
		log.Error("authorize url failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}

	helpers.SetStateCookie(w, c.cookie.Name, res.Nonce, c.cookie.TTL, c.cookie.Secure)

	if r.URL.Query().Get("redirect") == "1" {
		http.Redirect(w, r, res.URL, http.StatusFound)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.AuthorizeResponse{URL: res.URL})
}
