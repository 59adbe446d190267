package connect

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/connect"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	"github.com/dropDatabas3/autolink/internal/http/middlewares"
	"github.com/dropDatabas3/autolink/internal/metrics"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// ExchangeController handles POST /api/linkedin/exchange: the authenticated
// variant where the browser forwards the code itself.
type ExchangeController struct {
	flow CallbackFlow
}

func NewExchangeController(flow CallbackFlow) *ExchangeController {
	return &ExchangeController{flow: flow}
}

func (c *ExchangeController) Exchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ExchangeController.Exchange"))

	var req dto.ExchangeRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out := c.flow.Complete(ctx, middlewares.GetUserID(ctx), strings.TrimSpace(req.Code), strings.TrimSpace(req.RedirectURI))
	metrics.ObserveCallback(out.Success, out.Code)

	w.Header().Set("Cache-Control", "no-store")
	if !out.Success {
		log.Warn("exchange failed", logger.Stage(out.Stage.String()), logger.ErrCode(out.Code), logger.Err(out.Err))
		helpers.WriteJSON(w, http.StatusBadRequest, dto.ResultResponse{Success: false, Error: out.Message})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ResultResponse{Success: true})
}
