package automation

import (
	"bytes"
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/automation"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	svc "github.com/dropDatabas3/autolink/internal/http/services/automation"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// TriggerController handles POST /api/trigger-make.
type TriggerController struct {
	proxy Triggerer
}

func NewTriggerController(p Triggerer) *TriggerController {
	return &TriggerController{proxy: p}
}

// Trigger forwards {"payload": ...} to the webhook. Webhook-side failures
// still answer success; only a dispatch error is a 500.
func (c *TriggerController) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.TriggerRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	payload := req.Payload
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("null")
	}

	if err := c.proxy.Trigger(ctx, payload); err != nil {
		logger.From(ctx).Error("trigger failed", logger.Op("TriggerController.Trigger"), logger.Err(err))
		msg := "Failed to trigger automation"
		if errors.Is(err, svc.ErrDispatch) {
			msg = "Automation webhook is not configured"
		}
		helpers.WriteErrorJSON(w, http.StatusInternalServerError, msg)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}
