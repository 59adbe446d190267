package connect

import (
	"net/http"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/connect"
	httperrors "github.com/dropDatabas3/autolink/internal/http/errors"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	"github.com/dropDatabas3/autolink/internal/http/middlewares"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// DisconnectController handles POST /api/linkedin/disconnect.
type DisconnectController struct {
	service Disconnector
}

func NewDisconnectController(s Disconnector) *DisconnectController {
	return &DisconnectController{service: s}
}

func (c *DisconnectController) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.Disconnect(ctx, middlewares.GetUserID(ctx)); err != nil {
		logger.From(ctx).Error("disconnect failed", logger.Op("DisconnectController.Disconnect"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ResultResponse{Success: true})
}
