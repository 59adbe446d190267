package automation

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/automation"
	httperrors "github.com/dropDatabas3/autolink/internal/http/errors"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	"github.com/dropDatabas3/autolink/internal/http/middlewares"
	svc "github.com/dropDatabas3/autolink/internal/http/services/automation"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// AgentController handles /api/agent/{start,stop,status}.
type AgentController struct {
	agent AgentService
}

func NewAgentController(a AgentService) *AgentController {
	return &AgentController{agent: a}
}

func (c *AgentController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.agent.Start(ctx, middlewares.GetUserID(ctx)); err != nil {
		logger.From(ctx).Error("agent start failed", logger.Op("AgentController.Start"), logger.Err(err))
		if errors.Is(err, svc.ErrDispatch) {
			httperrors.WriteError(w, httperrors.ErrPreconditionFailed.WithDetail("automation webhook not configured"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (c *AgentController) Stop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.agent.Stop(ctx, middlewares.GetUserID(ctx)); err != nil {
		logger.From(ctx).Error("agent stop failed", logger.Op("AgentController.Stop"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (c *AgentController) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := c.agent.Status(ctx, middlewares.GetUserID(ctx))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.AgentStatusResponse{
		Status:      st.Status,
		LastRun:     st.LastRun,
		Connected:   st.Connected,
		HealthScore: 100,
	})
}
