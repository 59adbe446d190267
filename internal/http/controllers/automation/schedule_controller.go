package automation

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/automation"
	httperrors "github.com/dropDatabas3/autolink/internal/http/errors"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	svc "github.com/dropDatabas3/autolink/internal/http/services/automation"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// ScheduleController handles POST /api/save-schedule.
type ScheduleController struct {
	scheduler ScheduleSyncer
}

func NewScheduleController(s ScheduleSyncer) *ScheduleController {
	return &ScheduleController{scheduler: s}
}

func (c *ScheduleController) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ScheduleRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	entries := make([]svc.ScheduleEntry, 0, len(req.Schedule))
	for _, e := range req.Schedule {
		entries = append(entries, svc.ScheduleEntry{Day: e.Day, Time: e.Time})
	}

	err := c.scheduler.Sync(ctx, entries)
	switch {
	case err == nil:
		helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
	case errors.Is(err, svc.ErrInvalidSchedule):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrSchedulerNotConfigured):
		httperrors.WriteError(w, httperrors.ErrPreconditionFailed.WithDetail("make.com scheduling not configured"))
	default:
		logger.From(ctx).Error("schedule sync failed", logger.Op("ScheduleController.Save"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrBadGateway.WithCause(err))
	}
}
