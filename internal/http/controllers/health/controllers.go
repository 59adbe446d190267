// Package health contiene el controller de health check.
package health

import (
	"net/http"

	dto "github.com/dropDatabas3/autolink/internal/http/dto/health"
	"github.com/dropDatabas3/autolink/internal/http/helpers"
	svc "github.com/dropDatabas3/autolink/internal/http/services/health"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(s svc.HealthService) *HealthController {
	return &HealthController{service: s}
}

func updown(ok bool) string {
	if ok {
		return "Connected"
	}
	return "Disconnected"
}

// Health handles GET /api/health. Always 200 while the process is alive.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	rep := c.service.Check(r.Context())
	resp := dto.HealthResponse{
		Status:  "OK",
		Storage: updown(rep.StorageUp),
		Version: rep.Version,
	}
	if rep.CacheUp != nil {
		resp.Cache = updown(*rep.CacheUp)
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, resp)
}
