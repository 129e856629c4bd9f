package handlers

import (
	"github.com/fasthttp/router"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type HealthService interface {
	Ping() error
}

type HealthHandler struct {
	svc HealthService
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{svc: healthService}
}

// RegisterHealthRoutes mounts the probe endpoint outside the API group.
func RegisterHealthRoutes(r *router.Router, h *HealthHandler) {
	r.GET("/health", h.GetHealth)
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Ping(); err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, "unhealthy")
		return
	}
	ctx.Response.SetBodyString("success")
}
