package http

import (
	"net/http"

	"vidtube/internal/service"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// DashboardHandler handles the channel owner's dashboard endpoints.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard HTTP handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Videos handles GET /api/v1/dashboard/videos. It lists the caller's
// uploads, drafts included.
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Videos(r.Context(),
		middleware.UserIDFromContext(r.Context()),
		pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
