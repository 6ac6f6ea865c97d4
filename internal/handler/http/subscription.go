package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/service"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// SubscriptionHandler handles channel subscription endpoints.
type SubscriptionHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription HTTP handler.
func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// Toggle handles POST /api/v1/subscriptions/{channelID}.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	channelID, err := httputil.ParseUUID(chi.URLParam(r, "channelID"), "channelID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	subscribed, err := h.service.Toggle(r.Context(), middleware.UserIDFromContext(r.Context()), channelID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"subscribed": subscribed})
}

// Subscribers handles GET /api/v1/subscriptions/{channelID}/subscribers.
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := httputil.ParseUUID(chi.URLParam(r, "channelID"), "channelID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	result, err := h.service.Subscribers(r.Context(), channelID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Subscribed handles GET /api/v1/subscriptions/me. It lists the
// channels the caller subscribes to.
func (h *SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SubscribedChannels(r.Context(),
		middleware.UserIDFromContext(r.Context()),
		pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
