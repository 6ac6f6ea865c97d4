package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/service"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// TweetHandler handles tweet endpoints.
type TweetHandler struct {
	service *service.TweetService
}

// NewTweetHandler creates a new tweet HTTP handler.
func NewTweetHandler(svc *service.TweetService) *TweetHandler {
	return &TweetHandler{service: svc}
}

// TweetRequest is the JSON request body for creating or editing a
// tweet.
type TweetRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles POST /api/v1/tweets.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tweet, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, tweet)
}

// ListByUser handles GET /api/v1/tweets/user/{userID}.
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.ParseUUID(chi.URLParam(r, "userID"), "userID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	result, err := h.service.ListByUser(r.Context(), userID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/tweets/{id}.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req TweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tweet, err := h.service.Update(r.Context(), id, middleware.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tweet)
}

// Delete handles DELETE /api/v1/tweets/{id}.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "tweet deleted"})
}
