package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/service"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	service *service.CommentService
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{service: svc}
}

// CommentRequest is the JSON request body for adding or editing a
// comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Add handles POST /api/v1/videos/{videoID}/comments.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	comment, err := h.service.Add(r.Context(), videoID, middleware.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// ListByVideo handles GET /api/v1/videos/{videoID}/comments.
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	result, err := h.service.ListByVideo(r.Context(), videoID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	comment, err := h.service.Update(r.Context(), id, middleware.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/v1/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
