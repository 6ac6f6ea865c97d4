package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/domain"
	"vidtube/internal/service"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// LikeHandler handles like endpoints for videos, comments, and tweets.
type LikeHandler struct {
	service *service.LikeService
}

// NewLikeHandler creates a new like HTTP handler.
func NewLikeHandler(svc *service.LikeService) *LikeHandler {
	return &LikeHandler{service: svc}
}

// ToggleVideo handles POST /api/v1/likes/video/{id}.
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.LikeTargetVideo)
}

// ToggleComment handles POST /api/v1/likes/comment/{id}.
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.LikeTargetComment)
}

// ToggleTweet handles POST /api/v1/likes/tweet/{id}.
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.LikeTargetTweet)
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.LikedVideos(r.Context(),
		middleware.UserIDFromContext(r.Context()),
		pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target domain.LikeTarget) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	liked, err := h.service.Toggle(r.Context(), middleware.UserIDFromContext(r.Context()), target, id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	count, err := h.service.Count(r.Context(), target, id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"like_count": count,
	})
}
