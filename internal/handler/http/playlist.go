package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/service"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// PlaylistHandler handles playlist endpoints.
type PlaylistHandler struct {
	service *service.PlaylistService
}

// NewPlaylistHandler creates a new playlist HTTP handler.
func NewPlaylistHandler(svc *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: svc}
}

// PlaylistRequest is the JSON request body for creating or updating a
// playlist.
type PlaylistRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Create handles POST /api/v1/playlists.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	playlist, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), service.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, playlist)
}

// Get handles GET /api/v1/playlists/{id}.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	playlist, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlist)
}

// ListByUser handles GET /api/v1/playlists/user/{userID}.
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.ParseUUID(chi.URLParam(r, "userID"), "userID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	result, err := h.service.ListByOwner(r.Context(), userID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/playlists/{id}.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req PlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	playlist, err := h.service.Update(r.Context(), id, middleware.UserIDFromContext(r.Context()), service.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlist)
}

// Delete handles DELETE /api/v1/playlists/{id}.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "playlist deleted"})
}

// AddVideo handles POST /api/v1/playlists/{id}/videos/{videoID}.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.modifyVideos(w, r, h.service.AddVideo, "video added to playlist")
}

// RemoveVideo handles DELETE /api/v1/playlists/{id}/videos/{videoID}.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.modifyVideos(w, r, h.service.RemoveVideo, "video removed from playlist")
}

func (h *PlaylistHandler) modifyVideos(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, playlistID, videoID, userID string) error,
	message string,
) {
	playlistID, err := httputil.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	videoID, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := op(r.Context(), playlistID, videoID, middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}
