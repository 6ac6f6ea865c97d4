package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/service"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// VideoHandler handles video endpoints.
type VideoHandler struct {
	service *service.VideoService
}

// NewVideoHandler creates a new video HTTP handler.
func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{service: svc}
}

// UpdateVideoRequest is the JSON request body for updating video
// metadata. Absent fields are left unchanged.
type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Publish handles POST /api/v1/videos. The body is a multipart form
// with title, description, an optional duration in seconds, the video
// file, and a thumbnail.
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVideoUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form"))
		return
	}

	videoFile, closeVideo, err := requireFile(r, "videoFile")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer closeVideo()

	thumbnail, closeThumb, err := requireFile(r, "thumbnail")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer closeThumb()

	var duration float64
	if raw := r.FormValue("duration"); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil || duration < 0 {
			httputil.WriteError(w, r, apperrors.InvalidInput("duration must be a non-negative number of seconds"))
			return
		}
	}

	video, err := h.service.Publish(r.Context(), middleware.UserIDFromContext(r.Context()), service.PublishInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, video)
}

// Get handles GET /api/v1/videos/{videoID}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	video, err := h.service.Get(r.Context(), id, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, video)
}

// List handles GET /api/v1/videos.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.service.List(r.Context(), service.ListInput{
		Query:     q.Get("query"),
		OwnerID:   q.Get("owner_id"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}, middleware.UserIDFromContext(r.Context()), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/videos/{videoID}. Metadata comes as JSON; a
// new thumbnail goes through the multipart variant on the same route.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	input := service.UpdateInput{}

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form"))
			return
		}
		thumbnail, closeThumb, err := formFile(r, "thumbnail")
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		defer closeThumb()
		input.Thumbnail = thumbnail

		if v := r.FormValue("title"); v != "" {
			input.Title = &v
		}
		if v := r.FormValue("description"); v != "" {
			input.Description = &v
		}
	} else {
		var req UpdateVideoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		input.Title = req.Title
		input.Description = req.Description
	}

	video, err := h.service.Update(r.Context(), id, middleware.UserIDFromContext(r.Context()), input)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, video)
}

// Delete handles DELETE /api/v1/videos/{videoID}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "video deleted"})
}

// TogglePublish handles PATCH /api/v1/videos/{videoID}/toggle-publish.
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseUUID(chi.URLParam(r, "videoID"), "videoID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	published, err := h.service.TogglePublish(r.Context(), id, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"is_published": published})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
