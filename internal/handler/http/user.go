package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/domain"
	"vidtube/internal/service"
	"vidtube/internal/storage"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
)

// UserHandler handles profile and channel endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// UpdateAccountRequest is the JSON request body for updating account
// details.
type UpdateAccountRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetCurrentUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateAccount handles PATCH /api/v1/users/me.
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, err := h.service.UpdateAccount(r.Context(), middleware.UserIDFromContext(r.Context()), service.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.service.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/me/cover-image.
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.service.UpdateCoverImage)
}

// ChannelProfile handles GET /api/v1/users/c/{username}. It works for
// anonymous viewers; an authenticated viewer additionally sees whether
// they are subscribed.
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.ChannelProfile(r.Context(),
		chi.URLParam(r, "username"),
		middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// WatchHistory handles GET /api/v1/users/me/history.
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.WatchHistory(r.Context(),
		middleware.UserIDFromContext(r.Context()),
		pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID string, upload *storage.UploadInput) (*domain.User, error),
) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form"))
		return
	}

	upload, closeFile, err := requireFile(r, field)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer closeFile()

	user, err := update(r.Context(), middleware.UserIDFromContext(r.Context()), upload)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
