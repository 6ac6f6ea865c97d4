package http

import (
	"log/slog"
	"net/http"

	"vidtube/internal/auth"
	"vidtube/internal/domain"
	"vidtube/internal/service"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
)

const refreshTokenCookie = "refreshToken"

// AuthHandler handles registration, login, and session endpoints.
type AuthHandler struct {
	service       *service.UserService
	tokens        *auth.TokenManager
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler. secureCookies should
// be false only in development, where the API is served over plain
// HTTP.
func NewAuthHandler(svc *service.UserService, tokens *auth.TokenManager, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, tokens: tokens, secureCookies: secureCookies, logger: logger}
}

// LoginRequest is the JSON request body for login. Identifier accepts
// a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// RefreshRequest is the JSON request body for token refresh, used when
// the client does not carry the refresh cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest is the JSON request body for changing a
// password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// AuthResponse pairs user data with issued tokens.
type AuthResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

// Register handles POST /api/v1/auth/register. The body is a
// multipart form carrying the profile fields plus an avatar file and
// an optional cover image.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload*2+maxJSONBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form"))
		return
	}

	avatar, closeAvatar, err := requireFile(r, "avatar")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer closeAvatar()

	cover, closeCover, err := formFile(r, "coverImage")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer closeCover()

	user, tokens, err := h.service.Register(r.Context(), service.RegisterInput{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("full_name"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens)
	httputil.WriteJSON(w, http.StatusCreated, AuthResponse{User: user, Tokens: tokens})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, tokens, err := h.service.Login(r.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens)
	httputil.WriteJSON(w, http.StatusOK, AuthResponse{User: user, Tokens: tokens})
}

// Logout handles POST /api/v1/auth/logout. It clears the stored
// session and expires the auth cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.Logout(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token comes
// from the cookie when present, otherwise from the JSON body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" && r.ContentLength > 0 {
		var req RefreshRequest
		if err := decodeJSON(w, r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	tokens, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens)
	httputil.WriteJSON(w, http.StatusOK, map[string]*domain.TokenPair{"tokens": tokens})
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	err := h.service.ChangePassword(r.Context(), userID, service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	// Changing the password revokes the session, so the cookies are
	// stale too.
	h.clearAuthCookies(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, tokens *domain.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   int(h.tokens.AccessExpiry().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/api/v1/auth",
		MaxAge:   int(h.tokens.RefreshExpiry().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
