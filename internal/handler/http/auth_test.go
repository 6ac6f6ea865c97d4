package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/auth"
	"vidtube/internal/domain"
	"vidtube/internal/event"
	"vidtube/internal/service"
	"vidtube/internal/storage/memory"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/httputil"
	pkgkafka "vidtube/pkg/kafka"
	"vidtube/pkg/middleware"
)

// --- Mock Repositories ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelProfile), args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Save(ctx context.Context, userID, tokenHash string) error {
	args := m.Called(ctx, userID, tokenHash)
	return args.Error(0)
}

func (m *mockSessionRepo) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockSessionRepo) Matches(ctx context.Context, userID, tokenHash string) (bool, error) {
	args := m.Called(ctx, userID, tokenHash)
	return args.Bool(0), args.Error(1)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) Record(ctx context.Context, userID, videoID string) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func (m *mockHistoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Video, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Video), args.Int(1), args.Error(2)
}

// --- Test Helpers ---

const testUserID = "550e8400-e29b-41d4-a716-446655440001"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(
		"handler-test-access-secret",
		"handler-test-refresh-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func testUserService(users *mockUserRepo, sessions *mockSessionRepo) *service.UserService {
	return testUserServiceWithHistory(users, sessions, new(mockHistoryRepo))
}

func testUserServiceWithHistory(users *mockUserRepo, sessions *mockSessionRepo, history *mockHistoryRepo) *service.UserService {
	logger := testLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	return service.NewUserService(
		users,
		sessions,
		history,
		testTokenManager(),
		memory.New("https://files.test"),
		event.NewProducer(kafkaProducer, logger),
		logger,
	)
}

func setupAuthRouter(users *mockUserRepo, sessions *mockSessionRepo) *chi.Mux {
	svc := testUserService(users, sessions)
	handler := NewAuthHandler(svc, testTokenManager(), false, testLogger())

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", handler.Register)
	r.With(ContentTypeJSON).Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/refresh", handler.Refresh)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(svc.Resolve))
		r.Post("/api/v1/auth/logout", handler.Logout)
		r.With(ContentTypeJSON).Post("/api/v1/auth/change-password", handler.ChangePassword)
	})
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func registerForm(t *testing.T, fields map[string]string, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withAvatar {
		part, err := mw.CreatePart(map[string][]string{
			"Content-Disposition": {`form-data; name="avatar"; filename="avatar.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

// --- Register Tests ---

func TestRegisterEndpoint_SetsCookies(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	router := setupAuthRouter(users, sessions)

	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	sessions.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	body, contentType := registerForm(t, map[string]string{
		"username":  "johndoe",
		"email":     "john@example.com",
		"full_name": "John Doe",
		"password":  "SecurePass123",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	access := cookieByName(rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.NotEmpty(t, access.Value)

	refresh := cookieByName(rec, refreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "/api/v1/auth", refresh.Path)

	users.AssertExpectations(t)
}

func TestRegisterEndpoint_MissingAvatar(t *testing.T) {
	router := setupAuthRouter(new(mockUserRepo), new(mockSessionRepo))

	body, contentType := registerForm(t, map[string]string{
		"username":  "johndoe",
		"email":     "john@example.com",
		"full_name": "John Doe",
		"password":  "SecurePass123",
	}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Error.Code)
}

// --- Login Tests ---

func TestLoginEndpoint_Success(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	router := setupAuthRouter(users, sessions)

	hash, err := bcrypt.GenerateFromPassword([]byte("SecurePass123"), 4)
	require.NoError(t, err)

	users.On("GetByUsername", mock.Anything, "johndoe").Return(&domain.User{
		ID:           testUserID,
		Username:     "johndoe",
		PasswordHash: string(hash),
	}, nil)
	sessions.On("Save", mock.Anything, testUserID, mock.AnythingOfType("string")).Return(nil)

	payload, _ := json.Marshal(LoginRequest{Identifier: "johndoe", Password: "SecurePass123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, cookieByName(rec, middleware.AccessTokenCookie))
	assert.NotNil(t, cookieByName(rec, refreshTokenCookie))
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	users := new(mockUserRepo)
	router := setupAuthRouter(users, new(mockSessionRepo))

	users.On("GetByUsername", mock.Anything, "johndoe").
		Return(nil, apperrors.NotFound("user", "johndoe"))

	payload, _ := json.Marshal(LoginRequest{Identifier: "johndoe", Password: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Error.Code)
}

func TestLoginEndpoint_WrongContentType(t *testing.T) {
	router := setupAuthRouter(new(mockUserRepo), new(mockSessionRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("identifier=x")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// --- Refresh Tests ---

func TestRefreshEndpoint_FromCookie(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	router := setupAuthRouter(users, sessions)

	refreshToken, err := testTokenManager().GenerateRefreshToken(testUserID)
	require.NoError(t, err)

	sessions.On("Matches", mock.Anything, testUserID, auth.HashToken(refreshToken)).Return(true, nil)
	users.On("GetByID", mock.Anything, testUserID).
		Return(&domain.User{ID: testUserID, Username: "johndoe"}, nil)
	sessions.On("Save", mock.Anything, testUserID, mock.AnythingOfType("string")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: refreshToken})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The rotated refresh token replaces the cookie.
	rotated := cookieByName(rec, refreshTokenCookie)
	require.NotNil(t, rotated)
	assert.NotEqual(t, refreshToken, rotated.Value)
}

func TestRefreshEndpoint_RevokedSession(t *testing.T) {
	sessions := new(mockSessionRepo)
	router := setupAuthRouter(new(mockUserRepo), sessions)

	refreshToken, err := testTokenManager().GenerateRefreshToken(testUserID)
	require.NoError(t, err)

	sessions.On("Matches", mock.Anything, testUserID, auth.HashToken(refreshToken)).Return(false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: refreshToken})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- Logout Tests ---

func TestLogoutEndpoint_ClearsCookies(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	router := setupAuthRouter(users, sessions)

	accessToken, err := testTokenManager().GenerateAccessToken(testUserID, "johndoe")
	require.NoError(t, err)

	expectResolvedUser(users)
	sessions.On("Clear", mock.Anything, testUserID).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	access := cookieByName(rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Negative(t, access.MaxAge)

	sessions.AssertExpectations(t)
}

func TestLogoutEndpoint_Unauthenticated(t *testing.T) {
	router := setupAuthRouter(new(mockUserRepo), new(mockSessionRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- Change Password Tests ---

func TestChangePasswordEndpoint(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	router := setupAuthRouter(users, sessions)

	hash, err := bcrypt.GenerateFromPassword([]byte("OldPass123"), 4)
	require.NoError(t, err)

	accessToken, err := testTokenManager().GenerateAccessToken(testUserID, "johndoe")
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, testUserID).
		Return(&domain.User{ID: testUserID, PasswordHash: string(hash)}, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	sessions.On("Clear", mock.Anything, testUserID).Return(nil)

	payload, _ := json.Marshal(ChangePasswordRequest{
		CurrentPassword: "OldPass123",
		NewPassword:     "NewPass456",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sessions.AssertExpectations(t)
}
