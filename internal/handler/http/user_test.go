package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	"vidtube/pkg/httputil"
	"vidtube/pkg/middleware"
)

func setupUserRouter(users *mockUserRepo, sessions *mockSessionRepo, history *mockHistoryRepo) *chi.Mux {
	logger := testLogger()
	svc := testUserServiceWithHistory(users, sessions, history)
	handler := NewUserHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Route("/api/v1/users", func(r chi.Router) {
		r.With(middleware.OptionalAuth(svc.Resolve)).Get("/c/{username}", handler.ChannelProfile)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(svc.Resolve))
			r.Get("/me", handler.Me)
			r.With(ContentTypeJSON).Patch("/me", handler.UpdateAccount)
			r.Get("/me/history", handler.WatchHistory)
		})
	})
	return r
}

func authedRequest(t *testing.T, method, target string, body *bytes.Reader) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	token, err := testTokenManager().GenerateAccessToken(testUserID, "johndoe")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// expectResolvedUser satisfies the auth gate's account lookup for the
// standard test identity.
func expectResolvedUser(users *mockUserRepo) {
	users.On("GetByID", mock.Anything, testUserID).
		Return(&domain.User{ID: testUserID, Username: "johndoe"}, nil)
}

func TestMeEndpoint(t *testing.T) {
	users := new(mockUserRepo)
	router := setupUserRouter(users, new(mockSessionRepo), new(mockHistoryRepo))

	users.On("GetByID", mock.Anything, testUserID).
		Return(&domain.User{ID: testUserID, Username: "johndoe"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/v1/users/me", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Data)
	users.AssertExpectations(t)
}

func TestMeEndpoint_Unauthorized(t *testing.T) {
	router := setupUserRouter(new(mockUserRepo), new(mockSessionRepo), new(mockHistoryRepo))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateAccountEndpoint_ValidationFailure(t *testing.T) {
	users := new(mockUserRepo)
	router := setupUserRouter(users, new(mockSessionRepo), new(mockHistoryRepo))
	expectResolvedUser(users)

	payload, _ := json.Marshal(UpdateAccountRequest{FullName: "John", Email: "not-an-email"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPatch, "/api/v1/users/me", bytes.NewReader(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChannelProfileEndpoint_Anonymous(t *testing.T) {
	users := new(mockUserRepo)
	router := setupUserRouter(users, new(mockSessionRepo), new(mockHistoryRepo))

	users.On("GetChannelProfile", mock.Anything, "johndoe", "").
		Return(&domain.ChannelProfile{ID: testUserID, Username: "johndoe", SubscriberCount: 5}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/c/johndoe", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	users.AssertExpectations(t)
}

func TestChannelProfileEndpoint_AuthenticatedViewer(t *testing.T) {
	users := new(mockUserRepo)
	router := setupUserRouter(users, new(mockSessionRepo), new(mockHistoryRepo))

	expectResolvedUser(users)
	users.On("GetChannelProfile", mock.Anything, "other", testUserID).
		Return(&domain.ChannelProfile{ID: "other-id", Username: "other", IsSubscribed: true}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/v1/users/c/other", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	users.AssertExpectations(t)
}

func TestWatchHistoryEndpoint(t *testing.T) {
	users := new(mockUserRepo)
	history := new(mockHistoryRepo)
	router := setupUserRouter(users, new(mockSessionRepo), history)
	expectResolvedUser(users)

	history.On("ListByUser", mock.Anything, testUserID, 10, 0).
		Return([]domain.Video{{ID: "video-1"}}, 1, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/v1/users/me/history", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	history.AssertExpectations(t)
}
