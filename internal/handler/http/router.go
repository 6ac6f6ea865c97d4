package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidtube/internal/auth"
	"vidtube/internal/service"
	"vidtube/pkg/health"
	"vidtube/pkg/middleware"
)

// RouterConfig bundles everything the router wires together.
type RouterConfig struct {
	Users         *service.UserService
	Videos        *service.VideoService
	Comments      *service.CommentService
	Tweets        *service.TweetService
	Likes         *service.LikeService
	Playlists     *service.PlaylistService
	Subscriptions *service.SubscriptionService
	Dashboard     *service.DashboardService

	Tokens        *auth.TokenManager
	Health        *health.Handler
	Logger        *slog.Logger
	CORS          middleware.CORSConfig
	SecureCookies bool
	PprofCIDRs    []string
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing("vidtube"))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics())

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	authHandler := NewAuthHandler(cfg.Users, cfg.Tokens, cfg.SecureCookies, cfg.Logger)
	userHandler := NewUserHandler(cfg.Users)
	videoHandler := NewVideoHandler(cfg.Videos)
	commentHandler := NewCommentHandler(cfg.Comments)
	tweetHandler := NewTweetHandler(cfg.Tweets)
	likeHandler := NewLikeHandler(cfg.Likes)
	playlistHandler := NewPlaylistHandler(cfg.Playlists)
	subscriptionHandler := NewSubscriptionHandler(cfg.Subscriptions)
	dashboardHandler := NewDashboardHandler(cfg.Dashboard)

	requireAuth := middleware.Auth(cfg.Users.Resolve)
	optionalAuth := middleware.OptionalAuth(cfg.Users.Resolve)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints. Registration is a multipart form, and
		// refresh usually arrives with nothing but a cookie, so only
		// login demands a JSON body.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.With(ContentTypeJSON).Post("/auth/login", authHandler.Login)

		// Authenticated session endpoints.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/auth/logout", authHandler.Logout)
			r.With(ContentTypeJSON).Post("/auth/change-password", authHandler.ChangePassword)
		})

		// Public browsing. The viewer's identity, when present, widens
		// what they can see.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/videos", videoHandler.List)
			r.Get("/videos/{videoID}", videoHandler.Get)
			r.Get("/videos/{videoID}/comments", commentHandler.ListByVideo)
			r.Get("/users/c/{username}", userHandler.ChannelProfile)
			// These responses do not vary per viewer, so browsers may
			// cache them briefly.
			cached := middleware.CacheControl(30)
			r.With(cached).Get("/tweets/user/{userID}", tweetHandler.ListByUser)
			r.Get("/playlists/{id}", playlistHandler.Get)
			r.Get("/playlists/user/{userID}", playlistHandler.ListByUser)
			r.With(cached).Get("/subscriptions/{channelID}/subscribers", subscriptionHandler.Subscribers)
		})

		// Everything below needs a logged-in user.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/users/me", userHandler.Me)
			r.With(ContentTypeJSON).Patch("/users/me", userHandler.UpdateAccount)
			r.Patch("/users/me/avatar", userHandler.UpdateAvatar)
			r.Patch("/users/me/cover-image", userHandler.UpdateCoverImage)
			r.Get("/users/me/history", userHandler.WatchHistory)

			r.Post("/videos", videoHandler.Publish)
			r.Patch("/videos/{videoID}", videoHandler.Update)
			r.Delete("/videos/{videoID}", videoHandler.Delete)
			r.Patch("/videos/{videoID}/toggle-publish", videoHandler.TogglePublish)

			r.With(ContentTypeJSON).Post("/videos/{videoID}/comments", commentHandler.Add)
			r.With(ContentTypeJSON).Patch("/comments/{id}", commentHandler.Update)
			r.Delete("/comments/{id}", commentHandler.Delete)

			r.With(ContentTypeJSON).Post("/tweets", tweetHandler.Create)
			r.With(ContentTypeJSON).Patch("/tweets/{id}", tweetHandler.Update)
			r.Delete("/tweets/{id}", tweetHandler.Delete)

			r.Post("/likes/video/{id}", likeHandler.ToggleVideo)
			r.Post("/likes/comment/{id}", likeHandler.ToggleComment)
			r.Post("/likes/tweet/{id}", likeHandler.ToggleTweet)
			r.Get("/likes/videos", likeHandler.LikedVideos)

			r.With(ContentTypeJSON).Post("/playlists", playlistHandler.Create)
			r.With(ContentTypeJSON).Patch("/playlists/{id}", playlistHandler.Update)
			r.Delete("/playlists/{id}", playlistHandler.Delete)
			r.Post("/playlists/{id}/videos/{videoID}", playlistHandler.AddVideo)
			r.Delete("/playlists/{id}/videos/{videoID}", playlistHandler.RemoveVideo)

			r.Post("/subscriptions/{channelID}", subscriptionHandler.Toggle)
			r.Get("/subscriptions/me", subscriptionHandler.Subscribed)

			r.Get("/dashboard/stats", dashboardHandler.Stats)
			r.Get("/dashboard/videos", dashboardHandler.Videos)
		})
	})

	return r
}
