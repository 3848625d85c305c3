package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"vidstream/internal/handler"
	"vidstream/internal/httputil"
	authmw "vidstream/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ChannelHandler *handler.ChannelHandler
	VideoHandler   *handler.VideoHandler
	Authenticator  authmw.TokenAuthenticator
	CORSOrigin     string
	Logger         *zap.Logger
}

// NewRouter creates and configures the Chi router with all route groups.
// Everything except register/login/refresh sits behind the access-token
// middleware.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(authmw.RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(authmw.CORS(cfg.CORSOrigin))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Public routes - no authentication required
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh-token", cfg.AuthHandler.Refresh)

			// Secured routes
			r.Group(func(r chi.Router) {
				r.Use(authmw.Auth(cfg.Authenticator))

				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Post("/change-password", cfg.AuthHandler.ChangePassword)
				r.Get("/current-user", cfg.UserHandler.CurrentUser)
				r.Patch("/update-account", cfg.UserHandler.UpdateAccount)
				r.Patch("/avatar", cfg.UserHandler.UpdateAvatar)
				r.Patch("/cover-image", cfg.UserHandler.UpdateCoverImage)

				r.Get("/c/{username}", cfg.ChannelHandler.GetProfile)
				r.Post("/c/{username}/subscribe", cfg.ChannelHandler.Subscribe)
				r.Delete("/c/{username}/subscribe", cfg.ChannelHandler.Unsubscribe)
				r.Get("/history", cfg.ChannelHandler.GetWatchHistory)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.Auth(cfg.Authenticator))

			r.Post("/videos", cfg.VideoHandler.Publish)
			r.Get("/videos/{id}", cfg.VideoHandler.Get)
		})
	})

	return r
}
