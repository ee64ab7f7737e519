package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

// Config holds what the router needs to serve the API.
type Config struct {
	DB             *sql.DB
	Items          *store.Store
	JWTSecret      string
	ThumbCacheSize int
	// Now stamps new items. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)

	authHandler := &AuthHandler{DB: cfg.DB, JWTSecret: cfg.JWTSecret}
	usersHandler := &UsersHandler{DB: cfg.DB}
	itemsHandler := &ItemsHandler{Items: cfg.Items, Thumbs: NewThumbnailCache(cfg.ThumbCacheSize), Now: cfg.Now}
	statsHandler := &StatsHandler{Items: cfg.Items}
	dataHandler := &DataHandler{Items: cfg.Items}

	r.Get("/healthz", healthz(cfg.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public: login.
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.JWTSecret, cfg.DB))

			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/auth/password", authHandler.ChangePassword)

			// Reads (all roles).
			r.Get("/items", itemsHandler.List)
			r.Get("/items/{id}", itemsHandler.Get)
			r.Get("/items/{id}/image", itemsHandler.GetImage)
			r.Get("/items/{id}/thumbnail", itemsHandler.Thumbnail)
			r.Get("/collection", itemsHandler.Collection)
			r.Get("/wishlist", itemsHandler.Wishlist)
			r.Get("/stats", statsHandler.Get)
			r.Get("/export", dataHandler.Export)
			r.Get("/profile", dataHandler.GetProfile)

			// Writes (owner only).
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleOwner))

				r.Post("/items", itemsHandler.Create)
				r.Put("/items/{id}", itemsHandler.Update)
				r.Delete("/items/{id}", itemsHandler.Delete)
				r.Post("/items/{id}/collect", itemsHandler.Collect)
				r.Put("/items/{id}/image", itemsHandler.UploadImage)
				r.Delete("/items/{id}/image", itemsHandler.DeleteImage)
				r.Post("/wishlist", itemsHandler.AddToWishlist)
				r.Post("/import", dataHandler.Import)
				r.Delete("/data", dataHandler.Clear)
				r.Put("/profile", dataHandler.UpdateProfile)

				r.Get("/users", usersHandler.List)
				r.Post("/users", usersHandler.Create)
				r.Delete("/users/{id}", usersHandler.Delete)
			})
		})
	})

	return r
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
