package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Handlers bundles everything the router mounts when the database is
// configured. A nil Handlers means the service runs in unavailable mode:
// every data-touching route answers with a configuration error while /health
// and /api/ping keep working.
type Handlers struct {
	Auth    *AuthHandler
	Store   *StoreHandler
	Product *ProductHandler
	Order   *OrderHandler
	WS      *WSHandler
}

type RouterConfig struct {
	Handlers *Handlers
	// PhotosDir, when set, is served publicly under /photos/.
	PhotosDir string
	RateRPS   float64
	RateBurst int
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.AllowAll().Handler)

	if cfg.RateRPS > 0 {
		limiter := NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
		router.Use(limiter.Limit)
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	available := cfg.Handlers != nil

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"database":  available,
			})
		})

		if !available {
			r.NotFound(handleUnavailable)
			r.MethodNotAllowed(handleUnavailable)
			return
		}

		cfg.Handlers.Auth.RegisterRoutes(r)
		cfg.Handlers.Store.RegisterRoutes(r)
		cfg.Handlers.Product.RegisterRoutes(r)
		cfg.Handlers.Order.RegisterRoutes(r)
		cfg.Handlers.WS.RegisterRoutes(r)
	})

	if cfg.PhotosDir != "" {
		fs := http.StripPrefix("/photos/", http.FileServer(http.Dir(cfg.PhotosDir)))
		router.Handle("/photos/*", fs)
	}

	return router
}

// handleUnavailable is the single place the missing-database condition turns
// into a response, instead of a nil check scattered per call site.
func handleUnavailable(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusInternalServerError, "database configuration missing")
}
