package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	chatHandler "github.com/cistcor/cistbot/backend/internal/handler/chat"
	middlewarePkg "github.com/cistcor/cistbot/backend/internal/middleware"
	chatService "github.com/cistcor/cistbot/backend/internal/service/chat"
	"github.com/cistcor/cistbot/backend/pkg/utils"
)

// RouterConfig carries the HTTP-surface settings the router needs.
type RouterConfig struct {
	AllowedOrigin string
	RateLimit     int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.SecureHeaders)

	allowedOrigins := []string{"*"}
	if cfg.AllowedOrigin != "" {
		allowedOrigins = []string{cfg.AllowedOrigin}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(httprate.Limit(
		cfg.RateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.RespondError(w, http.StatusTooManyRequests, "Demasiadas solicitudes, intenta más tarde.")
		}),
	))

	r.Get("/health", handleHealth)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(chatSvc).RegisterRoutes(api)
	})

	return r
}

// handleHealth is synchronous and side-effect-free.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
