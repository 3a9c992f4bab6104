package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	eventsHandler "github.com/zhouzirui/z-movies/backend/internal/handler/events"
	movieHandler "github.com/zhouzirui/z-movies/backend/internal/handler/movie"
	middlewarePkg "github.com/zhouzirui/z-movies/backend/internal/middleware"
	"github.com/zhouzirui/z-movies/backend/internal/service/events"
	movieService "github.com/zhouzirui/z-movies/backend/internal/service/movie"
	"github.com/zhouzirui/z-movies/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(movieSvc *movieService.Service, hub *events.Hub, feed eventsHandler.Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	movieHandler.New(movieSvc, logger).RegisterRoutes(r)

	if hub != nil {
		eventsHandler.New(hub, feed, logger).RegisterRoutes(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"movies": movieSvc.Count(r.Context()),
		})
	})

	return r
}
