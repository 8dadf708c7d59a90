package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/courtvision/player-summary/internal/view"
)

// ViewSource exposes the state of the player summary view
type ViewSource interface {
	State() view.State
	Snapshot() view.Snapshot
}

type Config struct {
	View           ViewSource
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Handler struct {
	view           ViewSource
	allowedOrigins []string
	logger         *zap.SugaredLogger
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		view:           cfg.View,
		allowedOrigins: cfg.AllowedOrigins,
		logger:         logger.Sugar(),
	}
}

// Routes builds the ops router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/player-summary", h.GetPlayerSummary)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.errorResponse(w, http.StatusNotFound, "Not found")
	})

	return r
}
