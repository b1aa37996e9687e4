package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ojasva22/frontend-deployment/internal/config"
	"github.com/ojasva22/frontend-deployment/internal/guard"
	"github.com/ojasva22/frontend-deployment/internal/history"
	httpmiddleware "github.com/ojasva22/frontend-deployment/internal/http/middleware"
	"github.com/ojasva22/frontend-deployment/internal/photos"
	"github.com/ojasva22/frontend-deployment/internal/remote"
)

// Checker é uma dependência verificada por /ready.
type Checker func(ctx context.Context) error

// Dependencies reúne os colaboradores externos montados em cmd/api.
type Dependencies struct {
	Remote  remote.Client
	History history.Recorder
	Guard   guard.Guard
	Metrics *Metrics
	Checks  map[string]Checker
	Clock   photos.Clock
}

type Handler struct {
	cfg           *config.Config
	uploader      *photos.Uploader
	searcher      *photos.Searcher
	history       history.Recorder
	guard         guard.Guard
	metrics       *Metrics
	checks        map[string]Checker
	publicLimiter *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	if deps.History == nil {
		deps.History = history.Noop{}
	}
	if deps.Guard == nil {
		deps.Guard = guard.Noop{}
	}

	uploader := photos.NewUploader(deps.Remote, cfg.APIKey, log.With().Str("component", "upload").Logger())
	if deps.Clock != nil {
		uploader.WithClock(deps.Clock)
	}

	h := &Handler{
		cfg:           cfg,
		uploader:      uploader,
		searcher:      photos.NewSearcher(deps.Remote, cfg.APIKey, log.With().Str("component", "search").Logger()),
		history:       deps.History,
		guard:         deps.Guard,
		metrics:       deps.Metrics,
		checks:        deps.Checks,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	if cfg.MetricsEnabled && h.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", h.Index)
	r.Group(func(forms chi.Router) {
		forms.Use(httpmiddleware.IPRateLimit(h.publicLimiter))
		forms.Post("/upload", h.UploadPage)
		forms.Get("/search", h.SearchPage)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.CORS(cfg.AllowOrigins))
		api.Use(httpmiddleware.IPRateLimit(h.publicLimiter))
		api.Post("/upload", h.UploadAPI)
		api.Get("/search", h.SearchAPI)
		api.Get("/history", h.History)
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready executa as verificações registradas (Postgres, Redis, bucket).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failures := map[string]any{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		WriteError(w, http.StatusServiceUnavailable, CodeInternal, "dependências indisponíveis", failures)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
