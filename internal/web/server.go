package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"trade-journal-go/internal/analytics"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/importer"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/storage"
)

// NewRouter wires the storage, journal, import and analytics components
// into the HTTP surface.
func NewRouter(cfg *config.Config, logger *zap.Logger, db *gorm.DB) chi.Router {
	store := storage.NewTradeStore(db)
	service := journal.NewService(store, logger)
	imp := importer.New(store, logger)
	eng := analytics.NewEngine(store)
	handler := NewTradeHandler(logger, service, imp, eng, cfg.Import.MaxUploadBytes)

	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors)
	r.Use(rateLimit(limiter))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	r.Mount("/trades", handler.TradeRoutes())
	r.Mount("/stats", handler.StatsRoutes())

	return r
}
