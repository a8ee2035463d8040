package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"trade-journal-go/internal/analytics"
	"trade-journal-go/internal/importer"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/storage"
)

// TradeHandler holds dependencies for the trade and stats endpoints.
type TradeHandler struct {
	logger    *zap.Logger
	service   *journal.Service
	importer  *importer.Importer
	analytics *analytics.Engine
	validate  *validator.Validate
	maxUpload int64
}

// NewTradeHandler creates a handler around the journal service, importer
// and analytics engine.
func NewTradeHandler(logger *zap.Logger, service *journal.Service, imp *importer.Importer, eng *analytics.Engine, maxUpload int64) *TradeHandler {
	return &TradeHandler{
		logger:    logger,
		service:   service,
		importer:  imp,
		analytics: eng,
		validate:  validator.New(),
		maxUpload: maxUpload,
	}
}

// TradeRoutes returns the /trades subrouter.
func (h *TradeHandler) TradeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.createTrade)
	r.Get("/", h.listTrades)
	r.Post("/import", h.importTrades)
	r.Delete("/all/clear", h.clearTrades)
	r.Get("/{id}", h.getTrade)
	r.Put("/{id}", h.updateTrade)
	r.Put("/{id}/close", h.closeTrade)
	r.Delete("/{id}", h.deleteTrade)
	return r
}

// StatsRoutes returns the /stats subrouter.
func (h *TradeHandler) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.stats)
	r.Get("/equity-curve", h.equityCurve)
	r.Get("/performance-by-day", h.performanceByDay)
	r.Get("/performance-by-hour", h.performanceByHour)
	r.Get("/daily-pnl", h.dailyPnl)
	r.Get("/direction-performance", h.directionPerformance)
	return r
}

func (h *TradeHandler) tradeID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid trade id: %w", err)
	}
	return uint(id), nil
}

// renderServiceError maps storage errors onto HTTP responses.
func (h *TradeHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		render.Render(w, r, errNotFound())
		return
	}
	h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	render.Render(w, r, errInternal(err))
}

func (h *TradeHandler) createTrade(w http.ResponseWriter, r *http.Request) {
	var in journal.TradeInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}

	trade, err := h.service.Create(in)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, trade)
}

func (h *TradeHandler) listTrades(w http.ResponseWriter, r *http.Request) {
	skip := intQuery(r, "skip", 0)
	limit := intQuery(r, "limit", 100)

	trades, err := h.service.List(skip, limit)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, trades)
}

func (h *TradeHandler) getTrade(w http.ResponseWriter, r *http.Request) {
	id, err := h.tradeID(r)
	if err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	trade, err := h.service.Get(id)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, trade)
}

func (h *TradeHandler) updateTrade(w http.ResponseWriter, r *http.Request) {
	id, err := h.tradeID(r)
	if err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	var upd journal.TradeUpdate
	if err := render.DecodeJSON(r.Body, &upd); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(upd); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}

	trade, err := h.service.Update(id, upd)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, trade)
}

func (h *TradeHandler) closeTrade(w http.ResponseWriter, r *http.Request) {
	id, err := h.tradeID(r)
	if err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	exitPrice, err := strconv.ParseFloat(r.URL.Query().Get("exit_price"), 64)
	if err != nil {
		render.Render(w, r, errInvalidRequest(fmt.Errorf("invalid exit_price: %w", err)))
		return
	}

	trade, err := h.service.Close(id, exitPrice)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, trade)
}

func (h *TradeHandler) deleteTrade(w http.ResponseWriter, r *http.Request) {
	id, err := h.tradeID(r)
	if err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	trade, err := h.service.Delete(id)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, trade)
}

func (h *TradeHandler) clearTrades(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.DeleteAll(); err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"message": "All trades cleared successfully"})
}

func (h *TradeHandler) importTrades(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, errInvalidRequest(fmt.Errorf("missing file upload: %w", err)))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		render.Render(w, r, errInvalidRequest(fmt.Errorf("failed to read upload: %w", err)))
		return
	}

	count, err := h.importer.Import(data, header.Filename)
	if err != nil {
		// Format and processing failures alike reject the whole file
		// with the cause in the body.
		render.Render(w, r, errInvalidRequest(err))
		return
	}

	render.JSON(w, r, map[string]any{
		"message":        fmt.Sprintf("Successfully imported %d trades", count),
		"imported_count": count,
	})
}

func (h *TradeHandler) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.analytics.Summary()
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, s)
}

func (h *TradeHandler) equityCurve(w http.ResponseWriter, r *http.Request) {
	curve, err := h.analytics.EquityCurve()
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, curve)
}

func (h *TradeHandler) performanceByDay(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.PerformanceByDay()
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func (h *TradeHandler) performanceByHour(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.PerformanceByHour()
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func (h *TradeHandler) dailyPnl(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.DailyPnl()
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func (h *TradeHandler) directionPerformance(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.DirectionPerformance()
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
