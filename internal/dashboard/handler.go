// Package dashboard serves the survey dashboard API over HTTP.
package dashboard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KaramelBytes/techpulse/internal/analysis"
	"github.com/KaramelBytes/techpulse/internal/filter"
	"github.com/KaramelBytes/techpulse/internal/render"
	"github.com/KaramelBytes/techpulse/internal/survey"
)

// Loader loads the canonical table for a path.
type Loader interface {
	Load(path string) (*survey.Table, error)
}

// Config carries the handler's static settings.
type Config struct {
	DataPath   string
	Analysis   analysis.Options
	Render     render.Options
	ExportName string
}

// Handler handles dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	loader  Loader
	metrics *Metrics
	cfg     Config
}

// New creates a new dashboard Handler. metrics may be nil.
func New(loader Loader, cfg Config, logger *slog.Logger, metrics *Metrics) *Handler {
	if cfg.ExportName == "" {
		cfg.ExportName = survey.DefaultExportName
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{logger: logger, loader: loader, metrics: metrics, cfg: cfg}
}

// Register registers the dashboard routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.handleOptions)
		r.Get("/metrics", h.handleMetrics)
		r.Get("/summary", h.handleSummary)
		r.Get("/report", h.handleReport)
		r.Get("/charts", h.handleCatalog)
		r.Get("/charts/{id}", h.handleChart)
		r.Get("/export.csv", h.handleExport)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type optionsResponse struct {
	filter.Options
	Rows    int    `json:"rows"`
	TableID string `json:"table_id"`
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: filter.OptionsFor(t), Rows: t.Len(), TableID: t.ID()})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.KeyMetrics(v))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.DataSummary(v, h.cfg.Analysis))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	rep := analysis.NewReport(filepath.Base(h.cfg.DataPath), v, v.Table().Len(), v.Criteria().Describe(), h.cfg.Analysis)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rep.Markdown()))
}

func (h *Handler) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analysis.Catalog())
}

// handleChart serves chart data as JSON, or as an image when the id carries
// a .png or .svg extension.
func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var format render.Format
	if ext := filepath.Ext(id); ext == ".png" || ext == ".svg" {
		format = render.Format(strings.TrimPrefix(ext, "."))
		id = strings.TrimSuffix(id, ext)
	}
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	c, err := analysis.BuildChart(v, id, h.cfg.Analysis)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if format == "" {
		writeJSON(w, http.StatusOK, c)
		return
	}
	opt := h.cfg.Render
	opt.Format = format
	img, err := render.Bytes(c, opt)
	switch {
	case errors.Is(err, render.ErrNoData):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "chart render failed", "chart", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	exportID := uuid.NewString()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.cfg.ExportName+`"`)
	w.Header().Set("X-Export-ID", exportID)
	w.WriteHeader(http.StatusOK)
	if err := survey.WriteCSV(w, v); err != nil {
		h.logger.ErrorContext(r.Context(), "export failed", "export_id", exportID, "error", err)
		return
	}
	h.logger.InfoContext(r.Context(), "export written", "export_id", exportID, "rows", v.Len(), "filters", v.Criteria().Describe())
}

// table loads the canonical table, writing the error response on failure.
func (h *Handler) table(w http.ResponseWriter, r *http.Request) (*survey.Table, bool) {
	t, err := h.loader.Load(h.cfg.DataPath)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "dataset load failed", "path", h.cfg.DataPath, "error", err)
		} else {
			h.logger.WarnContext(r.Context(), "dataset unavailable", "path", h.cfg.DataPath, "error", err)
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	return t, true
}

// view loads the table and applies the criteria from the query string.
func (h *Handler) view(w http.ResponseWriter, r *http.Request) (*filter.View, bool) {
	t, ok := h.table(w, r)
	if !ok {
		return nil, false
	}
	v := filter.Apply(t, filter.ParseQuery(r.URL.Query()))
	if h.metrics != nil {
		h.metrics.ObserveView(v.Len())
	}
	return v, true
}

// statusFor maps load errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		notFound *survey.NotFoundError
		schema   *survey.SchemaError
		parse    *survey.ParseError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &schema), errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
