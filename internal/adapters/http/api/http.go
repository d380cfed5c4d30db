// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/brent/internal/adapters/http/charts"
	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/markdown"
	"github.com/okian/brent/internal/notebook"
	"github.com/okian/brent/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// View derives the filtered price view and the range-independent event panels.
	View(ctx context.Context, sel service.Selection) (*service.View, error)

	// Events returns the event panels alone.
	Events(ctx context.Context) (*service.EventPanels, error)
}

// DefaultAssetsHost serves echarts.min.js when no other host is configured.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Server wires HTTP routes for the dashboard and its data API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dataHandler      *DataHandler
	exportHandler    *ExportHandler
	notebookHandler  *NotebookHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
// It fails when the dashboard's About markdown cannot be rendered.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	cfg := settings{
		logger:         logger.Nop(),
		charts:         charts.Options{AssetsHost: DefaultAssetsHost},
		notebook:       notebook.Initial,
		renderMarkdown: markdown.HTML,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	dashboard, err := newDashboardHandler(deps, cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dataHandler:      NewDataHandler(deps, cfg.logger),
		exportHandler:    NewExportHandler(deps, cfg.logger),
		notebookHandler:  NewNotebookHandler(cfg.notebook, cfg.logger),
		dashboardHandler: dashboard,
	}, nil
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/prices", MetricsMiddleware(s.dataHandler.HandlePrices, "prices"))
	mux.HandleFunc("/api/events", MetricsMiddleware(s.dataHandler.HandleEvents, "events"))
	mux.HandleFunc("/api/impact", MetricsMiddleware(s.dataHandler.HandleImpact, "impact"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.dataHandler.HandleSummary, "summary"))
	mux.HandleFunc("/export/prices.xlsx", MetricsMiddleware(s.exportHandler.HandleXLSX, "export_xlsx"))
	mux.HandleFunc("/export/prices.csv", MetricsMiddleware(s.exportHandler.HandleCSV, "export_csv"))
	mux.HandleFunc("/notebook", MetricsMiddleware(s.notebookHandler.HandlePreview, "notebook"))
	mux.HandleFunc("/notebook.ipynb", MetricsMiddleware(s.notebookHandler.HandleDownload, "notebook_download"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// Error codes carried in errorResponse.
const (
	codeBadRequest = "bad_request"
	codeLoadFailed = "load_failed"
	codeInternal   = "internal_error"
)

// writeViewError maps a failure from Dependencies to a JSON error.
func writeViewError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, codeLoadFailed, err)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return false
	}
	return true
}
