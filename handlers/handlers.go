// Package handlers exposes the analyses over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jalad-shrimali/cdr-analyst/analysis"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// Analyzer runs the analyses over an export stored on disk.
type Analyzer interface {
	AnalyzeBTS(ctx context.Context, path, target, carrier string) ([]cdr.BTSMatch, error)
	AnalyzeFrequency(ctx context.Context, path, target, carrier string, k int) (*analysis.FrequencyResult, error)
	Analyze(ctx context.Context, path, target, carrier string, k int) (*analysis.Report, error)
}

// Config locates uploads and reports on disk.
type Config struct {
	UploadDir      string
	ReportDir      string
	TopK           int
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Handler serves the analysis API.
type Handler struct {
	svc     Analyzer
	cfg     Config
	logger  *slog.Logger
	metrics http.Handler
	now     func() time.Time
}

type Option func(*Handler)

// WithMetricsHandler replaces the default Prometheus handler on /metrics.
func WithMetricsHandler(mh http.Handler) Option {
	return func(h *Handler) {
		h.metrics = mh
	}
}

// New creates a Handler.
func New(svc Analyzer, cfg Config, logger *slog.Logger, opts ...Option) *Handler {
	if cfg.TopK <= 0 {
		cfg.TopK = analysis.DefaultTopK
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 64 << 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{svc: svc, cfg: cfg, logger: logger, metrics: promhttp.Handler(), now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/", h.handleIndex)
	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", h.metrics)
	r.Handle("/download/*", http.StripPrefix("/download/", http.FileServer(http.Dir(h.cfg.ReportDir))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(h.cfg.RequestTimeout))
		r.Post("/analizar-bts", h.handleBTS)
		r.Post("/analizar-contactos-frecuentes", h.handleContacts)
		r.Post("/upload", h.handleUpload)
	})
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.InfoContext(r.Context(), "request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

/* ──────────── request / response shapes ──────────── */

type analysisRequest struct {
	File    string `json:"archivo_excel"`
	Number  string `json:"numero_buscar"`
	Carrier string `json:"operador"`
	Top     int    `json:"top,omitempty"`
}

type btsResponse struct {
	Success   bool           `json:"success"`
	Data      []cdr.BTSMatch `json:"data"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
}

type contactsResponse struct {
	Success     bool                   `json:"success"`
	RawData     []cdr.Record           `json:"datos_crudos"`
	TopContacts []cdr.ContactFrequency `json:"top_10_contactos"`
	Error       string                 `json:"error,omitempty"`
	Timestamp   string                 `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps analysis errors onto HTTP: the caller's input was wrong
// (400) or something failed on our side (500).
func statusFor(err error) int {
	var (
		unsupported *cdr.UnsupportedCarrierError
		missing     *cdr.MissingSheetError
		readErr     *cdr.SourceReadError
	)
	switch {
	case errors.As(err, &unsupported), errors.As(err, &missing), errors.As(err, &readErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *Handler) timestamp() string { return h.now().Format(time.RFC3339) }

/* ──────────── handlers ──────────── */

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "cdr-analyst",
		"endpoints": []string{
			"POST /analizar-bts",
			"POST /analizar-contactos-frecuentes",
			"POST /upload",
			"GET /download/{file}",
			"GET /health",
			"GET /metrics",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": h.timestamp()})
}

// decodeAnalysis reads and validates an analysis request, resolving the file
// inside the upload directory.
func (h *Handler) decodeAnalysis(r *http.Request) (analysisRequest, string, error) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, "", fmt.Errorf("invalid request body: %w", err)
	}
	req.File = strings.TrimSpace(req.File)
	switch {
	case req.File == "":
		return req, "", errors.New("archivo_excel is required")
	case cdr.CleanNumber(req.Number) == "":
		return req, "", errors.New("numero_buscar is required")
	case strings.TrimSpace(req.Carrier) == "":
		return req, "", errors.New("operador is required")
	}
	path, err := h.uploadPath(req.File)
	if err != nil {
		return req, "", err
	}
	return req, path, nil
}

func (h *Handler) uploadPath(name string) (string, error) {
	name = filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("archivo_excel %q must be a file inside the upload directory", name)
	}
	path := filepath.Join(h.cfg.UploadDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("archivo excel no encontrado: %s", name)
	}
	return path, nil
}

func (h *Handler) handleBTS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, path, err := h.decodeAnalysis(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, btsResponse{Error: err.Error(), Timestamp: h.timestamp()})
		return
	}

	matches, err := h.svc.AnalyzeBTS(ctx, path, req.Number, req.Carrier)
	if err != nil {
		h.logger.WarnContext(ctx, "bts analysis failed",
			"request_id", middleware.GetReqID(ctx), "file", req.File, "carrier", req.Carrier, "error", err)
		writeJSON(w, statusFor(err), btsResponse{
			Error:     "Error al analizar archivo BTS: " + err.Error(),
			Timestamp: h.timestamp(),
		})
		return
	}
	writeJSON(w, http.StatusOK, btsResponse{Success: true, Data: matches, Timestamp: h.timestamp()})
}

func (h *Handler) handleContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, path, err := h.decodeAnalysis(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, contactsResponse{Error: err.Error(), Timestamp: h.timestamp()})
		return
	}
	k := req.Top
	if k <= 0 {
		k = h.cfg.TopK
	}

	res, err := h.svc.AnalyzeFrequency(ctx, path, req.Number, req.Carrier, k)
	if err != nil {
		h.logger.WarnContext(ctx, "frequency analysis failed",
			"request_id", middleware.GetReqID(ctx), "file", req.File, "carrier", req.Carrier, "error", err)
		writeJSON(w, statusFor(err), contactsResponse{
			Error:     "Error al analizar contactos frecuentes: " + err.Error(),
			Timestamp: h.timestamp(),
		})
		return
	}
	writeJSON(w, http.StatusOK, contactsResponse{
		Success:     true,
		RawData:     res.RawSample,
		TopContacts: res.TopContacts,
		Timestamp:   h.timestamp(),
	})
}
