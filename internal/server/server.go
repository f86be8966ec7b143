// Package server exposes the comparison engine over HTTP and serves the
// parameter page.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/iwvelando/heating-compare/internal/comparison"
	"github.com/iwvelando/heating-compare/internal/config"
	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/metrics"
	"github.com/iwvelando/heating-compare/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

// CalculationIDHeader carries the identifier logged with each calculation.
const CalculationIDHeader = "X-Calculation-ID"

// Options tunes the handler. Zero values fall back to defaults.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	Metrics        *metrics.Collector
}

type handler struct {
	logger        *zap.Logger
	metrics       *metrics.Collector
	maxUploadSize int64
	version       string
	page          *template.Template
	schema        map[string]interface{}
}

// pageField is one input of the parameter form.
type pageField struct {
	Name  string
	Value string
	Step  string
}

type pageData struct {
	Version string
	Fields  []pageField
}

type errorResponse struct {
	Error      string                  `json:"error"`
	Violations []validation.FieldError `json:"violations,omitempty"`
}

// NewHandler constructs the HTTP handler that serves the page and comparison API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(constants.MetricsNamespace)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	page, err := template.ParseFS(staticFiles, "static/index.html")
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded page template: %v", err))
	}

	h := &handler{
		logger:        logger,
		metrics:       opts.Metrics,
		maxUploadSize: opts.MaxUploadSize,
		version:       version,
		page:          page,
		schema:        config.Schema(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{CalculationIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", h.handleIndex)
	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/defaults", h.handleDefaults)
		r.Get("/version", h.handleVersion)
		r.Post("/calculate", h.handleCalculate)
		r.Post("/calculate/upload", h.handleCalculateUpload)
		r.Post("/parameters/export", h.handleParametersExport)
	})

	return r
}

// unmatchedRoute labels requests no route matched, keeping the raw path
// out of metric labels.
const unmatchedRoute = "unmatched"

func (h *handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		elapsed := time.Since(start)
		h.metrics.RecordAPIRequest(route, r.Method, strconv.Itoa(ww.Status()), elapsed)

		h.logger.Debug("http request",
			zap.String("op", "server.request"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", elapsed),
			zap.String("requestId", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	defaults := config.Defaults()
	values := defaults.Map()

	data := pageData{Version: h.version}
	for _, name := range config.FieldNames() {
		field := pageField{Name: name, Value: fmt.Sprint(values[name]), Step: "any"}
		if name == config.AnalysisYearsField {
			field.Step = "1"
		}
		data.Fields = append(data.Fields, field)
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render page: %v", err), "server.handleIndex")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, config.Defaults())
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	params, ok := h.decodeParameters(w, r, op)
	if !ok {
		return
	}
	h.runCalculation(w, params, op)
}

func (h *handler) handleCalculateUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculateUpload"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing parameter file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			h.respondValidationError(w, h.logger, verr, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runCalculation(w, cfg.Parameters, op)
}

func (h *handler) handleParametersExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleParametersExport"

	params, ok := h.decodeParameters(w, r, op)
	if !ok {
		return
	}

	yamlBytes, err := yaml.Marshal(config.Configuration{Parameters: params})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode parameters: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"parametersYaml": string(yamlBytes),
	})
}

// decodeParameters reads a JSON object over the default parameter set. It
// writes the error response itself and reports whether decoding succeeded.
func (h *handler) decodeParameters(w http.ResponseWriter, r *http.Request, op string) (config.Parameters, bool) {
	params := config.Defaults()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("payload exceeds limit of %d bytes", h.maxUploadSize), op)
			return params, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read payload: %v", err), op)
		return params, false
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return params, true
	}

	if err := validation.ValidateDocument(h.schema, body); err != nil {
		h.metrics.RecordAPIError("schema", op)
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return params, false
	}

	if err := json.Unmarshal(body, &params); err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			h.respondValidationError(w, h.logger, verr, op)
			return params, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode parameters: %v", err), op)
		return params, false
	}
	return params, true
}

// respondValidationError answers 422 with every violation.
func (h *handler) respondValidationError(w http.ResponseWriter, logger *zap.Logger, verr *validation.ValidationError, op string) {
	h.metrics.RecordAPIError("validation", op)
	h.metrics.RecordValidationFailures(verr.Fields())
	logger.Info("parameters rejected",
		zap.String("op", op),
		zap.Strings("fields", verr.Fields()),
	)
	h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:      verr.Error(),
		Violations: verr.Violations,
	})
}

func (h *handler) runCalculation(w http.ResponseWriter, params config.Parameters, op string) {
	calculationID := uuid.NewString()
	w.Header().Set(CalculationIDHeader, calculationID)
	logger := h.logger.With(zap.String("calculationId", calculationID))

	timer := h.metrics.NewTimer(h.metrics.CalculationDuration)
	results, err := comparison.ComputeResults(logger, params)
	elapsed := timer.ObserveDuration()

	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			h.respondValidationError(w, logger, verr, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute comparison: %v", err), op)
		return
	}

	cfg := config.Configuration{Parameters: params}
	for _, warning := range cfg.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", op),
		)
	}

	h.metrics.RecordCalculation(params.AnalysisYears)
	logger.Info("comparison completed",
		zap.String("op", op),
		zap.Int("years", params.AnalysisYears),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, results)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("comparison request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
