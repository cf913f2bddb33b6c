package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gemdesk/inventory-service/internal/export/manager"
	itemhttp "github.com/gemdesk/inventory-service/internal/item/delivery/http"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
	"github.com/gemdesk/inventory-service/pkg/logger"
)

// ExportHandler handles HTTP requests for export jobs
type ExportHandler struct {
	manager *manager.Manager

	requestCounter *prometheus.CounterVec
	jobsSubmitted  prometheus.Counter
}

// NewExportHandler creates a new export handler
func NewExportHandler(mgr *manager.Manager) *ExportHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_service_requests_total",
			Help: "Total number of requests to export endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	jobsSubmitted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "export_service_jobs_submitted_total",
			Help: "Total number of export jobs accepted",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(jobsSubmitted)

	return &ExportHandler{
		manager:        mgr,
		requestCounter: requestCounter,
		jobsSubmitted:  jobsSubmitted,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ExportHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// SubmitExport handles POST /api/exports
func (h *ExportHandler) SubmitExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Format    string     `json:"format"`
		DataTypes []string   `json:"data_types"`
		From      *time.Time `json:"from"`
		To        *time.Time `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	submit := manager.SubmitRequest{
		Format:    req.Format,
		DataTypes: req.DataTypes,
		CreatedBy: usernameFromContext(r),
	}
	if req.From != nil {
		submit.DateRange.From = *req.From
	}
	if req.To != nil {
		submit.DateRange.To = *req.To
	}

	job, err := h.manager.Submit(submit)
	if err != nil {
		logger.Logger.Error().Err(err).Str("format", req.Format).Msg("Failed to submit export job")
		respondError(w, err)
		return
	}

	h.jobsSubmitted.Inc()
	respondJSON(w, http.StatusAccepted, Response{
		Success: true,
		Message: "Export job accepted",
		Data:    job,
	})
}

// GetExport handles GET /api/exports/{id}
func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	job, err := h.manager.Get(vars["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    job,
	})
}

// ListExports handles GET /api/exports
func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	jobs, err := h.manager.History(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list export jobs")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list export jobs",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    jobs,
	})
}

// CancelExport handles POST /api/exports/{id}/cancel
func (h *ExportHandler) CancelExport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.manager.Cancel(vars["id"]); err != nil {
		logger.Logger.Error().Err(err).Str("job_id", vars["id"]).Msg("Failed to cancel export job")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Export job cancelled",
	})
}

// RegisterRoutes registers all export routes. Artifacts under dir are served
// read-only at the download URL prefix.
func (h *ExportHandler) RegisterRoutes(router *mux.Router, adminOnly func(http.HandlerFunc) http.HandlerFunc, artifactDir string) {
	router.HandleFunc("/api/exports",
		adminOnly(h.metricsMiddleware("/api/exports", h.SubmitExport))).Methods("POST")
	router.HandleFunc("/api/exports",
		adminOnly(h.metricsMiddleware("/api/exports", h.ListExports))).Methods("GET")
	router.HandleFunc("/api/exports/{id}",
		adminOnly(h.metricsMiddleware("/api/exports/{id}", h.GetExport))).Methods("GET")
	router.HandleFunc("/api/exports/{id}/cancel",
		adminOnly(h.metricsMiddleware("/api/exports/{id}/cancel", h.CancelExport))).Methods("POST")
	router.PathPrefix("/exports/").Handler(
		http.StripPrefix("/exports/", http.FileServer(http.Dir(artifactDir))))
}

// usernameFromContext returns the authenticated username, if any
func usernameFromContext(r *http.Request) string {
	if username, ok := r.Context().Value(itemhttp.UsernameKey).(string); ok {
		return username
	}
	return ""
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsState(err):
		status = http.StatusUnprocessableEntity
	case apperrors.IsTimeout(err):
		status = http.StatusGatewayTimeout
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
