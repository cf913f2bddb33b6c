package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gemdesk/inventory-service/internal/alert/domain"
	"github.com/gemdesk/inventory-service/internal/alert/usecase/query"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
	"github.com/gemdesk/inventory-service/pkg/logger"
)

// AlertHandler handles HTTP requests for the low-stock alert feed
type AlertHandler struct {
	listHandler *query.ListAlertsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	lowStockItems  prometheus.Gauge
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(items itemdomain.ItemRepository, categories categorydomain.CategoryRepository, cfg domain.ClassifierConfig) *AlertHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_service_requests_total",
			Help: "Total number of requests to alert endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alert_service_request_duration_seconds",
			Help:    "Duration of alert requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	lowStockItems := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alert_service_low_stock_items",
			Help: "Number of items currently below their stock threshold",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(lowStockItems)

	return &AlertHandler{
		listHandler:    query.NewListAlertsHandler(items, categories, cfg),
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		lowStockItems:  lowStockItems,
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
func (h *AlertHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListAlerts handles GET /api/alerts/low-stock
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := query.ListAlertsQuery{
		BusinessType: r.URL.Query().Get("business_type"),
		SortBy:       r.URL.Query().Get("sort_by"),
		SortOrder:    r.URL.Query().Get("sort_order"),
	}

	if raw := r.URL.Query().Get("threshold_multiplier"); raw != "" {
		multiplier, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid threshold_multiplier",
			})
			return
		}
		q.ThresholdMultiplier = multiplier
	}

	if raw := r.URL.Query().Get("category_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, Response{
					Success: false,
					Error:   "Invalid category_ids",
				})
				return
			}
			q.CategoryIDs = append(q.CategoryIDs, uint(id))
		}
	}

	if raw := r.URL.Query().Get("levels"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			q.Levels = append(q.Levels, domain.AlertLevel(strings.TrimSpace(part)))
		}
	}

	alerts, err := h.listHandler.Handle(q)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list low stock alerts")
		respondError(w, err)
		return
	}

	// Unscoped queries reflect the whole inventory; use them to keep the
	// gauge current
	if len(q.CategoryIDs) == 0 && q.BusinessType == "" && len(q.Levels) == 0 {
		h.lowStockItems.Set(float64(len(alerts)))
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    alerts,
	})
}

// RegisterRoutes registers all alert routes
func (h *AlertHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/alerts/low-stock",
		h.metricsMiddleware("/api/alerts/low-stock", h.ListAlerts)).Methods("GET")
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
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
