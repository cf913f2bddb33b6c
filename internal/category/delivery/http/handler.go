package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/category/usecase/command"
	"github.com/gemdesk/inventory-service/internal/category/usecase/query"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
	"github.com/gemdesk/inventory-service/pkg/logger"
)

// CategoryHandler handles HTTP requests for the category tree
type CategoryHandler struct {
	createHandler *command.CreateCategoryHandler
	moveHandler   *command.MoveCategoryHandler
	deleteHandler *command.DeleteCategoryHandler

	getTreeHandler *query.GetTreeHandler

	redisClient    *redis.Client
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(repo domain.CategoryRepository, items domain.ItemStatsProvider, redisClient *redis.Client) *CategoryHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_service_requests_total",
			Help: "Total number of requests to category endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "category_service_request_duration_seconds",
			Help:    "Duration of category requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CategoryHandler{
		createHandler:  command.NewCreateCategoryHandler(repo),
		moveHandler:    command.NewMoveCategoryHandler(repo),
		deleteHandler:  command.NewDeleteCategoryHandler(repo, items),
		getTreeHandler: query.NewGetTreeHandler(repo, items),
		redisClient:    redisClient,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
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
func (h *CategoryHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// GetTree handles GET /api/categories/tree
func (h *CategoryHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	q := query.GetTreeQuery{
		BusinessType:    r.URL.Query().Get("business_type"),
		IncludeStats:    r.URL.Query().Get("include_stats") == "true",
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
	}

	if raw := r.URL.Query().Get("root_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid root_id",
			})
			return
		}
		rootID := uint(id)
		q.RootID = &rootID
	}

	if raw := r.URL.Query().Get("max_depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 0 {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid max_depth",
			})
			return
		}
		q.MaxDepth = depth
	}

	tree, err := h.getTreeHandler.Handle(q)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to build category tree")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    tree,
	})
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string                 `json:"name"`
		ParentID        *uint                  `json:"parent_id"`
		BusinessType    string                 `json:"business_type"`
		AttributeSchema domain.AttributeSchema `json:"attribute_schema"`
		SortOrder       int                    `json:"sort_order"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	category, err := h.createHandler.Handle(command.CreateCategoryCommand{
		Name:            req.Name,
		ParentID:        req.ParentID,
		BusinessType:    req.BusinessType,
		AttributeSchema: req.AttributeSchema,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		respondError(w, err)
		return
	}

	h.invalidateTreeCache()
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

// MoveCategory handles PATCH /api/categories/{id}/move
func (h *CategoryHandler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid category ID",
		})
		return
	}

	var req struct {
		NewParentID *uint `json:"new_parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	category, err := h.moveHandler.Handle(command.MoveCategoryCommand{
		CategoryID:  uint(id),
		NewParentID: req.NewParentID,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("category_id", id).Msg("Failed to move category")
		respondError(w, err)
		return
	}

	h.invalidateTreeCache()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category moved successfully",
		Data:    category,
	})
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid category ID",
		})
		return
	}

	policy := domain.DeletePolicy(r.URL.Query().Get("policy"))

	if err := h.deleteHandler.Handle(command.DeleteCategoryCommand{
		CategoryID: uint(id),
		Policy:     policy,
	}); err != nil {
		logger.Logger.Error().Err(err).Uint64("category_id", id).Msg("Failed to delete category")
		respondError(w, err)
		return
	}

	h.invalidateTreeCache()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category deleted successfully",
	})
}

// invalidateTreeCache drops cached tree responses after any mutation
func (h *CategoryHandler) invalidateTreeCache() {
	if h.redisClient == nil {
		return
	}
	if err := InvalidateCache(h.redisClient, "cache:*"); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to invalidate tree cache")
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(router *mux.Router, adminOnly func(http.HandlerFunc) http.HandlerFunc) {
	getTree := h.metricsMiddleware("/api/categories/tree", h.GetTree)
	if h.redisClient != nil {
		getTree = CacheMiddleware(h.redisClient, DefaultCacheConfig(), getTree)
	}

	router.HandleFunc("/api/categories/tree", getTree).Methods("GET")
	router.HandleFunc("/api/categories",
		adminOnly(h.metricsMiddleware("/api/categories", h.CreateCategory))).Methods("POST")
	router.HandleFunc("/api/categories/{id}/move",
		adminOnly(h.metricsMiddleware("/api/categories/{id}/move", h.MoveCategory))).Methods("PATCH")
	router.HandleFunc("/api/categories/{id}",
		adminOnly(h.metricsMiddleware("/api/categories/{id}", h.DeleteCategory))).Methods("DELETE")
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsConflict(err):
		status = http.StatusConflict
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
