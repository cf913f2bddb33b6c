package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	alertdomain "github.com/gemdesk/inventory-service/internal/alert/domain"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/internal/item/usecase/command"
	"github.com/gemdesk/inventory-service/internal/item/usecase/query"
	"github.com/gemdesk/inventory-service/kafka"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
	"github.com/gemdesk/inventory-service/pkg/logger"
)

// ItemHandler handles HTTP requests for inventory items
type ItemHandler struct {
	// Command handlers
	createHandler     *command.CreateItemHandler
	updateHandler     *command.UpdateItemHandler
	adjustHandler     *command.AdjustStockHandler
	deactivateHandler *command.DeactivateItemHandler

	// Query handlers
	searchHandler   *query.SearchItemsHandler
	getHandler      *query.GetItemHandler
	validateHandler *query.ValidateCodeHandler
	convertHandler  *query.ConvertUnitsHandler
	reconcile       *query.ReconcileHandler

	repo          domain.ItemRepository
	publisher     *kafka.Publisher
	classifierCfg alertdomain.ClassifierConfig

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	stockMovements *prometheus.CounterVec
}

// NewItemHandler creates a new item handler
func NewItemHandler(repo domain.ItemRepository, categories categorydomain.CategoryRepository, publisher *kafka.Publisher, classifierCfg alertdomain.ClassifierConfig) *ItemHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_service_requests_total",
			Help: "Total number of requests to item endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "item_service_request_duration_seconds",
			Help:    "Duration of item requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	stockMovements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_service_stock_movements_total",
			Help: "Total number of recorded stock movements",
		},
		[]string{"type"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(stockMovements)

	return &ItemHandler{
		createHandler:     command.NewCreateItemHandler(repo, categories),
		updateHandler:     command.NewUpdateItemHandler(repo, categories),
		adjustHandler:     command.NewAdjustStockHandler(repo),
		deactivateHandler: command.NewDeactivateItemHandler(repo),
		searchHandler:     query.NewSearchItemsHandler(repo, categories),
		getHandler:        query.NewGetItemHandler(repo),
		validateHandler:   query.NewValidateCodeHandler(repo),
		convertHandler:    query.NewConvertUnitsHandler(repo),
		reconcile:         query.NewReconcileHandler(repo),
		repo:              repo,
		publisher:         publisher,
		classifierCfg:     classifierCfg,
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
		stockMovements:    stockMovements,
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
func (h *ItemHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

type itemRequest struct {
	SKU               string                 `json:"sku"`
	Barcode           *string                `json:"barcode"`
	Name              string                 `json:"name"`
	Description       string                 `json:"description"`
	CategoryID        uint                   `json:"category_id"`
	CostPrice         float64                `json:"cost_price"`
	SalePrice         float64                `json:"sale_price"`
	Currency          string                 `json:"currency"`
	StockQuantity     int                    `json:"stock_quantity"`
	MinStockLevel     int                    `json:"min_stock_level"`
	UnitOfMeasure     string                 `json:"unit_of_measure"`
	ConversionFactors map[string]float64     `json:"conversion_factors"`
	Attributes        map[string]interface{} `json:"attributes"`
	Tags              []string               `json:"tags"`
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	item, err := h.createHandler.Handle(command.CreateItemCommand{
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		CostPrice:         req.CostPrice,
		SalePrice:         req.SalePrice,
		Currency:          req.Currency,
		StockQuantity:     req.StockQuantity,
		MinStockLevel:     req.MinStockLevel,
		UnitOfMeasure:     req.UnitOfMeasure,
		ConversionFactors: req.ConversionFactors,
		Attributes:        req.Attributes,
		Tags:              req.Tags,
		CreatedBy:         usernameFromContext(r),
	})
	if err != nil {
		logger.Logger.Error().Err(err).Str("sku", req.SKU).Msg("Failed to create item")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item created successfully",
		Data:    item,
	})
}

// UpdateItem handles PATCH /api/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name              *string                `json:"name"`
		Description       *string                `json:"description"`
		Barcode           *string                `json:"barcode"`
		CategoryID        *uint                  `json:"category_id"`
		CostPrice         *float64               `json:"cost_price"`
		SalePrice         *float64               `json:"sale_price"`
		Currency          *string                `json:"currency"`
		MinStockLevel     *int                   `json:"min_stock_level"`
		UnitOfMeasure     *string                `json:"unit_of_measure"`
		ConversionFactors map[string]float64     `json:"conversion_factors"`
		Attributes        map[string]interface{} `json:"attributes"`
		Tags              []string               `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	item, err := h.updateHandler.Handle(command.UpdateItemCommand{
		ItemID:            id,
		Name:              req.Name,
		Description:       req.Description,
		Barcode:           req.Barcode,
		CategoryID:        req.CategoryID,
		CostPrice:         req.CostPrice,
		SalePrice:         req.SalePrice,
		Currency:          req.Currency,
		MinStockLevel:     req.MinStockLevel,
		UnitOfMeasure:     req.UnitOfMeasure,
		ConversionFactors: req.ConversionFactors,
		Attributes:        req.Attributes,
		Tags:              req.Tags,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Uint("item_id", id).Msg("Failed to update item")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item updated successfully",
		Data:    item,
	})
}

// AdjustStock handles POST /api/items/{id}/adjust
func (h *ItemHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req struct {
		QuantityDelta int     `json:"quantity_delta"`
		Type          string  `json:"type"`
		UnitCost      float64 `json:"unit_cost"`
		ReferenceType string  `json:"reference_type"`
		ReferenceID   string  `json:"reference_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	before, err := h.repo.FindByID(id)
	if err != nil {
		respondError(w, apperrors.NewNotFound("item", id))
		return
	}
	prevLevel, prevAlerting := alertdomain.Classify(before.StockQuantity, before.MinStockLevel, h.classifierCfg)

	result, err := h.adjustHandler.Handle(command.AdjustStockCommand{
		ItemID:        id,
		QuantityDelta: req.QuantityDelta,
		Type:          req.Type,
		UnitCost:      req.UnitCost,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		CreatedBy:     usernameFromContext(r),
	})
	if err != nil {
		logger.Logger.Error().Err(err).Uint("item_id", id).Msg("Failed to adjust stock")
		respondError(w, err)
		return
	}

	h.stockMovements.WithLabelValues(req.Type).Inc()
	h.notifyLowStock(r, before, result.NewQuantity, prevLevel, prevAlerting)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock adjusted successfully",
		Data:    result,
	})
}

// notifyLowStock publishes a low stock event when the adjustment moved the
// item into a notifiable severity tier. Re-adjustments within the same tier
// stay silent.
func (h *ItemHandler) notifyLowStock(r *http.Request, item *domain.InventoryItem, newQuantity int, prevLevel alertdomain.AlertLevel, prevAlerting bool) {
	if h.publisher == nil {
		return
	}

	level, alerting := alertdomain.Classify(newQuantity, item.MinStockLevel, h.classifierCfg)
	if !alerting || !level.Notifiable() {
		return
	}
	if prevAlerting && prevLevel == level {
		return
	}

	event := kafka.LowStockAlertEvent{
		EventID:       uuid.NewString(),
		EventType:     kafka.EventTypeLowStockAlert,
		ItemID:        item.ID,
		SKU:           item.SKU,
		ItemName:      item.Name,
		CategoryID:    item.CategoryID,
		AlertLevel:    string(level),
		CurrentStock:  newQuantity,
		MinStockLevel: item.MinStockLevel,
		Shortage:      alertdomain.Shortage(newQuantity, item.MinStockLevel),
		Timestamp:     time.Now(),
	}

	if err := h.publisher.PublishLowStockAlert(r.Context(), event); err != nil {
		logger.Logger.Error().Err(err).Uint("item_id", item.ID).Msg("Failed to publish low stock event")
	}
}

// DeactivateItem handles DELETE /api/items/{id}
func (h *ItemHandler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.deactivateHandler.Handle(command.DeactivateItemCommand{ItemID: id}); err != nil {
		logger.Logger.Error().Err(err).Uint("item_id", id).Msg("Failed to deactivate item")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item deactivated successfully",
	})
}

// GetItem handles GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.getHandler.Handle(query.GetItemQuery{ItemID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// SearchItems handles POST /api/items/search
func (h *ItemHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	spec := query.FilterSpec{Limit: 50}
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.searchHandler.Handle(spec)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to search items")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ValidateSKU handles POST /api/items/validate-sku
func (h *ItemHandler) ValidateSKU(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU string `json:"sku"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.validateHandler.ValidateSKU(req.SKU)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ValidateBarcode handles POST /api/items/validate-barcode
func (h *ItemHandler) ValidateBarcode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode string `json:"barcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.validateHandler.ValidateBarcode(req.Barcode)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ConvertUnits handles POST /api/items/convert-units
func (h *ItemHandler) ConvertUnits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   uint    `json:"item_id"`
		FromUnit string  `json:"from_unit"`
		ToUnit   string  `json:"to_unit"`
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.convertHandler.Handle(query.ConvertUnitsQuery{
		ItemID:   req.ItemID,
		FromUnit: req.FromUnit,
		ToUnit:   req.ToUnit,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ReconcileItem handles GET /api/items/{id}/reconcile
func (h *ItemHandler) ReconcileItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	result, err := h.reconcile.Handle(query.ReconcileQuery{ItemID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	if !result.Consistent {
		logger.Logger.Warn().
			Uint("item_id", id).
			Int("drift", result.Drift).
			Msg("Stock drift detected during reconciliation")
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// RegisterRoutes registers all item routes
func (h *ItemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/items/search",
		h.metricsMiddleware("/api/items/search", h.SearchItems)).Methods("POST")
	router.HandleFunc("/api/items/validate-sku",
		h.metricsMiddleware("/api/items/validate-sku", h.ValidateSKU)).Methods("POST")
	router.HandleFunc("/api/items/validate-barcode",
		h.metricsMiddleware("/api/items/validate-barcode", h.ValidateBarcode)).Methods("POST")
	router.HandleFunc("/api/items/convert-units",
		h.metricsMiddleware("/api/items/convert-units", h.ConvertUnits)).Methods("POST")
	router.HandleFunc("/api/items",
		AdminMiddleware(h.metricsMiddleware("/api/items", h.CreateItem))).Methods("POST")
	router.HandleFunc("/api/items/{id}",
		h.metricsMiddleware("/api/items/{id}", h.GetItem)).Methods("GET")
	router.HandleFunc("/api/items/{id}",
		AdminMiddleware(h.metricsMiddleware("/api/items/{id}", h.UpdateItem))).Methods("PATCH")
	router.HandleFunc("/api/items/{id}",
		AdminMiddleware(h.metricsMiddleware("/api/items/{id}", h.DeactivateItem))).Methods("DELETE")
	router.HandleFunc("/api/items/{id}/adjust",
		AuthMiddleware(h.metricsMiddleware("/api/items/{id}/adjust", h.AdjustStock))).Methods("POST")
	router.HandleFunc("/api/items/{id}/reconcile",
		h.metricsMiddleware("/api/items/{id}/reconcile", h.ReconcileItem)).Methods("GET")
}

// itemID parses the {id} path variable, responding with 400 on failure
func itemID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid item ID",
		})
		return 0, false
	}
	return uint(id), true
}

// usernameFromContext returns the authenticated username, if any
func usernameFromContext(r *http.Request) string {
	if username, ok := r.Context().Value(UsernameKey).(string); ok {
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
