package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// CreateItemCommand represents the command to create a new inventory item
type CreateItemCommand struct {
	SKU               string
	Barcode           *string
	Name              string
	Description       string
	CategoryID        uint
	CostPrice         float64
	SalePrice         float64
	Currency          string
	StockQuantity     int
	MinStockLevel     int
	UnitOfMeasure     string
	ConversionFactors map[string]float64
	Attributes        map[string]interface{}
	Tags              []string
	CreatedBy         string
}

// CreateItemHandler handles item creation command
type CreateItemHandler struct {
	repo       domain.ItemRepository
	categories categorydomain.CategoryRepository
	rules      domain.BarcodeRules
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(repo domain.ItemRepository, categories categorydomain.CategoryRepository) *CreateItemHandler {
	return &CreateItemHandler{repo: repo, categories: categories, rules: domain.DefaultBarcodeRules}
}

// Handle executes the create item command. All validation rules are checked
// and every violation is reported, not just the first.
func (h *CreateItemHandler) Handle(cmd CreateItemCommand) (*domain.InventoryItem, error) {
	var violations []string

	if cmd.Name == "" {
		violations = append(violations, "item name is required")
	}
	if cmd.CostPrice < 0 {
		violations = append(violations, "cost_price cannot be negative")
	}
	if cmd.SalePrice < 0 {
		violations = append(violations, "sale_price cannot be negative")
	}
	if cmd.StockQuantity < 0 {
		violations = append(violations, "stock_quantity cannot be negative")
	}
	if cmd.MinStockLevel < 0 {
		violations = append(violations, "min_stock_level cannot be negative")
	}
	for unit, factor := range cmd.ConversionFactors {
		if factor <= 0 {
			violations = append(violations, fmt.Sprintf("conversion factor for unit '%s' must be positive", unit))
		}
	}

	violations = append(violations, domain.ValidateSKUFormat(cmd.SKU)...)
	if cmd.SKU != "" {
		if existing, err := h.repo.FindBySKU(cmd.SKU); err == nil && existing != nil {
			violations = append(violations, fmt.Sprintf("sku '%s' already exists", cmd.SKU))
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check sku uniqueness: %w", err)
		}
	}

	if cmd.Barcode != nil {
		violations = append(violations, domain.ValidateBarcodeFormat(*cmd.Barcode, h.rules)...)
		if existing, err := h.repo.FindByBarcode(*cmd.Barcode); err == nil && existing != nil {
			violations = append(violations, fmt.Sprintf("barcode '%s' already exists", *cmd.Barcode))
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check barcode uniqueness: %w", err)
		}
	}

	category, err := h.categories.FindByID(cmd.CategoryID)
	if err != nil {
		return nil, apperrors.NewNotFound("category", cmd.CategoryID)
	}
	if !category.IsActive {
		violations = append(violations, "category is inactive")
	}
	violations = append(violations, domain.ValidateAttributes(category.AttributeSchema, cmd.Attributes)...)

	if len(violations) > 0 {
		return nil, apperrors.NewValidation(violations...)
	}

	if cmd.Currency == "" {
		cmd.Currency = "USD"
	}
	if cmd.UnitOfMeasure == "" {
		cmd.UnitOfMeasure = "pcs"
	}

	item := &domain.InventoryItem{
		SKU:               cmd.SKU,
		Barcode:           cmd.Barcode,
		Name:              cmd.Name,
		Description:       cmd.Description,
		CategoryID:        cmd.CategoryID,
		BusinessType:      category.BusinessType,
		CostPrice:         cmd.CostPrice,
		SalePrice:         cmd.SalePrice,
		Currency:          cmd.Currency,
		StockQuantity:     0,
		MinStockLevel:     cmd.MinStockLevel,
		UnitOfMeasure:     cmd.UnitOfMeasure,
		ConversionFactors: cmd.ConversionFactors,
		Attributes:        cmd.Attributes,
		Tags:              cmd.Tags,
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := h.repo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	// Opening stock enters through the ledger so the balance always
	// reconciles against the movement sum
	if cmd.StockQuantity > 0 {
		newQuantity, err := h.repo.AdjustStock(&domain.InventoryMovement{
			ItemID:        item.ID,
			Type:          domain.MovementAdjustment,
			QuantityDelta: cmd.StockQuantity,
			UnitCost:      cmd.CostPrice,
			ReferenceType: "initial_stock",
			CreatedBy:     cmd.CreatedBy,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record opening stock: %w", err)
		}
		item.StockQuantity = newQuantity
	}

	return item, nil
}
