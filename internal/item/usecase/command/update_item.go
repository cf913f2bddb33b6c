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

// UpdateItemCommand represents the command to update an item. Nil fields are
// left unchanged. Stock is not updatable here; it only moves through
// adjustments.
type UpdateItemCommand struct {
	ItemID            uint
	Name              *string
	Description       *string
	Barcode           *string
	CategoryID        *uint
	CostPrice         *float64
	SalePrice         *float64
	Currency          *string
	MinStockLevel     *int
	UnitOfMeasure     *string
	ConversionFactors map[string]float64
	Attributes        map[string]interface{}
	Tags              []string
}

// UpdateItemHandler handles item update command
type UpdateItemHandler struct {
	repo       domain.ItemRepository
	categories categorydomain.CategoryRepository
	rules      domain.BarcodeRules
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(repo domain.ItemRepository, categories categorydomain.CategoryRepository) *UpdateItemHandler {
	return &UpdateItemHandler{repo: repo, categories: categories, rules: domain.DefaultBarcodeRules}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(cmd UpdateItemCommand) (*domain.InventoryItem, error) {
	item, err := h.repo.FindByID(cmd.ItemID)
	if err != nil {
		return nil, apperrors.NewNotFound("item", cmd.ItemID)
	}

	var violations []string

	if cmd.Name != nil {
		if *cmd.Name == "" {
			violations = append(violations, "item name must not be empty")
		} else {
			item.Name = *cmd.Name
		}
	}
	if cmd.Description != nil {
		item.Description = *cmd.Description
	}
	if cmd.CostPrice != nil {
		if *cmd.CostPrice < 0 {
			violations = append(violations, "cost_price cannot be negative")
		} else {
			item.CostPrice = *cmd.CostPrice
		}
	}
	if cmd.SalePrice != nil {
		if *cmd.SalePrice < 0 {
			violations = append(violations, "sale_price cannot be negative")
		} else {
			item.SalePrice = *cmd.SalePrice
		}
	}
	if cmd.Currency != nil {
		item.Currency = *cmd.Currency
	}
	if cmd.MinStockLevel != nil {
		if *cmd.MinStockLevel < 0 {
			violations = append(violations, "min_stock_level cannot be negative")
		} else {
			item.MinStockLevel = *cmd.MinStockLevel
		}
	}
	if cmd.UnitOfMeasure != nil {
		item.UnitOfMeasure = *cmd.UnitOfMeasure
	}
	if cmd.ConversionFactors != nil {
		for unit, factor := range cmd.ConversionFactors {
			if factor <= 0 {
				violations = append(violations, fmt.Sprintf("conversion factor for unit '%s' must be positive", unit))
			}
		}
		item.ConversionFactors = cmd.ConversionFactors
	}
	if cmd.Tags != nil {
		item.Tags = cmd.Tags
	}

	if cmd.Barcode != nil && (item.Barcode == nil || *cmd.Barcode != *item.Barcode) {
		violations = append(violations, domain.ValidateBarcodeFormat(*cmd.Barcode, h.rules)...)
		if existing, err := h.repo.FindByBarcode(*cmd.Barcode); err == nil && existing != nil && existing.ID != item.ID {
			violations = append(violations, fmt.Sprintf("barcode '%s' already exists", *cmd.Barcode))
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check barcode uniqueness: %w", err)
		}
		item.Barcode = cmd.Barcode
	}

	category, err := h.categories.FindByID(item.CategoryID)
	if cmd.CategoryID != nil && *cmd.CategoryID != item.CategoryID {
		category, err = h.categories.FindByID(*cmd.CategoryID)
		if err != nil {
			return nil, apperrors.NewNotFound("category", *cmd.CategoryID)
		}
		if !category.IsActive {
			violations = append(violations, "category is inactive")
		}
		item.CategoryID = *cmd.CategoryID
		item.BusinessType = category.BusinessType
	} else if err != nil {
		return nil, apperrors.NewNotFound("category", item.CategoryID)
	}

	if cmd.Attributes != nil {
		violations = append(violations, domain.ValidateAttributes(category.AttributeSchema, cmd.Attributes)...)
		item.Attributes = cmd.Attributes
	}

	if len(violations) > 0 {
		return nil, apperrors.NewValidation(violations...)
	}

	item.UpdatedAt = time.Now()
	if err := h.repo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}
