package query

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gemdesk/inventory-service/internal/item/domain"
)

// CodeValidationResult reports whether a SKU or barcode may be used for a
// new item, listing every conflicting rule
type CodeValidationResult struct {
	Valid     bool     `json:"valid"`
	Conflicts []string `json:"conflicts"`
}

// ValidateCodeHandler handles pre-creation SKU and barcode validation
type ValidateCodeHandler struct {
	repo  domain.ItemRepository
	rules domain.BarcodeRules
}

// NewValidateCodeHandler creates a new validate code handler
func NewValidateCodeHandler(repo domain.ItemRepository) *ValidateCodeHandler {
	return &ValidateCodeHandler{repo: repo, rules: domain.DefaultBarcodeRules}
}

// ValidateSKU checks format and uniqueness of a SKU among active items
func (h *ValidateCodeHandler) ValidateSKU(sku string) (*CodeValidationResult, error) {
	conflicts := domain.ValidateSKUFormat(sku)

	if sku != "" {
		existing, err := h.repo.FindBySKU(sku)
		if err == nil && existing != nil {
			conflicts = append(conflicts, fmt.Sprintf("sku '%s' already used by item %d", sku, existing.ID))
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check sku uniqueness: %w", err)
		}
	}

	return &CodeValidationResult{Valid: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// ValidateBarcode checks format and uniqueness of a barcode among active items
func (h *ValidateCodeHandler) ValidateBarcode(barcode string) (*CodeValidationResult, error) {
	conflicts := domain.ValidateBarcodeFormat(barcode, h.rules)

	existing, err := h.repo.FindByBarcode(barcode)
	if err == nil && existing != nil {
		conflicts = append(conflicts, fmt.Sprintf("barcode '%s' already used by item %d", barcode, existing.ID))
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check barcode uniqueness: %w", err)
	}

	return &CodeValidationResult{Valid: len(conflicts) == 0, Conflicts: conflicts}, nil
}
