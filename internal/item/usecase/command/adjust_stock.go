package command

import (
	"fmt"

	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// AdjustStockCommand represents the command to move an item's stock balance.
// Every adjustment appends an immutable movement to the ledger.
type AdjustStockCommand struct {
	ItemID        uint
	QuantityDelta int
	Type          string
	UnitCost      float64
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
}

// AdjustStockResult is the outcome of a stock adjustment
type AdjustStockResult struct {
	Movement    *domain.InventoryMovement `json:"movement"`
	NewQuantity int                       `json:"new_quantity"`
}

// AdjustStockHandler handles stock adjustment command
type AdjustStockHandler struct {
	repo domain.ItemRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(repo domain.ItemRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Handle executes the adjust stock command
func (h *AdjustStockHandler) Handle(cmd AdjustStockCommand) (*AdjustStockResult, error) {
	var violations []string
	if cmd.QuantityDelta == 0 {
		violations = append(violations, "quantity_delta must not be zero")
	}
	if !domain.ValidMovementType(cmd.Type) {
		violations = append(violations, fmt.Sprintf("unknown movement type '%s'", cmd.Type))
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidation(violations...)
	}

	item, err := h.repo.FindByID(cmd.ItemID)
	if err != nil {
		return nil, apperrors.NewNotFound("item", cmd.ItemID)
	}
	if !item.IsActive {
		return nil, apperrors.NewState("item %d is deactivated", cmd.ItemID)
	}

	movement := &domain.InventoryMovement{
		ItemID:        cmd.ItemID,
		Type:          cmd.Type,
		QuantityDelta: cmd.QuantityDelta,
		UnitCost:      cmd.UnitCost,
		ReferenceType: cmd.ReferenceType,
		ReferenceID:   cmd.ReferenceID,
		CreatedBy:     cmd.CreatedBy,
	}

	newQuantity, err := h.repo.AdjustStock(movement)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	return &AdjustStockResult{Movement: movement, NewQuantity: newQuantity}, nil
}
