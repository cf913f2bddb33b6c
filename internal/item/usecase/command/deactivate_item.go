package command

import (
	"fmt"

	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// DeactivateItemCommand represents the command to soft-deactivate an item.
// Items are never physically deleted while movements reference them.
type DeactivateItemCommand struct {
	ItemID uint
}

// DeactivateItemHandler handles item deactivation command
type DeactivateItemHandler struct {
	repo domain.ItemRepository
}

// NewDeactivateItemHandler creates a new deactivate item handler
func NewDeactivateItemHandler(repo domain.ItemRepository) *DeactivateItemHandler {
	return &DeactivateItemHandler{repo: repo}
}

// Handle executes the deactivate item command
func (h *DeactivateItemHandler) Handle(cmd DeactivateItemCommand) error {
	item, err := h.repo.FindByID(cmd.ItemID)
	if err != nil {
		return apperrors.NewNotFound("item", cmd.ItemID)
	}
	if !item.IsActive {
		return apperrors.NewState("item %d is already deactivated", cmd.ItemID)
	}

	if err := h.repo.Deactivate(cmd.ItemID); err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}
	return nil
}
