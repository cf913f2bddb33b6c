package query

import (
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// GetItemQuery represents the query for a single item
type GetItemQuery struct {
	ItemID uint
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	repo domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(repo domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{repo: repo}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(query GetItemQuery) (*domain.InventoryItem, error) {
	item, err := h.repo.FindByID(query.ItemID)
	if err != nil {
		return nil, apperrors.NewNotFound("item", query.ItemID)
	}
	return item, nil
}
