package query

import (
	"fmt"

	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// ReconcileQuery represents the query to compare an item's stock balance
// against its movement ledger
type ReconcileQuery struct {
	ItemID uint
}

// ReconcileResult reports stock versus ledger. The two must always be equal;
// any drift is surfaced, never silently repaired.
type ReconcileResult struct {
	ItemID        uint `json:"item_id"`
	StockQuantity int  `json:"stock_quantity"`
	LedgerBalance int  `json:"ledger_balance"`
	Drift         int  `json:"drift"`
	Consistent    bool `json:"consistent"`
}

// ReconcileHandler handles ledger reconciliation query
type ReconcileHandler struct {
	repo domain.ItemRepository
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(repo domain.ItemRepository) *ReconcileHandler {
	return &ReconcileHandler{repo: repo}
}

// Handle executes the reconciliation query
func (h *ReconcileHandler) Handle(query ReconcileQuery) (*ReconcileResult, error) {
	item, err := h.repo.FindByID(query.ItemID)
	if err != nil {
		return nil, apperrors.NewNotFound("item", query.ItemID)
	}

	balance, err := h.repo.MovementSum(query.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum movements: %w", err)
	}

	return &ReconcileResult{
		ItemID:        item.ID,
		StockQuantity: item.StockQuantity,
		LedgerBalance: balance,
		Drift:         item.StockQuantity - balance,
		Consistent:    item.StockQuantity == balance,
	}, nil
}
