package query

import (
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// ConvertUnitsQuery represents the query to convert a quantity between two
// of an item's units
type ConvertUnitsQuery struct {
	ItemID   uint
	FromUnit string
	ToUnit   string
	Quantity float64
}

// ConvertUnitsResult holds the converted quantity
type ConvertUnitsResult struct {
	ConvertedQuantity float64 `json:"converted_quantity"`
	FromUnit          string  `json:"from_unit"`
	ToUnit            string  `json:"to_unit"`
}

// ConvertUnitsHandler handles unit conversion query
type ConvertUnitsHandler struct {
	repo domain.ItemRepository
}

// NewConvertUnitsHandler creates a new convert units handler
func NewConvertUnitsHandler(repo domain.ItemRepository) *ConvertUnitsHandler {
	return &ConvertUnitsHandler{repo: repo}
}

// Handle executes the conversion query
func (h *ConvertUnitsHandler) Handle(query ConvertUnitsQuery) (*ConvertUnitsResult, error) {
	item, err := h.repo.FindByID(query.ItemID)
	if err != nil {
		return nil, apperrors.NewNotFound("item", query.ItemID)
	}

	converted, err := domain.ConvertUnits(item, query.FromUnit, query.ToUnit, query.Quantity)
	if err != nil {
		return nil, err
	}

	return &ConvertUnitsResult{
		ConvertedQuantity: converted,
		FromUnit:          query.FromUnit,
		ToUnit:            query.ToUnit,
	}, nil
}
