package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

func itemFixture() (*fakeItemRepository, *fakeCategoryRepository) {
	categories := newFakeCategoryRepository(
		categorydomain.Category{ID: 1, Name: "Jewelry", BusinessType: "jewelry", IsActive: true},
		categorydomain.Category{
			ID: 2, Name: "Rings", ParentID: uintPtr(1), Level: 1, BusinessType: "jewelry", IsActive: true,
			AttributeSchema: categorydomain.AttributeSchema{
				{Key: "metal", Type: categorydomain.AttributeTypeString, Required: true},
				{Key: "carat", Type: categorydomain.AttributeTypeNumber},
			},
		},
		categorydomain.Category{ID: 3, Name: "Discontinued", ParentID: uintPtr(1), Level: 1, BusinessType: "jewelry", IsActive: false},
	)
	items := newFakeItemRepository(
		domain.InventoryItem{ID: 1, SKU: "RING-001", Barcode: strPtr("12345678"), Name: "Gold Ring", CategoryID: 2, IsActive: true},
	)
	return items, categories
}

func TestCreateItemHappyPath(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	item, err := handler.Handle(CreateItemCommand{
		SKU:        "RING-002",
		Name:       "Silver Ring",
		CategoryID: 2,
		CostPrice:  40,
		SalePrice:  90,
		Attributes: map[string]interface{}{"metal": "silver", "carat": 0.5},
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.True(t, item.IsActive)
	assert.Equal(t, "jewelry", item.BusinessType, "business type is denormalized from the category")
	assert.Equal(t, "USD", item.Currency)
	assert.Equal(t, "pcs", item.UnitOfMeasure)
	assert.Zero(t, item.StockQuantity)
}

func TestCreateItemCollectsAllViolations(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	_, err := handler.Handle(CreateItemCommand{
		SKU:               "RING 002",
		Name:              "",
		CategoryID:        2,
		CostPrice:         -1,
		SalePrice:         -1,
		StockQuantity:     -5,
		MinStockLevel:     -2,
		ConversionFactors: map[string]float64{"box": 0},
		Attributes:        map[string]interface{}{"metal": "gold"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "item name is required")
	assert.Contains(t, verr.Violations, "cost_price cannot be negative")
	assert.Contains(t, verr.Violations, "sale_price cannot be negative")
	assert.Contains(t, verr.Violations, "stock_quantity cannot be negative")
	assert.Contains(t, verr.Violations, "min_stock_level cannot be negative")
	assert.Contains(t, verr.Violations, "conversion factor for unit 'box' must be positive")
	assert.Contains(t, verr.Violations, "sku contains invalid character ' '")
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	_, err := handler.Handle(CreateItemCommand{
		SKU:        "RING-001",
		Name:       "Another Ring",
		CategoryID: 2,
		Attributes: map[string]interface{}{"metal": "gold"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "sku 'RING-001' already exists")
}

func TestCreateItemDuplicateBarcode(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	_, err := handler.Handle(CreateItemCommand{
		SKU:        "RING-002",
		Barcode:    strPtr("12345678"),
		Name:       "Another Ring",
		CategoryID: 2,
		Attributes: map[string]interface{}{"metal": "gold"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "barcode '12345678' already exists")
}

func TestCreateItemMissingCategory(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	_, err := handler.Handle(CreateItemCommand{SKU: "RING-002", Name: "Ring", CategoryID: 99})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateItemInactiveCategory(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	_, err := handler.Handle(CreateItemCommand{SKU: "RING-002", Name: "Ring", CategoryID: 3})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "category is inactive")
}

func TestCreateItemAttributeSchemaEnforced(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	_, err := handler.Handle(CreateItemCommand{
		SKU:        "RING-002",
		Name:       "Ring",
		CategoryID: 2,
		Attributes: map[string]interface{}{"carat": "big", "engraving": "hi"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "attribute 'metal' is required")
	assert.Contains(t, verr.Violations, "attribute 'carat' must be of type number")
	assert.Contains(t, verr.Violations, "attribute 'engraving' is not declared in the category schema")
}

func TestCreateItemOpeningStockGoesThroughLedger(t *testing.T) {
	items, categories := itemFixture()
	handler := NewCreateItemHandler(items, categories)

	item, err := handler.Handle(CreateItemCommand{
		SKU:           "RING-002",
		Name:          "Silver Ring",
		CategoryID:    2,
		CostPrice:     40,
		StockQuantity: 25,
		Attributes:    map[string]interface{}{"metal": "silver"},
		CreatedBy:     "selin",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, item.StockQuantity)

	movements, err := items.MovementsByItem(item.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementAdjustment, movements[0].Type)
	assert.Equal(t, 25, movements[0].QuantityDelta)
	assert.Equal(t, "initial_stock", movements[0].ReferenceType)
	assert.Equal(t, 40.0, movements[0].UnitCost)
	assert.Equal(t, "selin", movements[0].CreatedBy)

	balance, err := items.MovementSum(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.StockQuantity, balance)
}
