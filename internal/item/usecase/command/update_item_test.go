package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

func updateFixture() (*fakeItemRepository, *fakeCategoryRepository) {
	categories := newFakeCategoryRepository(
		categorydomain.Category{ID: 1, Name: "Jewelry", BusinessType: "jewelry", IsActive: true},
		categorydomain.Category{
			ID: 2, Name: "Rings", ParentID: uintPtr(1), Level: 1, BusinessType: "jewelry", IsActive: true,
			AttributeSchema: categorydomain.AttributeSchema{
				{Key: "metal", Type: categorydomain.AttributeTypeString, Required: true},
			},
		},
		categorydomain.Category{
			ID: 4, Name: "Straps", BusinessType: "watches", IsActive: true,
			AttributeSchema: categorydomain.AttributeSchema{
				{Key: "material", Type: categorydomain.AttributeTypeString, Required: true},
			},
		},
		categorydomain.Category{ID: 5, Name: "Retired", BusinessType: "watches", IsActive: false},
	)
	items := newFakeItemRepository(
		domain.InventoryItem{
			ID: 1, SKU: "RING-001", Name: "Gold Ring", CategoryID: 2, BusinessType: "jewelry",
			CostPrice: 100, SalePrice: 250, Currency: "USD", StockQuantity: 5, MinStockLevel: 2,
			Attributes: map[string]interface{}{"metal": "gold"}, IsActive: true,
		},
		domain.InventoryItem{ID: 2, SKU: "RING-002", Barcode: strPtr("87654321"), Name: "Silver Ring", CategoryID: 2, IsActive: true},
	)
	return items, categories
}

func TestUpdateItemPartialFields(t *testing.T) {
	items, categories := updateFixture()
	handler := NewUpdateItemHandler(items, categories)

	updated, err := handler.Handle(UpdateItemCommand{
		ItemID:        1,
		Name:          strPtr("Gold Ring 18k"),
		SalePrice:     floatPtr(300),
		MinStockLevel: intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring 18k", updated.Name)
	assert.Equal(t, 300.0, updated.SalePrice)
	assert.Equal(t, 4, updated.MinStockLevel)
	assert.Equal(t, 100.0, updated.CostPrice, "untouched fields keep their values")
	assert.Equal(t, 5, updated.StockQuantity, "stock only moves through adjustments")
}

func TestUpdateItemCollectsViolations(t *testing.T) {
	items, categories := updateFixture()
	handler := NewUpdateItemHandler(items, categories)

	_, err := handler.Handle(UpdateItemCommand{
		ItemID:    1,
		Name:      strPtr(""),
		CostPrice: floatPtr(-10),
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "item name must not be empty")
	assert.Contains(t, verr.Violations, "cost_price cannot be negative")

	persisted, err := items.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", persisted.Name, "rejected update leaves the item unchanged")
}

func TestUpdateItemBarcodeUniqueness(t *testing.T) {
	items, categories := updateFixture()
	handler := NewUpdateItemHandler(items, categories)

	_, err := handler.Handle(UpdateItemCommand{ItemID: 1, Barcode: strPtr("87654321")})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "barcode '87654321' already exists")

	updated, err := handler.Handle(UpdateItemCommand{ItemID: 1, Barcode: strPtr("11112222")})
	require.NoError(t, err)
	require.NotNil(t, updated.Barcode)
	assert.Equal(t, "11112222", *updated.Barcode)
}

func TestUpdateItemCategoryChangeRevalidatesAttributes(t *testing.T) {
	items, categories := updateFixture()
	handler := NewUpdateItemHandler(items, categories)

	_, err := handler.Handle(UpdateItemCommand{
		ItemID:     1,
		CategoryID: uintPtr(4),
		Attributes: map[string]interface{}{"metal": "gold"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "attribute 'material' is required")
	assert.Contains(t, verr.Violations, "attribute 'metal' is not declared in the category schema")

	updated, err := handler.Handle(UpdateItemCommand{
		ItemID:     1,
		CategoryID: uintPtr(4),
		Attributes: map[string]interface{}{"material": "leather"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(4), updated.CategoryID)
	assert.Equal(t, "watches", updated.BusinessType, "business type follows the new category")
}

func TestUpdateItemInactiveTargetCategory(t *testing.T) {
	items, categories := updateFixture()
	handler := NewUpdateItemHandler(items, categories)

	_, err := handler.Handle(UpdateItemCommand{ItemID: 1, CategoryID: uintPtr(5)})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "category is inactive")
}

func TestUpdateItemMissingTargets(t *testing.T) {
	items, categories := updateFixture()
	handler := NewUpdateItemHandler(items, categories)

	_, err := handler.Handle(UpdateItemCommand{ItemID: 99})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = handler.Handle(UpdateItemCommand{ItemID: 1, CategoryID: uintPtr(77)})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
