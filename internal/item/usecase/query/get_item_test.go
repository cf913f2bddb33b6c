package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

func TestGetItemReturnsItem(t *testing.T) {
	items := newFakeItemRepository(
		domain.InventoryItem{ID: 1, SKU: "RING-001", Name: "Gold Ring", IsActive: true},
	)
	handler := NewGetItemHandler(items)

	item, err := handler.Handle(GetItemQuery{ItemID: 1})
	require.NoError(t, err)
	assert.Equal(t, "RING-001", item.SKU)
	assert.Equal(t, "Gold Ring", item.Name)
}

func TestGetItemNotFound(t *testing.T) {
	handler := NewGetItemHandler(newFakeItemRepository())

	_, err := handler.Handle(GetItemQuery{ItemID: 42})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
