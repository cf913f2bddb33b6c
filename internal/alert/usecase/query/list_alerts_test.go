package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdesk/inventory-service/internal/alert/domain"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// stubItemRepository serves a fixed item list; the alert feed only reads
type stubItemRepository struct {
	items []itemdomain.InventoryItem
}

var errStubNotUsed = errors.New("not used by the alert feed")

func (s *stubItemRepository) FindAll(includeInactive bool) ([]itemdomain.InventoryItem, error) {
	var out []itemdomain.InventoryItem
	for _, item := range s.items {
		if !includeInactive && !item.IsActive {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *stubItemRepository) Create(*itemdomain.InventoryItem) error { return errStubNotUsed }
func (s *stubItemRepository) FindByID(uint) (*itemdomain.InventoryItem, error) {
	return nil, errStubNotUsed
}
func (s *stubItemRepository) FindBySKU(string) (*itemdomain.InventoryItem, error) {
	return nil, errStubNotUsed
}
func (s *stubItemRepository) FindByBarcode(string) (*itemdomain.InventoryItem, error) {
	return nil, errStubNotUsed
}
func (s *stubItemRepository) Update(*itemdomain.InventoryItem) error { return errStubNotUsed }
func (s *stubItemRepository) Deactivate(uint) error                  { return errStubNotUsed }
func (s *stubItemRepository) AdjustStock(*itemdomain.InventoryMovement) (int, error) {
	return 0, errStubNotUsed
}
func (s *stubItemRepository) MovementsByItem(uint, int, int) ([]itemdomain.InventoryMovement, error) {
	return nil, errStubNotUsed
}
func (s *stubItemRepository) MovementsInRange(time.Time, time.Time) ([]itemdomain.InventoryMovement, error) {
	return nil, errStubNotUsed
}
func (s *stubItemRepository) MovementSum(uint) (int, error) { return 0, errStubNotUsed }
func (s *stubItemRepository) TotalsByCategory() (map[uint]categorydomain.ItemTotals, error) {
	return nil, errStubNotUsed
}
func (s *stubItemRepository) CountInCategory(uint) (int64, error) { return 0, errStubNotUsed }
func (s *stubItemRepository) ReassignCategory(uint, *uint) error  { return errStubNotUsed }

// stubCategoryRepository serves a fixed category list
type stubCategoryRepository struct {
	categories []categorydomain.Category
}

func (s *stubCategoryRepository) FindAll(bool) ([]categorydomain.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepository) Create(*categorydomain.Category) error { return errStubNotUsed }
func (s *stubCategoryRepository) FindByID(uint) (*categorydomain.Category, error) {
	return nil, errStubNotUsed
}
func (s *stubCategoryRepository) Update(*categorydomain.Category) error { return errStubNotUsed }
func (s *stubCategoryRepository) Move(uint, *uint, map[uint]int) error  { return errStubNotUsed }
func (s *stubCategoryRepository) ReassignChildren(uint, *uint, map[uint]int) error {
	return errStubNotUsed
}
func (s *stubCategoryRepository) Delete(uint) error                 { return errStubNotUsed }
func (s *stubCategoryRepository) CountChildren(uint) (int64, error) { return 0, errStubNotUsed }

func uintPtr(v uint) *uint { return &v }

func alertFixture() (*stubItemRepository, *stubCategoryRepository) {
	categories := &stubCategoryRepository{categories: []categorydomain.Category{
		{ID: 1, Name: "Jewelry", BusinessType: "jewelry", IsActive: true},
		{ID: 2, Name: "Rings", ParentID: uintPtr(1), Level: 1, BusinessType: "jewelry", IsActive: true},
		{ID: 3, Name: "Watches", BusinessType: "watches", IsActive: true},
	}}
	items := &stubItemRepository{items: []itemdomain.InventoryItem{
		{ID: 1, SKU: "RING-001", Name: "Gold Ring", CategoryID: 2, BusinessType: "jewelry",
			StockQuantity: 0, MinStockLevel: 10, CostPrice: 100, IsActive: true},
		{ID: 2, SKU: "RING-002", Name: "Silver Ring", CategoryID: 2, BusinessType: "jewelry",
			StockQuantity: 2, MinStockLevel: 10, CostPrice: 40, IsActive: true},
		{ID: 3, SKU: "WATCH-001", Name: "Dive Watch", CategoryID: 3, BusinessType: "watches",
			StockQuantity: 5, MinStockLevel: 10, CostPrice: 300, IsActive: true},
		{ID: 4, SKU: "WATCH-002", Name: "Dress Watch", CategoryID: 3, BusinessType: "watches",
			StockQuantity: 9, MinStockLevel: 10, CostPrice: 500, IsActive: true},
		{ID: 5, SKU: "WATCH-003", Name: "Field Watch", CategoryID: 3, BusinessType: "watches",
			StockQuantity: 50, MinStockLevel: 10, CostPrice: 200, IsActive: true},
		{ID: 6, SKU: "RING-OLD", Name: "Retired Ring", CategoryID: 2, BusinessType: "jewelry",
			StockQuantity: 0, MinStockLevel: 5, CostPrice: 10, IsActive: false},
	}}
	return items, categories
}

func newHandler() *ListAlertsHandler {
	items, categories := alertFixture()
	return NewListAlertsHandler(items, categories, domain.DefaultClassifierConfig())
}

func TestListAlertsClassifiesAndOrders(t *testing.T) {
	handler := newHandler()

	alerts, err := handler.Handle(ListAlertsQuery{})
	require.NoError(t, err)
	require.Len(t, alerts, 4, "healthy and inactive items produce no alerts")

	// default order is most urgent first
	assert.Equal(t, uint(1), alerts[0].ItemID)
	assert.Equal(t, domain.LevelOutOfStock, alerts[0].AlertLevel)
	assert.Equal(t, uint(2), alerts[1].ItemID)
	assert.Equal(t, domain.LevelCritical, alerts[1].AlertLevel)
	assert.Equal(t, uint(3), alerts[2].ItemID)
	assert.Equal(t, domain.LevelLow, alerts[2].AlertLevel)
	assert.Equal(t, uint(4), alerts[3].ItemID)
	assert.Equal(t, domain.LevelWarning, alerts[3].AlertLevel)

	assert.Equal(t, 10, alerts[0].Shortage)
	assert.Equal(t, 1000.0, alerts[0].PotentialLostSales)
}

func TestListAlertsLevelSubset(t *testing.T) {
	handler := newHandler()

	alerts, err := handler.Handle(ListAlertsQuery{
		Levels: []domain.AlertLevel{domain.LevelOutOfStock, domain.LevelCritical},
	})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, uint(1), alerts[0].ItemID)
	assert.Equal(t, uint(2), alerts[1].ItemID)
}

func TestListAlertsCategoryScopeIncludesDescendants(t *testing.T) {
	handler := newHandler()

	alerts, err := handler.Handle(ListAlertsQuery{CategoryIDs: []uint{1}})
	require.NoError(t, err)
	require.Len(t, alerts, 2, "scoping to the root covers items in child categories")
	for _, alert := range alerts {
		assert.Equal(t, uint(2), alert.CategoryID)
	}
}

func TestListAlertsUnknownCategory(t *testing.T) {
	handler := newHandler()

	_, err := handler.Handle(ListAlertsQuery{CategoryIDs: []uint{99}})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListAlertsBusinessTypeScope(t *testing.T) {
	handler := newHandler()

	alerts, err := handler.Handle(ListAlertsQuery{BusinessType: "watches"})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, uint(3), alerts[0].ItemID)
	assert.Equal(t, uint(4), alerts[1].ItemID)
}

func TestListAlertsThresholdMultiplier(t *testing.T) {
	handler := newHandler()

	// raising the threshold pulls the otherwise healthy item into the feed
	alerts, err := handler.Handle(ListAlertsQuery{ThresholdMultiplier: 10})
	require.NoError(t, err)
	ids := make([]uint, 0, len(alerts))
	for _, alert := range alerts {
		ids = append(ids, alert.ItemID)
	}
	assert.Contains(t, ids, uint(5))
}

func TestListAlertsSortOptions(t *testing.T) {
	handler := newHandler()

	alerts, err := handler.Handle(ListAlertsQuery{SortBy: SortByName, SortOrder: OrderAsc})
	require.NoError(t, err)
	require.Len(t, alerts, 4)
	assert.Equal(t, "Dive Watch", alerts[0].ItemName)
	assert.Equal(t, "Dress Watch", alerts[1].ItemName)
	assert.Equal(t, "Gold Ring", alerts[2].ItemName)
	assert.Equal(t, "Silver Ring", alerts[3].ItemName)

	alerts, err = handler.Handle(ListAlertsQuery{SortBy: SortByValue, SortOrder: OrderDesc})
	require.NoError(t, err)
	// lost sales: ring1=1000, ring2=320, watch1=1500, watch2=500
	assert.Equal(t, uint(3), alerts[0].ItemID)
	assert.Equal(t, uint(1), alerts[1].ItemID)
	assert.Equal(t, uint(4), alerts[2].ItemID)
	assert.Equal(t, uint(2), alerts[3].ItemID)

	alerts, err = handler.Handle(ListAlertsQuery{SortBy: SortByUrgency, SortOrder: OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, uint(4), alerts[0].ItemID, "ascending urgency puts the mildest tier first")
}

func TestListAlertsUrgencyTieBreaksByItemID(t *testing.T) {
	items := &stubItemRepository{items: []itemdomain.InventoryItem{
		{ID: 9, SKU: "B-2", Name: "B", CategoryID: 1, StockQuantity: 0, MinStockLevel: 5, IsActive: true},
		{ID: 4, SKU: "A-1", Name: "A", CategoryID: 1, StockQuantity: 0, MinStockLevel: 5, IsActive: true},
	}}
	categories := &stubCategoryRepository{categories: []categorydomain.Category{
		{ID: 1, Name: "Jewelry", IsActive: true},
	}}
	handler := NewListAlertsHandler(items, categories, domain.DefaultClassifierConfig())

	alerts, err := handler.Handle(ListAlertsQuery{})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, uint(4), alerts[0].ItemID)
	assert.Equal(t, uint(9), alerts[1].ItemID)
}

func TestListAlertsInvalidQuery(t *testing.T) {
	handler := newHandler()

	_, err := handler.Handle(ListAlertsQuery{
		SortBy:    "price",
		SortOrder: "sideways",
		Levels:    []domain.AlertLevel{"panic"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "unknown sort key 'price'")
	assert.Contains(t, verr.Violations, "unknown sort order 'sideways'")
	assert.Contains(t, verr.Violations, "unknown alert level 'panic'")
}

func TestListAlertsNegativeMultiplierKeepsDefault(t *testing.T) {
	handler := newHandler()

	alerts, err := handler.Handle(ListAlertsQuery{ThresholdMultiplier: -2})
	require.NoError(t, err)
	assert.Len(t, alerts, 4, "non-positive multiplier falls back to the configured default")
}
