package command

import (
	"time"

	"gorm.io/gorm"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

var errNotFound = gorm.ErrRecordNotFound

// fakeItemRepository is an in-memory ItemRepository
type fakeItemRepository struct {
	items     map[uint]*domain.InventoryItem
	movements []domain.InventoryMovement
	nextID    uint
}

func newFakeItemRepository(items ...domain.InventoryItem) *fakeItemRepository {
	repo := &fakeItemRepository{
		items:  make(map[uint]*domain.InventoryItem),
		nextID: 1,
	}
	for i := range items {
		item := items[i]
		repo.items[item.ID] = &item
		if item.ID >= repo.nextID {
			repo.nextID = item.ID + 1
		}
	}
	return repo
}

func (r *fakeItemRepository) Create(item *domain.InventoryItem) error {
	item.ID = r.nextID
	r.nextID++
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepository) FindByID(id uint) (*domain.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepository) FindBySKU(sku string) (*domain.InventoryItem, error) {
	for _, item := range r.items {
		if item.SKU == sku && item.IsActive {
			copied := *item
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeItemRepository) FindByBarcode(barcode string) (*domain.InventoryItem, error) {
	for _, item := range r.items {
		if item.Barcode != nil && *item.Barcode == barcode && item.IsActive {
			copied := *item
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeItemRepository) FindAll(includeInactive bool) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range r.items {
		if !includeInactive && !item.IsActive {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeItemRepository) Update(item *domain.InventoryItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return errNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepository) Deactivate(id uint) error {
	item, ok := r.items[id]
	if !ok {
		return errNotFound
	}
	item.IsActive = false
	return nil
}

func (r *fakeItemRepository) AdjustStock(movement *domain.InventoryMovement) (int, error) {
	item, ok := r.items[movement.ItemID]
	if !ok {
		return 0, errNotFound
	}
	next := item.StockQuantity + movement.QuantityDelta
	if next < 0 {
		return 0, apperrors.NewValidation("adjustment would drive stock below zero")
	}
	item.StockQuantity = next
	movement.ID = uint(len(r.movements) + 1)
	r.movements = append(r.movements, *movement)
	return next, nil
}

func (r *fakeItemRepository) MovementsByItem(itemID uint, limit, offset int) ([]domain.InventoryMovement, error) {
	var out []domain.InventoryMovement
	for _, m := range r.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeItemRepository) MovementsInRange(from, to time.Time) ([]domain.InventoryMovement, error) {
	var out []domain.InventoryMovement
	for _, m := range r.movements {
		if !m.CreatedAt.Before(from) && !m.CreatedAt.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeItemRepository) MovementSum(itemID uint) (int, error) {
	sum := 0
	for _, m := range r.movements {
		if m.ItemID == itemID {
			sum += m.QuantityDelta
		}
	}
	return sum, nil
}

func (r *fakeItemRepository) TotalsByCategory() (map[uint]categorydomain.ItemTotals, error) {
	totals := make(map[uint]categorydomain.ItemTotals)
	for _, item := range r.items {
		if !item.IsActive {
			continue
		}
		t := totals[item.CategoryID]
		t.Count++
		t.Stock += int64(item.StockQuantity)
		t.Value += item.StockValue()
		totals[item.CategoryID] = t
	}
	return totals, nil
}

func (r *fakeItemRepository) CountInCategory(categoryID uint) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.CategoryID == categoryID && item.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeItemRepository) ReassignCategory(fromCategoryID uint, toCategoryID *uint) error {
	for _, item := range r.items {
		if item.CategoryID == fromCategoryID && toCategoryID != nil {
			item.CategoryID = *toCategoryID
		}
	}
	return nil
}

// fakeCategoryRepository is an in-memory CategoryRepository
type fakeCategoryRepository struct {
	categories map[uint]*categorydomain.Category
}

func newFakeCategoryRepository(categories ...categorydomain.Category) *fakeCategoryRepository {
	repo := &fakeCategoryRepository{categories: make(map[uint]*categorydomain.Category)}
	for i := range categories {
		c := categories[i]
		repo.categories[c.ID] = &c
	}
	return repo
}

func (r *fakeCategoryRepository) Create(category *categorydomain.Category) error {
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepository) FindByID(id uint) (*categorydomain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepository) FindAll(includeInactive bool) ([]categorydomain.Category, error) {
	var out []categorydomain.Category
	for _, c := range r.categories {
		if !includeInactive && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepository) Update(category *categorydomain.Category) error {
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepository) Move(categoryID uint, newParentID *uint, levels map[uint]int) error {
	return nil
}

func (r *fakeCategoryRepository) ReassignChildren(fromID uint, newParentID *uint, levels map[uint]int) error {
	return nil
}

func (r *fakeCategoryRepository) Delete(id uint) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepository) CountChildren(id uint) (int64, error) {
	var count int64
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == id {
			count++
		}
	}
	return count, nil
}

func uintPtr(v uint) *uint        { return &v }
func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
