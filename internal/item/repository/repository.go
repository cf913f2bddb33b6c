package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryItem{}, &domain.InventoryMovement{})
}

func (r *GormItemRepository) Create(item *domain.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *GormItemRepository) FindByID(id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindBySKU(sku string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.Where("sku = ? AND is_active = ?", sku, true).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindByBarcode(barcode string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.Where("barcode = ? AND is_active = ?", barcode, true).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(includeInactive bool) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	query := r.db
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("id").Find(&items).Error
	return items, err
}

func (r *GormItemRepository) Update(item *domain.InventoryItem) error {
	return r.db.Save(item).Error
}

func (r *GormItemRepository) Deactivate(id uint) error {
	return r.db.Model(&domain.InventoryItem{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// AdjustStock appends the movement and moves the item balance in one
// transaction, locking the item row so concurrent adjustments serialize.
// The resulting quantity may not go negative.
func (r *GormItemRepository) AdjustStock(movement *domain.InventoryMovement) (int, error) {
	var newQuantity int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var item domain.InventoryItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, movement.ItemID).Error; err != nil {
			return err
		}

		newQuantity = item.StockQuantity + movement.QuantityDelta
		if newQuantity < 0 {
			return apperrors.NewValidation(
				"adjustment would drive stock below zero",
			)
		}

		if movement.CreatedAt.IsZero() {
			movement.CreatedAt = time.Now()
		}
		if err := tx.Create(movement).Error; err != nil {
			return err
		}

		return tx.Model(&domain.InventoryItem{}).
			Where("id = ?", movement.ItemID).
			Update("stock_quantity", newQuantity).Error
	})
	if err != nil {
		return 0, err
	}
	return newQuantity, nil
}

func (r *GormItemRepository) MovementsByItem(itemID uint, limit, offset int) ([]domain.InventoryMovement, error) {
	var movements []domain.InventoryMovement
	err := r.db.Where("item_id = ?", itemID).
		Order("created_at, id").
		Limit(limit).Offset(offset).
		Find(&movements).Error
	return movements, err
}

func (r *GormItemRepository) MovementsInRange(from, to time.Time) ([]domain.InventoryMovement, error) {
	var movements []domain.InventoryMovement
	query := r.db.Order("created_at, id")
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at <= ?", to)
	}
	err := query.Find(&movements).Error
	return movements, err
}

func (r *GormItemRepository) MovementSum(itemID uint) (int, error) {
	var sum *int
	err := r.db.Model(&domain.InventoryMovement{}).
		Where("item_id = ?", itemID).
		Select("SUM(quantity_delta)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// TotalsByCategory returns per-category sums of the directly assigned active
// items, consumed by the category tree aggregation
func (r *GormItemRepository) TotalsByCategory() (map[uint]categorydomain.ItemTotals, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
		Stock      int64
		Value      float64
	}
	err := r.db.Model(&domain.InventoryItem{}).
		Where("is_active = ?", true).
		Select("category_id, COUNT(*) AS count, SUM(stock_quantity) AS stock, SUM(stock_quantity * cost_price) AS value").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]categorydomain.ItemTotals, len(rows))
	for _, row := range rows {
		totals[row.CategoryID] = categorydomain.ItemTotals{
			Count: row.Count,
			Stock: row.Stock,
			Value: row.Value,
		}
	}
	return totals, nil
}

func (r *GormItemRepository) CountInCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.InventoryItem{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	return count, err
}

func (r *GormItemRepository) ReassignCategory(fromCategoryID uint, toCategoryID *uint) error {
	return r.db.Model(&domain.InventoryItem{}).
		Where("category_id = ?", fromCategoryID).
		Update("category_id", toCategoryID).Error
}
