package domain

import (
	"time"

	"gorm.io/gorm"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
)

// InventoryItem represents a sellable inventory item
type InventoryItem struct {
	ID                uint                   `json:"id" gorm:"primaryKey"`
	SKU               string                 `json:"sku" gorm:"uniqueIndex;not null"`
	Barcode           *string                `json:"barcode,omitempty" gorm:"uniqueIndex"`
	Name              string                 `json:"name" gorm:"not null"`
	Description       string                 `json:"description"`
	CategoryID        uint                   `json:"category_id" gorm:"not null;index"`
	BusinessType      string                 `json:"business_type" gorm:"index"`
	CostPrice         float64                `json:"cost_price" gorm:"not null;default:0"`
	SalePrice         float64                `json:"sale_price" gorm:"not null;default:0"`
	Currency          string                 `json:"currency" gorm:"default:'USD'"`
	StockQuantity     int                    `json:"stock_quantity" gorm:"not null;default:0"`
	MinStockLevel     int                    `json:"min_stock_level" gorm:"not null;default:0"`
	UnitOfMeasure     string                 `json:"unit_of_measure" gorm:"default:'pcs'"`
	ConversionFactors map[string]float64     `json:"conversion_factors" gorm:"serializer:json"`
	Attributes        map[string]interface{} `json:"attributes" gorm:"serializer:json"`
	Tags              []string               `json:"tags" gorm:"serializer:json"`
	IsActive          bool                   `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	DeletedAt         gorm.DeletedAt         `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsOutOfStock reports whether the item has no stock left
func (i *InventoryItem) IsOutOfStock() bool {
	return i.StockQuantity <= 0
}

// IsLowStock reports whether stock is at or below the minimum level
func (i *InventoryItem) IsLowStock() bool {
	return i.StockQuantity <= i.MinStockLevel
}

// StockValue is the cost value of the stock on hand
func (i *InventoryItem) StockValue() float64 {
	return float64(i.StockQuantity) * i.CostPrice
}

// HasTag reports whether the item carries the given tag
func (i *InventoryItem) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Movement types
const (
	MovementPurchase   = "purchase"
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
	MovementTransfer   = "transfer"
)

// InventoryMovement is one immutable ledger entry. The running sum of all
// movement deltas for an item must always equal its stock_quantity.
type InventoryMovement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ItemID        uint      `json:"item_id" gorm:"not null;index"`
	Type          string    `json:"type" gorm:"not null"`
	QuantityDelta int       `json:"quantity_delta" gorm:"not null"`
	UnitCost      float64   `json:"unit_cost"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}

// TableName specifies the table name
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}

// ValidMovementType reports whether t is a known movement type
func ValidMovementType(t string) bool {
	switch t {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	Create(item *InventoryItem) error
	FindByID(id uint) (*InventoryItem, error)
	FindBySKU(sku string) (*InventoryItem, error)
	FindByBarcode(barcode string) (*InventoryItem, error)
	FindAll(includeInactive bool) ([]InventoryItem, error)
	Update(item *InventoryItem) error
	Deactivate(id uint) error
	// AdjustStock appends a movement and moves the balance in a single
	// transaction, returning the new stock quantity
	AdjustStock(movement *InventoryMovement) (int, error)
	MovementsByItem(itemID uint, limit, offset int) ([]InventoryMovement, error)
	MovementsInRange(from, to time.Time) ([]InventoryMovement, error)
	// MovementSum returns the ledger balance for an item, used for
	// reconciliation against stock_quantity
	MovementSum(itemID uint) (int, error)

	// Per-category aggregates consumed by the category tree store
	TotalsByCategory() (map[uint]categorydomain.ItemTotals, error)
	CountInCategory(categoryID uint) (int64, error)
	ReassignCategory(fromCategoryID uint, toCategoryID *uint) error
}
