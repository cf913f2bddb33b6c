package domain

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// Attribute value types allowed in a category schema
const (
	AttributeTypeString  = "string"
	AttributeTypeNumber  = "number"
	AttributeTypeBoolean = "boolean"
)

// AttributeField describes one field of a category's attribute schema
type AttributeField struct {
	Key      string `json:"key"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// AttributeSchema is the ordered list of attribute fields items in a
// category must conform to
type AttributeSchema []AttributeField

// Validate checks the schema itself: non-empty unique keys and known types
func (s AttributeSchema) Validate() error {
	var violations []string
	seen := make(map[string]bool, len(s))

	for i, field := range s {
		if field.Key == "" {
			violations = append(violations, "attribute_schema: empty key at index "+strconv.Itoa(i))
			continue
		}
		if seen[field.Key] {
			violations = append(violations, "attribute_schema: duplicate key '"+field.Key+"'")
		}
		seen[field.Key] = true

		switch field.Type {
		case AttributeTypeString, AttributeTypeNumber, AttributeTypeBoolean:
		default:
			violations = append(violations, "attribute_schema: unknown type '"+field.Type+"' for key '"+field.Key+"'")
		}
	}

	if len(violations) > 0 {
		return apperrors.NewValidation(violations...)
	}
	return nil
}

// Field returns the schema field for the given key, if present
func (s AttributeSchema) Field(key string) (AttributeField, bool) {
	for _, field := range s {
		if field.Key == key {
			return field, true
		}
	}
	return AttributeField{}, false
}

// Category represents a node of the inventory category tree
type Category struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null"`
	ParentID        *uint           `json:"parent_id" gorm:"index"`
	Level           int             `json:"level" gorm:"not null;default:0"`
	BusinessType    string          `json:"business_type" gorm:"index"`
	AttributeSchema AttributeSchema `json:"attribute_schema" gorm:"serializer:json"`
	SortOrder       int             `json:"sort_order" gorm:"default:0"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// DeletePolicy controls what happens to children and item assignments when a
// category is deleted. The caller must choose; nothing is inferred.
type DeletePolicy string

const (
	// DeletePolicyReject fails the delete if the category still has
	// children or assigned items
	DeletePolicyReject DeletePolicy = "reject"
	// DeletePolicyReassignToParent moves children and item assignments to
	// the deleted category's parent
	DeletePolicyReassignToParent DeletePolicy = "reassign_to_parent"
)

// CategoryRepository defines the contract for category data access
type CategoryRepository interface {
	Create(category *Category) error
	FindByID(id uint) (*Category, error)
	FindAll(includeInactive bool) ([]Category, error)
	Update(category *Category) error
	// Move reparents a category and rewrites the levels of its subtree in
	// a single transaction
	Move(categoryID uint, newParentID *uint, levels map[uint]int) error
	// ReassignChildren moves all direct children of fromID under newParentID,
	// applying the precomputed levels for their subtrees, in one transaction
	ReassignChildren(fromID uint, newParentID *uint, levels map[uint]int) error
	Delete(id uint) error
	CountChildren(id uint) (int64, error)
}

// ItemStatsProvider supplies per-category item aggregates. Implemented by the
// item repository; declared here so the tree store does not depend on it.
type ItemStatsProvider interface {
	TotalsByCategory() (map[uint]ItemTotals, error)
	CountInCategory(categoryID uint) (int64, error)
	ReassignCategory(fromCategoryID uint, toCategoryID *uint) error
}
