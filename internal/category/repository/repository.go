package repository

import (
	"github.com/gemdesk/inventory-service/internal/category/domain"
	"gorm.io/gorm"
)

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Category{})
}

func (r *GormCategoryRepository) Create(category *domain.Category) error {
	return r.db.Create(category).Error
}

func (r *GormCategoryRepository) FindByID(id uint) (*domain.Category, error) {
	var category domain.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindAll(includeInactive bool) ([]domain.Category, error) {
	var categories []domain.Category
	query := r.db
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("sort_order, id").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Update(category *domain.Category) error {
	return r.db.Save(category).Error
}

// Move reparents a category and rewrites the levels of its whole subtree in
// one transaction, so concurrent tree reads see either the old or the new
// position, never a mix.
func (r *GormCategoryRepository) Move(categoryID uint, newParentID *uint, levels map[uint]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Category{}).
			Where("id = ?", categoryID).
			Update("parent_id", newParentID).Error; err != nil {
			return err
		}
		for id, level := range levels {
			if err := tx.Model(&domain.Category{}).
				Where("id = ?", id).
				Update("level", level).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReassignChildren moves all direct children of fromID under newParentID and
// applies the precomputed subtree levels in one transaction
func (r *GormCategoryRepository) ReassignChildren(fromID uint, newParentID *uint, levels map[uint]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Category{}).
			Where("parent_id = ?", fromID).
			Update("parent_id", newParentID).Error; err != nil {
			return err
		}
		for id, level := range levels {
			if err := tx.Model(&domain.Category{}).
				Where("id = ?", id).
				Update("level", level).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Category{}, id).Error
}

func (r *GormCategoryRepository) CountChildren(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}
