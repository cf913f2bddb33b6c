package command

import (
	"fmt"
	"time"

	"github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// CreateCategoryCommand represents the command to create a new category
type CreateCategoryCommand struct {
	Name            string
	ParentID        *uint
	BusinessType    string
	AttributeSchema domain.AttributeSchema
	SortOrder       int
}

// CreateCategoryHandler handles category creation command
type CreateCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewCreateCategoryHandler creates a new create category handler
func NewCreateCategoryHandler(repo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{repo: repo}
}

// Handle executes the create category command
func (h *CreateCategoryHandler) Handle(cmd CreateCategoryCommand) (*domain.Category, error) {
	if cmd.Name == "" {
		return nil, apperrors.NewValidation("category name is required")
	}
	if err := cmd.AttributeSchema.Validate(); err != nil {
		return nil, err
	}

	level := 0
	if cmd.ParentID != nil {
		parent, err := h.repo.FindByID(*cmd.ParentID)
		if err != nil {
			return nil, apperrors.NewNotFound("parent category", *cmd.ParentID)
		}
		if !parent.IsActive {
			return nil, apperrors.NewValidation("parent category is inactive")
		}
		level = parent.Level + 1
		if cmd.BusinessType == "" {
			cmd.BusinessType = parent.BusinessType
		}
	}

	category := &domain.Category{
		Name:            cmd.Name,
		ParentID:        cmd.ParentID,
		Level:           level,
		BusinessType:    cmd.BusinessType,
		AttributeSchema: cmd.AttributeSchema,
		SortOrder:       cmd.SortOrder,
		IsActive:        true,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := h.repo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}
