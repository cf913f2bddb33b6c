package command

import (
	"fmt"

	"github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// MoveCategoryCommand represents the command to reparent a category subtree.
// A nil NewParentID moves the category to the root level.
type MoveCategoryCommand struct {
	CategoryID  uint
	NewParentID *uint
}

// MoveCategoryHandler handles category move command
type MoveCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewMoveCategoryHandler creates a new move category handler
func NewMoveCategoryHandler(repo domain.CategoryRepository) *MoveCategoryHandler {
	return &MoveCategoryHandler{repo: repo}
}

// Handle executes the move category command
func (h *MoveCategoryHandler) Handle(cmd MoveCategoryCommand) (*domain.Category, error) {
	categories, err := h.repo.FindAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	snapshot := domain.NewSnapshot(categories)

	category, ok := snapshot.Get(cmd.CategoryID)
	if !ok {
		return nil, apperrors.NewNotFound("category", cmd.CategoryID)
	}

	newLevel := 0
	if cmd.NewParentID != nil {
		if *cmd.NewParentID == cmd.CategoryID {
			return nil, apperrors.NewConflict("cannot move category %d under itself", cmd.CategoryID)
		}
		parent, ok := snapshot.Get(*cmd.NewParentID)
		if !ok {
			return nil, apperrors.NewNotFound("parent category", *cmd.NewParentID)
		}
		if !parent.IsActive {
			return nil, apperrors.NewValidation("new parent category is inactive")
		}
		// A category may never become a descendant of its own subtree
		if snapshot.IsAncestor(cmd.CategoryID, *cmd.NewParentID) {
			return nil, apperrors.NewConflict(
				"cannot move category %d under its own descendant %d",
				cmd.CategoryID, *cmd.NewParentID,
			)
		}
		newLevel = parent.Level + 1
	}

	levels := snapshot.SubtreeLevels(cmd.CategoryID, newLevel)
	if err := h.repo.Move(cmd.CategoryID, cmd.NewParentID, levels); err != nil {
		return nil, fmt.Errorf("failed to move category: %w", err)
	}

	moved := *category
	moved.ParentID = cmd.NewParentID
	moved.Level = newLevel
	return &moved, nil
}
