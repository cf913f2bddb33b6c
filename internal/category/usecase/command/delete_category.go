package command

import (
	"fmt"

	"github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// DeleteCategoryCommand represents the command to delete a category. Policy
// must be chosen by the caller; there is no implicit cascade.
type DeleteCategoryCommand struct {
	CategoryID uint
	Policy     domain.DeletePolicy
}

// DeleteCategoryHandler handles category deletion command
type DeleteCategoryHandler struct {
	repo  domain.CategoryRepository
	items domain.ItemStatsProvider
}

// NewDeleteCategoryHandler creates a new delete category handler
func NewDeleteCategoryHandler(repo domain.CategoryRepository, items domain.ItemStatsProvider) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{repo: repo, items: items}
}

// Handle executes the delete category command
func (h *DeleteCategoryHandler) Handle(cmd DeleteCategoryCommand) error {
	switch cmd.Policy {
	case domain.DeletePolicyReject, domain.DeletePolicyReassignToParent:
	case "":
		return apperrors.NewValidation("delete policy is required")
	default:
		return apperrors.NewValidation(fmt.Sprintf("unknown delete policy: %s", cmd.Policy))
	}

	category, err := h.repo.FindByID(cmd.CategoryID)
	if err != nil {
		return apperrors.NewNotFound("category", cmd.CategoryID)
	}

	childCount, err := h.repo.CountChildren(cmd.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to count children: %w", err)
	}
	itemCount, err := h.items.CountInCategory(cmd.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}

	if cmd.Policy == domain.DeletePolicyReject {
		if childCount > 0 || itemCount > 0 {
			return apperrors.NewState(
				"category %d is not empty: %d children, %d items",
				cmd.CategoryID, childCount, itemCount,
			)
		}
		return h.repo.Delete(cmd.CategoryID)
	}

	// reassign_to_parent
	if category.ParentID == nil && (childCount > 0 || itemCount > 0) {
		return apperrors.NewState("category %d has no parent to absorb its children and items", cmd.CategoryID)
	}

	if childCount > 0 {
		categories, err := h.repo.FindAll(true)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		snapshot := domain.NewSnapshot(categories)

		// Children rise one level together with their subtrees
		levels := make(map[uint]int)
		for _, childID := range snapshot.Children(cmd.CategoryID) {
			for id, level := range snapshot.SubtreeLevels(childID, category.Level) {
				levels[id] = level
			}
		}
		if err := h.repo.ReassignChildren(cmd.CategoryID, category.ParentID, levels); err != nil {
			return fmt.Errorf("failed to reassign children: %w", err)
		}
	}

	if itemCount > 0 {
		if err := h.items.ReassignCategory(cmd.CategoryID, category.ParentID); err != nil {
			return fmt.Errorf("failed to reassign items: %w", err)
		}
	}

	if err := h.repo.Delete(cmd.CategoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
