package query

import (
	"fmt"

	"github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// GetTreeQuery represents the query for a category tree
type GetTreeQuery struct {
	RootID          *uint
	MaxDepth        int // 0 means unlimited
	IncludeStats    bool
	BusinessType    string // optional scope
	IncludeInactive bool
}

// GetTreeHandler handles the category tree query
type GetTreeHandler struct {
	repo  domain.CategoryRepository
	items domain.ItemStatsProvider
}

// NewGetTreeHandler creates a new get tree handler
func NewGetTreeHandler(repo domain.CategoryRepository, items domain.ItemStatsProvider) *GetTreeHandler {
	return &GetTreeHandler{repo: repo, items: items}
}

// Handle executes the tree query. Stats are recomputed per call by a
// post-order traversal over a consistent snapshot; nothing is cached here.
func (h *GetTreeHandler) Handle(query GetTreeQuery) ([]*domain.TreeNode, error) {
	if query.MaxDepth < 0 {
		return nil, apperrors.NewValidation("max_depth cannot be negative")
	}

	categories, err := h.repo.FindAll(query.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	if query.BusinessType != "" {
		filtered := categories[:0]
		for _, c := range categories {
			if c.BusinessType == query.BusinessType {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}

	snapshot := domain.NewSnapshot(categories)

	if query.RootID != nil {
		if _, ok := snapshot.Get(*query.RootID); !ok {
			return nil, apperrors.NewNotFound("category", *query.RootID)
		}
	}

	var stats map[uint]domain.Stats
	if query.IncludeStats {
		totals, err := h.items.TotalsByCategory()
		if err != nil {
			return nil, fmt.Errorf("failed to load item totals: %w", err)
		}
		stats = snapshot.Aggregate(totals)
	}

	return snapshot.Build(query.RootID, query.MaxDepth, stats), nil
}
