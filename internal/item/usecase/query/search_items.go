package query

import (
	"fmt"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// FilterSpec is the structured search specification. All predicates combine
// with logical AND; an empty spec matches all active items.
type FilterSpec struct {
	Query              string                 `json:"query"`
	CategoryIDs        []uint                 `json:"category_ids"`
	IncludeDescendants bool                   `json:"include_descendants"`
	Attributes         map[string]interface{} `json:"attributes"`
	Tags               []string               `json:"tags"`
	SKU                *CodeFilter            `json:"sku_filter"`
	Barcode            *CodeFilter            `json:"barcode_filter"`
	BusinessType       string                 `json:"business_type"`
	IncludeInactive    bool                   `json:"include_inactive"`
	LowStockOnly       bool                   `json:"low_stock_only"`
	OutOfStockOnly     bool                   `json:"out_of_stock_only"`
	SortBy             string                 `json:"sort_by"`
	SortOrder          string                 `json:"sort_order"`
	Limit              int                    `json:"limit"`
	Offset             int                    `json:"offset"`
}

// Validate checks the bounds and enum fields of the spec
func (s *FilterSpec) Validate() error {
	var violations []string

	if s.Limit <= 0 {
		violations = append(violations, "limit must be positive")
	}
	if s.Offset < 0 {
		violations = append(violations, "offset cannot be negative")
	}
	switch s.SortBy {
	case "", SortByName, SortBySKU, SortByStock, SortByValue, SortByCreatedAt:
	default:
		violations = append(violations, fmt.Sprintf("unknown sort key '%s'", s.SortBy))
	}
	switch s.SortOrder {
	case "", OrderAsc, OrderDesc:
	default:
		violations = append(violations, fmt.Sprintf("unknown sort order '%s'", s.SortOrder))
	}
	if s.SKU != nil && s.SKU.Mode != "" && s.SKU.Mode != MatchExact && s.SKU.Mode != MatchPrefix {
		violations = append(violations, fmt.Sprintf("unknown sku match mode '%s'", s.SKU.Mode))
	}
	if s.Barcode != nil && s.Barcode.Mode != "" && s.Barcode.Mode != MatchExact && s.Barcode.Mode != MatchPrefix {
		violations = append(violations, fmt.Sprintf("unknown barcode match mode '%s'", s.Barcode.Mode))
	}

	if len(violations) > 0 {
		return apperrors.NewValidation(violations...)
	}
	return nil
}

// PageInfo describes the returned page
type PageInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// SearchResult is a filtered, ordered, paginated item set. TotalCount
// reflects the filtered set before pagination.
type SearchResult struct {
	Items      []domain.InventoryItem `json:"items"`
	TotalCount int                    `json:"total_count"`
	PageInfo   PageInfo               `json:"page_info"`
}

// SearchItemsHandler handles the item search query
type SearchItemsHandler struct {
	repo       domain.ItemRepository
	categories categorydomain.CategoryRepository
}

// NewSearchItemsHandler creates a new search items handler
func NewSearchItemsHandler(repo domain.ItemRepository, categories categorydomain.CategoryRepository) *SearchItemsHandler {
	return &SearchItemsHandler{repo: repo, categories: categories}
}

// Handle executes the search as a pure filter/sort pass over the full item
// set, not a re-sort of an already fetched page
func (h *SearchItemsHandler) Handle(spec FilterSpec) (*SearchResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	categorySet, err := h.expandCategories(&spec)
	if err != nil {
		return nil, err
	}

	items, err := h.repo.FindAll(spec.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	matched := make([]domain.InventoryItem, 0, len(items))
	for i := range items {
		if matchesFilter(&items[i], &spec, categorySet) {
			matched = append(matched, items[i])
		}
	}

	sortItems(matched, spec.SortBy, spec.SortOrder)

	total := len(matched)
	start := spec.Offset
	if start > total {
		start = total
	}
	end := start + spec.Limit
	if end > total {
		end = total
	}

	return &SearchResult{
		Items:      matched[start:end],
		TotalCount: total,
		PageInfo: PageInfo{
			Limit:   spec.Limit,
			Offset:  spec.Offset,
			HasMore: end < total,
		},
	}, nil
}

// expandCategories resolves the category scope of the spec. Returns nil when
// the spec has no category filter.
func (h *SearchItemsHandler) expandCategories(spec *FilterSpec) (map[uint]bool, error) {
	if len(spec.CategoryIDs) == 0 {
		return nil, nil
	}

	categories, err := h.categories.FindAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	snapshot := categorydomain.NewSnapshot(categories)

	set := make(map[uint]bool)
	for _, id := range spec.CategoryIDs {
		if _, ok := snapshot.Get(id); !ok {
			return nil, apperrors.NewValidation(fmt.Sprintf("category %d does not exist", id))
		}
		if spec.IncludeDescendants {
			for _, subID := range snapshot.SubtreeIDs(id) {
				set[subID] = true
			}
		} else {
			set[id] = true
		}
	}
	return set, nil
}
