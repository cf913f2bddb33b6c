package query

import (
	"sort"
	"strings"

	"github.com/gemdesk/inventory-service/internal/item/domain"
)

// Code match modes for SKU and barcode filters
const (
	MatchExact  = "exact"
	MatchPrefix = "prefix"
)

// CodeFilter matches a SKU or barcode either exactly or by prefix
type CodeFilter struct {
	Value string `json:"value"`
	Mode  string `json:"mode"`
}

// Sort keys accepted by the search engine
const (
	SortByName      = "name"
	SortBySKU       = "sku"
	SortByStock     = "stock_quantity"
	SortByValue     = "value"
	SortByCreatedAt = "created_at"
)

// Sort directions
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// matchesFilter evaluates every predicate of the spec against one item.
// Predicates combine with logical AND; an empty spec matches all active items.
func matchesFilter(item *domain.InventoryItem, spec *FilterSpec, categorySet map[uint]bool) bool {
	if !spec.IncludeInactive && !item.IsActive {
		return false
	}

	if spec.Query != "" {
		q := strings.ToLower(spec.Query)
		if !strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) &&
			!strings.Contains(strings.ToLower(item.SKU), q) {
			return false
		}
	}

	if categorySet != nil && !categorySet[item.CategoryID] {
		return false
	}

	if spec.BusinessType != "" && item.BusinessType != spec.BusinessType {
		return false
	}

	for key, want := range spec.Attributes {
		got, ok := item.Attributes[key]
		if !ok || got != want {
			return false
		}
	}

	for _, tag := range spec.Tags {
		if !item.HasTag(tag) {
			return false
		}
	}

	if spec.SKU != nil && !matchesCode(item.SKU, spec.SKU) {
		return false
	}
	if spec.Barcode != nil {
		if item.Barcode == nil || !matchesCode(*item.Barcode, spec.Barcode) {
			return false
		}
	}

	if spec.LowStockOnly && !item.IsLowStock() {
		return false
	}
	if spec.OutOfStockOnly && !item.IsOutOfStock() {
		return false
	}

	return true
}

func matchesCode(code string, filter *CodeFilter) bool {
	switch filter.Mode {
	case MatchPrefix:
		return strings.HasPrefix(code, filter.Value)
	default:
		return code == filter.Value
	}
}

// sortItems orders items by the requested key. The sort is stable and ties
// are broken by ID ascending so pagination is deterministic.
func sortItems(items []domain.InventoryItem, sortBy, order string) {
	desc := order == OrderDesc

	less := func(a, b *domain.InventoryItem) bool {
		var result int
		switch sortBy {
		case SortBySKU:
			result = strings.Compare(a.SKU, b.SKU)
		case SortByStock:
			result = compareInt(a.StockQuantity, b.StockQuantity)
		case SortByValue:
			result = compareFloat(a.StockValue(), b.StockValue())
		case SortByCreatedAt:
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				result = -1
			case a.CreatedAt.After(b.CreatedAt):
				result = 1
			}
		default: // SortByName
			result = strings.Compare(a.Name, b.Name)
		}

		if desc {
			result = -result
		}
		if result != 0 {
			return result < 0
		}
		// Final tie-break is always ID ascending, regardless of direction
		return a.ID < b.ID
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(&items[i], &items[j])
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
