package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gemdesk/inventory-service/internal/alert/domain"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// Sort keys accepted by the alert feed
const (
	SortByUrgency  = "urgency"
	SortByName     = "name"
	SortByShortage = "shortage"
	SortByValue    = "value"
)

// Sort directions
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListAlertsQuery represents the query for the low-stock alert feed
type ListAlertsQuery struct {
	ThresholdMultiplier float64 // 0 means the configured default
	CategoryIDs         []uint  // optional scope; expanded to descendants
	BusinessType        string
	Levels              []domain.AlertLevel // optional subset; empty means all
	SortBy              string
	SortOrder           string
}

// ListAlertsHandler handles the alert feed query
type ListAlertsHandler struct {
	items      itemdomain.ItemRepository
	categories categorydomain.CategoryRepository
	cfg        domain.ClassifierConfig
}

// NewListAlertsHandler creates a new list alerts handler
func NewListAlertsHandler(items itemdomain.ItemRepository, categories categorydomain.CategoryRepository, cfg domain.ClassifierConfig) *ListAlertsHandler {
	return &ListAlertsHandler{items: items, categories: categories, cfg: cfg}
}

// Handle executes the alert feed query. Read-only: it either returns a
// complete, consistent result or a single error.
func (h *ListAlertsHandler) Handle(query ListAlertsQuery) ([]domain.LowStockAlert, error) {
	cfg := h.cfg.WithMultiplier(query.ThresholdMultiplier)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var violations []string
	switch query.SortBy {
	case "", SortByUrgency, SortByName, SortByShortage, SortByValue:
	default:
		violations = append(violations, fmt.Sprintf("unknown sort key '%s'", query.SortBy))
	}
	switch query.SortOrder {
	case "", OrderAsc, OrderDesc:
	default:
		violations = append(violations, fmt.Sprintf("unknown sort order '%s'", query.SortOrder))
	}
	for _, level := range query.Levels {
		if !domain.ValidAlertLevel(level) {
			violations = append(violations, fmt.Sprintf("unknown alert level '%s'", level))
		}
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidation(violations...)
	}

	categorySet, err := h.expandCategories(query.CategoryIDs)
	if err != nil {
		return nil, err
	}

	levelSet := make(map[domain.AlertLevel]bool, len(query.Levels))
	for _, level := range query.Levels {
		levelSet[level] = true
	}

	items, err := h.items.FindAll(false)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	alerts := make([]domain.LowStockAlert, 0)
	for i := range items {
		item := &items[i]
		if categorySet != nil && !categorySet[item.CategoryID] {
			continue
		}
		if query.BusinessType != "" && item.BusinessType != query.BusinessType {
			continue
		}

		alert, ok := domain.NewLowStockAlert(
			item.ID, item.Name, item.SKU, item.CategoryID,
			item.StockQuantity, item.MinStockLevel, item.CostPrice, cfg,
		)
		if !ok {
			continue
		}
		if len(levelSet) > 0 && !levelSet[alert.AlertLevel] {
			continue
		}
		alerts = append(alerts, *alert)
	}

	sortAlerts(alerts, query.SortBy, query.SortOrder)
	return alerts, nil
}

func (h *ListAlertsHandler) expandCategories(ids []uint) (map[uint]bool, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	categories, err := h.categories.FindAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	snapshot := categorydomain.NewSnapshot(categories)

	set := make(map[uint]bool)
	for _, id := range ids {
		if _, ok := snapshot.Get(id); !ok {
			return nil, apperrors.NewValidation(fmt.Sprintf("category %d does not exist", id))
		}
		for _, subID := range snapshot.SubtreeIDs(id) {
			set[subID] = true
		}
	}
	return set, nil
}

// sortAlerts orders the feed by the chosen key; ItemID ascending is always
// the final tie-break so repeated sorts yield identical output
func sortAlerts(alerts []domain.LowStockAlert, sortBy, order string) {
	desc := order == OrderDesc
	if sortBy == "" || sortBy == SortByUrgency {
		// Urgency defaults to most severe first
		desc = order != OrderAsc
	}

	less := func(a, b *domain.LowStockAlert) bool {
		var result int
		switch sortBy {
		case SortByName:
			result = strings.Compare(a.ItemName, b.ItemName)
		case SortByShortage:
			result = compareInt(a.Shortage, b.Shortage)
		case SortByValue:
			result = compareFloat(a.PotentialLostSales, b.PotentialLostSales)
		default: // urgency: severity tier, then urgency score
			result = compareInt(a.AlertLevel.Priority(), b.AlertLevel.Priority())
			if result == 0 {
				result = compareInt(a.UrgencyScore, b.UrgencyScore)
			}
		}

		if desc {
			result = -result
		}
		if result != 0 {
			return result < 0
		}
		return a.ItemID < b.ItemID
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return less(&alerts[i], &alerts[j])
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
