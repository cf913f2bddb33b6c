package manager

import (
	"time"

	alertdomain "github.com/gemdesk/inventory-service/internal/alert/domain"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
)

// Source supplies the data slices a job materializes. Fakes implement it in
// tests; the repository-backed implementation is used in production.
type Source interface {
	Items() ([]itemdomain.InventoryItem, error)
	Categories() ([]categorydomain.Category, error)
	Movements(from, to time.Time) ([]itemdomain.InventoryMovement, error)
	Alerts() ([]alertdomain.LowStockAlert, error)
}

// RepositorySource reads export data from the live repositories
type RepositorySource struct {
	items      itemdomain.ItemRepository
	categories categorydomain.CategoryRepository
	classifier alertdomain.ClassifierConfig
}

// NewRepositorySource creates a repository-backed export source
func NewRepositorySource(items itemdomain.ItemRepository, categories categorydomain.CategoryRepository, classifier alertdomain.ClassifierConfig) *RepositorySource {
	return &RepositorySource{items: items, categories: categories, classifier: classifier}
}

func (s *RepositorySource) Items() ([]itemdomain.InventoryItem, error) {
	return s.items.FindAll(false)
}

func (s *RepositorySource) Categories() ([]categorydomain.Category, error) {
	return s.categories.FindAll(false)
}

func (s *RepositorySource) Movements(from, to time.Time) ([]itemdomain.InventoryMovement, error) {
	return s.items.MovementsInRange(from, to)
}

func (s *RepositorySource) Alerts() ([]alertdomain.LowStockAlert, error) {
	items, err := s.items.FindAll(false)
	if err != nil {
		return nil, err
	}

	alerts := make([]alertdomain.LowStockAlert, 0)
	for i := range items {
		item := &items[i]
		alert, ok := alertdomain.NewLowStockAlert(
			item.ID, item.Name, item.SKU, item.CategoryID,
			item.StockQuantity, item.MinStockLevel, item.CostPrice, s.classifier,
		)
		if ok {
			alerts = append(alerts, *alert)
		}
	}
	return alerts, nil
}
