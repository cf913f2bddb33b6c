//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	alertdomain "github.com/gemdesk/inventory-service/internal/alert/domain"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	categoryrepo "github.com/gemdesk/inventory-service/internal/category/repository"
	exportdomain "github.com/gemdesk/inventory-service/internal/export/domain"
	"github.com/gemdesk/inventory-service/internal/export/manager"
	exportrepo "github.com/gemdesk/inventory-service/internal/export/repository"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
	itemrepo "github.com/gemdesk/inventory-service/internal/item/repository"
	"github.com/gemdesk/inventory-service/kafka"

	alerthttp "github.com/gemdesk/inventory-service/internal/alert/delivery/http"
	categoryhttp "github.com/gemdesk/inventory-service/internal/category/delivery/http"
	exporthttp "github.com/gemdesk/inventory-service/internal/export/delivery/http"
	itemhttp "github.com/gemdesk/inventory-service/internal/item/delivery/http"
)

// ProvideCategoryRepository provides the category repository with tracing
func ProvideCategoryRepository(db *gorm.DB) categorydomain.CategoryRepository {
	return categoryrepo.NewGormCategoryRepositoryWithTracing(db)
}

// ProvideItemRepository provides the item repository with tracing
func ProvideItemRepository(db *gorm.DB) itemdomain.ItemRepository {
	return itemrepo.NewGormItemRepositoryWithTracing(db)
}

// ProvideItemStatsProvider exposes the item repository as the category
// tree's stats source
func ProvideItemStatsProvider(repo itemdomain.ItemRepository) categorydomain.ItemStatsProvider {
	return repo.(categorydomain.ItemStatsProvider)
}

// ProvideExportJobRepository provides the export job repository
func ProvideExportJobRepository(db *gorm.DB) exportdomain.ExportJobRepository {
	return exportrepo.NewGormExportJobRepository(db)
}

// ProvideExportSource provides the export data source
func ProvideExportSource(items itemdomain.ItemRepository, categories categorydomain.CategoryRepository, cfg alertdomain.ClassifierConfig) manager.Source {
	return manager.NewRepositorySource(items, categories, cfg)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCategoryRepository,
	ProvideItemRepository,
	ProvideItemStatsProvider,
	ProvideExportJobRepository,
)

// Handlers bundles every HTTP handler plus the export manager lifecycle
type Handlers struct {
	Category *categoryhttp.CategoryHandler
	Item     *itemhttp.ItemHandler
	Alert    *alerthttp.AlertHandler
	Export   *exporthttp.ExportHandler
	Exports  *manager.Manager
}

// NewHandlers creates the handler bundle
func NewHandlers(category *categoryhttp.CategoryHandler, item *itemhttp.ItemHandler, alert *alerthttp.AlertHandler, export *exporthttp.ExportHandler, exports *manager.Manager) *Handlers {
	return &Handlers{
		Category: category,
		Item:     item,
		Alert:    alert,
		Export:   export,
		Exports:  exports,
	}
}

// InitializeHandlers initializes all HTTP handlers with their dependencies
func InitializeHandlers(db *gorm.DB, redisClient *redis.Client, publisher *kafka.Publisher, classifierCfg alertdomain.ClassifierConfig, exportOpts manager.Options) (*Handlers, error) {
	wire.Build(
		RepositorySet,
		ProvideExportSource,
		manager.NewManager,
		categoryhttp.NewCategoryHandler,
		itemhttp.NewItemHandler,
		alerthttp.NewAlertHandler,
		exporthttp.NewExportHandler,
		NewHandlers,
	)
	return nil, nil
}
