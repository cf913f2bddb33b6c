package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/gemdesk/inventory-service/internal/item/domain"
)

var tracer = otel.Tracer("item-repository")

// GormItemRepositoryWithTracing wraps GormItemRepository with tracing
type GormItemRepositoryWithTracing struct {
	*GormItemRepository
}

// NewGormItemRepositoryWithTracing creates a new repository with tracing
func NewGormItemRepositoryWithTracing(db *gorm.DB) *GormItemRepositoryWithTracing {
	return &GormItemRepositoryWithTracing{
		GormItemRepository: NewGormItemRepository(db),
	}
}

// CreateWithContext records a span around Create
func (r *GormItemRepositoryWithTracing) CreateWithContext(ctx context.Context, item *domain.InventoryItem) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("item.sku", item.SKU),
			attribute.String("item.name", item.Name),
			attribute.Int("item.category_id", int(item.CategoryID)),
			attribute.Int("item.stock_quantity", item.StockQuantity),
		),
	)
	defer span.End()

	err := r.GormItemRepository.Create(item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("item.id", int(item.ID)))
	return nil
}

// AdjustStockWithContext records a span around AdjustStock
func (r *GormItemRepositoryWithTracing) AdjustStockWithContext(ctx context.Context, movement *domain.InventoryMovement) (int, error) {
	_, span := tracer.Start(ctx, "repository.AdjustStock",
		trace.WithAttributes(
			attribute.Int("item.id", int(movement.ItemID)),
			attribute.String("movement.type", movement.Type),
			attribute.Int("movement.quantity_delta", movement.QuantityDelta),
		),
	)
	defer span.End()

	newQuantity, err := r.GormItemRepository.AdjustStock(movement)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int("item.new_quantity", newQuantity))
	return newQuantity, nil
}

// FindAllWithContext records a span around FindAll
func (r *GormItemRepositoryWithTracing) FindAllWithContext(ctx context.Context, includeInactive bool) ([]domain.InventoryItem, error) {
	_, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Bool("query.include_inactive", includeInactive),
		),
	)
	defer span.End()

	items, err := r.GormItemRepository.FindAll(includeInactive)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}
