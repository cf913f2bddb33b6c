package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/gemdesk/inventory-service/internal/category/domain"
)

var tracer = otel.Tracer("category-repository")

// GormCategoryRepositoryWithTracing wraps GormCategoryRepository with tracing
type GormCategoryRepositoryWithTracing struct {
	*GormCategoryRepository
}

// NewGormCategoryRepositoryWithTracing creates a new repository with tracing
func NewGormCategoryRepositoryWithTracing(db *gorm.DB) *GormCategoryRepositoryWithTracing {
	return &GormCategoryRepositoryWithTracing{
		GormCategoryRepository: NewGormCategoryRepository(db),
	}
}

// CreateWithContext records a span around Create
func (r *GormCategoryRepositoryWithTracing) CreateWithContext(ctx context.Context, category *domain.Category) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("category.name", category.Name),
			attribute.String("category.business_type", category.BusinessType),
			attribute.Int("category.level", category.Level),
		),
	)
	defer span.End()

	err := r.GormCategoryRepository.Create(category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("category.id", int(category.ID)))
	return nil
}

// FindAllWithContext records a span around FindAll
func (r *GormCategoryRepositoryWithTracing) FindAllWithContext(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	_, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Bool("query.include_inactive", includeInactive),
		),
	)
	defer span.End()

	categories, err := r.GormCategoryRepository.FindAll(includeInactive)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(categories)))
	return categories, nil
}

// MoveWithContext records a span around Move
func (r *GormCategoryRepositoryWithTracing) MoveWithContext(ctx context.Context, categoryID uint, newParentID *uint, levels map[uint]int) error {
	_, span := tracer.Start(ctx, "repository.Move",
		trace.WithAttributes(
			attribute.Int("category.id", int(categoryID)),
			attribute.Int("move.subtree_size", len(levels)),
		),
	)
	defer span.End()

	err := r.GormCategoryRepository.Move(categoryID, newParentID, levels)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// DeleteWithContext records a span around Delete
func (r *GormCategoryRepositoryWithTracing) DeleteWithContext(ctx context.Context, id uint) error {
	_, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(
			attribute.Int("category.id", int(id)),
		),
	)
	defer span.End()

	err := r.GormCategoryRepository.Delete(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
