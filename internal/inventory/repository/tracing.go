package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

var tracer = otel.Tracer("inventory-repository")

// TracingProductRepository wraps GormProductRepository with tracing
type TracingProductRepository struct {
	*GormProductRepository
}

// NewTracingProductRepository creates a new repository with tracing
func NewTracingProductRepository(db *gorm.DB) *TracingProductRepository {
	return &TracingProductRepository{
		GormProductRepository: NewGormProductRepository(db),
	}
}

// FindByID with tracing
func (r *TracingProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindProduct",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	product, err := r.GormProductRepository.FindByID(ctx, id)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.quantity", product.Quantity))
	return product, nil
}

// FindByIDs with tracing
func (r *TracingProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindProducts",
		trace.WithAttributes(attribute.StringSlice("product.ids", ids)),
	)
	defer span.End()

	products, err := r.GormProductRepository.FindByIDs(ctx, ids)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// Menu with tracing
func (r *TracingProductRepository) Menu(ctx context.Context) ([]domain.MenuCategory, error) {
	ctx, span := tracer.Start(ctx, "repository.Menu")
	defer span.End()

	menu, err := r.GormProductRepository.Menu(ctx)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.categories", len(menu)))
	return menu, nil
}

// ReserveAndDecrement with tracing
func (r *TracingProductRepository) ReserveAndDecrement(ctx context.Context, lines []domain.StockLine) error {
	ctx, span := tracer.Start(ctx, "ledger.ReserveAndDecrement",
		trace.WithAttributes(attribute.Int("ledger.lines", len(lines))),
	)
	defer span.End()

	err := r.GormProductRepository.ReserveAndDecrement(ctx, lines)
	if err != nil {
		var short *domain.InsufficientStockError
		if errors.As(err, &short) {
			span.SetAttributes(
				attribute.String("ledger.short_product_id", short.ProductID),
				attribute.Int("ledger.available", short.Available),
			)
		}
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// Increment with tracing
func (r *TracingProductRepository) Increment(ctx context.Context, productID string, amount int) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "ledger.Increment",
		trace.WithAttributes(
			attribute.String("product.id", productID),
			attribute.Int("ledger.amount", amount),
		),
	)
	defer span.End()

	product, err := r.GormProductRepository.Increment(ctx, productID, amount)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.quantity", product.Quantity))
	return product, nil
}

// SetQuantity with tracing
func (r *TracingProductRepository) SetQuantity(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "ledger.SetQuantity",
		trace.WithAttributes(
			attribute.String("product.id", productID),
			attribute.Int("quantity.new_value", quantity),
		),
	)
	defer span.End()

	product, err := r.GormProductRepository.SetQuantity(ctx, productID, quantity)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}
	return product, nil
}

// addDBErrorToSpan records err on the span. Client errors keep the span status unset.
func addDBErrorToSpan(span trace.Span, err error) {
	span.RecordError(err)
	if !apperr.IsClientError(err) {
		span.SetStatus(codes.Error, err.Error())
	}
}
