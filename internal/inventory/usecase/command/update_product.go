package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/logger"
)

// UpdateProductCommand represents a partial product update. Nil fields are kept.
// Price changes never touch orders already placed.
type UpdateProductCommand struct {
	ID         string
	Name       *string
	PriceCents *int64
	MinStock   *int
	CategoryID *string
	Orderable  *bool
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo  domain.ProductRepository
	cache cache.MenuCache
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, menuCache cache.MenuCache) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, cache: menuCache}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", apperr.ErrInvalidPayload)
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty", apperr.ErrInvalidPayload)
		}
		product.Name = name
	}
	if cmd.PriceCents != nil {
		if *cmd.PriceCents < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", apperr.ErrInvalidPayload)
		}
		product.PriceCents = *cmd.PriceCents
	}
	if cmd.MinStock != nil {
		if *cmd.MinStock < 0 {
			return nil, fmt.Errorf("%w: min stock cannot be negative", apperr.ErrInvalidPayload)
		}
		product.MinStock = *cmd.MinStock
	}
	if cmd.CategoryID != nil && *cmd.CategoryID != product.CategoryID {
		if err := requireCategory(ctx, h.repo, *cmd.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *cmd.CategoryID
		product.Category = nil
	}
	if cmd.Orderable != nil {
		product.Orderable = *cmd.Orderable
	}

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	h.cache.Invalidate(ctx)

	logger.Info(ctx).Str("product_id", product.ID).Msg("Product updated")
	return product, nil
}
