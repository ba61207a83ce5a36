package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/logger"
)

// CreateCategoryCommand represents the command to create a menu category
type CreateCategoryCommand struct {
	Name string
}

// CreateCategoryHandler handles create category command
type CreateCategoryHandler struct {
	repo  domain.ProductRepository
	cache cache.MenuCache
}

// NewCreateCategoryHandler creates a new create category handler
func NewCreateCategoryHandler(repo domain.ProductRepository, menuCache cache.MenuCache) *CreateCategoryHandler {
	return &CreateCategoryHandler{repo: repo, cache: menuCache}
}

// Handle executes the create category command
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperr.ErrInvalidPayload)
	}

	category := &domain.Category{Name: name}
	if err := h.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	h.cache.Invalidate(ctx)

	logger.Info(ctx).Str("category_id", category.ID).Str("name", name).Msg("Category created")
	return category, nil
}

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	Name       string
	PriceCents int64
	Quantity   int
	MinStock   int
	CategoryID string
	// Orderable defaults to true when nil
	Orderable *bool
}

// CreateProductHandler handles create product command
type CreateProductHandler struct {
	repo  domain.ProductRepository
	cache cache.MenuCache
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository, menuCache cache.MenuCache) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, cache: menuCache}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	name := strings.TrimSpace(cmd.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: product name is required", apperr.ErrInvalidPayload)
	case cmd.PriceCents < 0:
		return nil, fmt.Errorf("%w: price cannot be negative", apperr.ErrInvalidPayload)
	case cmd.Quantity < 0:
		return nil, fmt.Errorf("%w: quantity cannot be negative", apperr.ErrInvalidPayload)
	case cmd.MinStock < 0:
		return nil, fmt.Errorf("%w: min stock cannot be negative", apperr.ErrInvalidPayload)
	case cmd.CategoryID == "":
		return nil, fmt.Errorf("%w: category_id is required", apperr.ErrInvalidPayload)
	}

	if err := requireCategory(ctx, h.repo, cmd.CategoryID); err != nil {
		return nil, err
	}

	orderable := true
	if cmd.Orderable != nil {
		orderable = *cmd.Orderable
	}

	product := &domain.Product{
		Name:       name,
		PriceCents: cmd.PriceCents,
		Quantity:   cmd.Quantity,
		MinStock:   cmd.MinStock,
		Orderable:  orderable,
		CategoryID: cmd.CategoryID,
	}
	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	h.cache.Invalidate(ctx)

	logger.Info(ctx).
		Str("product_id", product.ID).
		Str("name", product.Name).
		Int("quantity", product.Quantity).
		Msg("Product created")
	return product, nil
}

func requireCategory(ctx context.Context, repo domain.ProductRepository, id string) error {
	if _, err := repo.FindCategory(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("%w: unknown category %s", apperr.ErrInvalidPayload, id)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}
