package query

import (
	"context"
	"fmt"

	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/inventory/domain"
)

// GetMenuHandler returns the customer menu, served from cache when possible
type GetMenuHandler struct {
	repo  domain.ProductRepository
	cache cache.MenuCache
}

// NewGetMenuHandler creates a new get menu handler
func NewGetMenuHandler(repo domain.ProductRepository, menuCache cache.MenuCache) *GetMenuHandler {
	return &GetMenuHandler{repo: repo, cache: menuCache}
}

// Handle executes the get menu query
func (h *GetMenuHandler) Handle(ctx context.Context) ([]domain.MenuCategory, error) {
	if menu, ok := h.cache.Get(ctx); ok {
		return menu, nil
	}

	menu, err := h.repo.Menu(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	h.cache.Set(ctx, menu)
	return menu, nil
}
