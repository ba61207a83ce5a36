package query

import (
	"context"
	"fmt"

	"github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

// GetTableHandler returns one table, used by the customer page to validate a scanned code
type GetTableHandler struct {
	repo domain.Repository
}

// NewGetTableHandler creates a new get table handler
func NewGetTableHandler(repo domain.Repository) *GetTableHandler {
	return &GetTableHandler{repo: repo}
}

// Handle executes the get table query
func (h *GetTableHandler) Handle(ctx context.Context, id string) (*domain.Table, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: table id is required", apperr.ErrInvalidPayload)
	}
	return h.repo.FindByID(ctx, id)
}

// ListTablesHandler lists every table with its occupancy
type ListTablesHandler struct {
	repo domain.Repository
}

// NewListTablesHandler creates a new list tables handler
func NewListTablesHandler(repo domain.Repository) *ListTablesHandler {
	return &ListTablesHandler{repo: repo}
}

// Handle executes the list tables query
func (h *ListTablesHandler) Handle(ctx context.Context) ([]domain.Table, error) {
	tables, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}
