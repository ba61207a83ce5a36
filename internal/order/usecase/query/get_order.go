package query

import (
	"context"
	"fmt"

	"github.com/tair/qr-order/internal/order/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

// GetOrderHandler returns one order with its items, for the customer status page
type GetOrderHandler struct {
	repo domain.Repository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(repo domain.Repository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", apperr.ErrInvalidPayload)
	}
	return h.repo.FindByID(ctx, id)
}

// ListOrdersQuery filters the staff order board
type ListOrdersQuery struct {
	Status  string
	TableID string
	Limit   int
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	repo domain.Repository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(repo domain.Repository) *ListOrdersHandler {
	return &ListOrdersHandler{repo: repo}
}

// Handle executes the list orders query, newest first and at most 200
func (h *ListOrdersHandler) Handle(ctx context.Context, q ListOrdersQuery) ([]domain.Order, error) {
	filter := domain.ListFilter{TableID: q.TableID, Limit: q.Limit}
	if q.Status != "" {
		status, err := domain.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	orders, err := h.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
