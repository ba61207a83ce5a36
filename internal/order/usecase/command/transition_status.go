package command

import (
	"context"
	"fmt"

	"github.com/tair/qr-order/internal/notifier"
	"github.com/tair/qr-order/internal/order/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
	"github.com/tair/qr-order/pkg/logger"
)

// TransitionStatusCommand moves an order to a new status
type TransitionStatusCommand struct {
	OrderID string
	Status  string
}

// TransitionStatusHandler handles transition status command
type TransitionStatusHandler struct {
	orders    domain.Repository
	occupancy TableOccupancy
	tx        *database.Transactor
	notifier  notifier.Publisher
}

// NewTransitionStatusHandler creates a new transition status handler
func NewTransitionStatusHandler(
	orders domain.Repository,
	occupancy TableOccupancy,
	tx *database.Transactor,
	publisher notifier.Publisher,
) *TransitionStatusHandler {
	return &TransitionStatusHandler{orders: orders, occupancy: occupancy, tx: tx, notifier: publisher}
}

// Handle validates the move against the status table and writes it with a
// compare-and-set on the current status. Terminal statuses let the table go.
func (h *TransitionStatusHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) (*domain.Order, error) {
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("%w: order id is required", apperr.ErrInvalidPayload)
	}
	next, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !from.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", apperr.ErrInvalidTransition, from, next)
	}

	released := false
	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		changed, err := h.orders.UpdateStatusIf(ctx, order.ID, from, next)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("%w: order %s is no longer %s", apperr.ErrInvalidTransition, order.ID, from)
		}

		if next.IsTerminal() {
			released, err = h.occupancy.ReleaseIfNoActiveOrders(ctx, order.TableID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	statusTransitions.WithLabelValues(string(from), string(next)).Inc()

	updated, err := h.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	logger.Info(ctx).
		Str("order_id", updated.ID).
		Str("table_id", updated.TableID).
		Str("from", string(from)).
		Str("status", string(next)).
		Bool("table_released", released).
		Msg("Order status changed")

	message := next.Message()
	h.notifier.Publish(ctx, notifier.TableChannel(updated.TableID), notifier.Event{
		Type:    notifier.EventOrderStatusUpdate,
		OrderID: updated.ID,
		TableID: updated.TableID,
		Status:  string(next),
		Message: message,
	})
	h.notifier.Publish(ctx, notifier.StaffChannel, notifier.Event{
		Type:    notifier.EventOrderUpdated,
		OrderID: updated.ID,
		TableID: updated.TableID,
		Status:  string(next),
		Message: message,
		Order:   updated,
	})

	return updated, nil
}
