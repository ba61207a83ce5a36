package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/qr-order/internal/inventory/cache"
	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/internal/notifier"
	"github.com/tair/qr-order/internal/order/domain"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
	"github.com/tair/qr-order/pkg/logger"
	"github.com/tair/qr-order/pkg/money"
)

// QuantityPolicy decides what happens to a missing or non-positive item quantity
type QuantityPolicy string

const (
	// QuantityClamp orders one unit instead
	QuantityClamp QuantityPolicy = "clamp"
	// QuantityStrict rejects the order with ErrInvalidPayload
	QuantityStrict QuantityPolicy = "strict"
)

// ParseQuantityPolicy accepts "clamp" or "strict"; empty means clamp
func ParseQuantityPolicy(s string) (QuantityPolicy, error) {
	switch QuantityPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", QuantityClamp:
		return QuantityClamp, nil
	case QuantityStrict:
		return QuantityStrict, nil
	default:
		return "", fmt.Errorf("unknown quantity policy %q", s)
	}
}

// TableOccupancy is the part of the table manager the order engine drives
type TableOccupancy interface {
	MarkOccupied(ctx context.Context, tableID string) error
	ReleaseIfNoActiveOrders(ctx context.Context, tableID string) (bool, error)
}

// TableLookup resolves table ids
type TableLookup interface {
	FindByID(ctx context.Context, id string) (*tabledomain.Table, error)
}

// ItemRequest is one requested line. Quantity zero means missing.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateOrderCommand represents a customer's order submission
type CreateOrderCommand struct {
	TableID string
	Items   []ItemRequest
}

// CommandFromCart turns a client cart into an order submission
func CommandFromCart(cart *domain.Cart) CreateOrderCommand {
	cmd := CreateOrderCommand{TableID: cart.TableID}
	for _, line := range cart.Lines {
		cmd.Items = append(cmd.Items, ItemRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return cmd
}

// CreateOrderHandler handles create order command
type CreateOrderHandler struct {
	orders    domain.Repository
	products  inventorydomain.ProductRepository
	ledger    inventorydomain.Ledger
	menu      cache.MenuCache
	tables    TableLookup
	occupancy TableOccupancy
	tx        *database.Transactor
	notifier  notifier.Publisher
	policy    QuantityPolicy
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(
	orders domain.Repository,
	products inventorydomain.ProductRepository,
	ledger inventorydomain.Ledger,
	menuCache cache.MenuCache,
	tables TableLookup,
	occupancy TableOccupancy,
	tx *database.Transactor,
	publisher notifier.Publisher,
	policy QuantityPolicy,
) *CreateOrderHandler {
	if policy == "" {
		policy = QuantityClamp
	}
	return &CreateOrderHandler{
		orders:    orders,
		products:  products,
		ledger:    ledger,
		menu:      menuCache,
		tables:    tables,
		occupancy: occupancy,
		tx:        tx,
		notifier:  publisher,
		policy:    policy,
	}
}

// Handle validates the submission, then creates the order, decrements stock
// and occupies the table in one transaction. Events go out after commit.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	order, err := h.create(ctx, cmd)
	if err != nil {
		ordersRejected.WithLabelValues(rejectReason(err)).Inc()
		logger.Warn(ctx).
			Err(err).
			Str("table_id", cmd.TableID).
			Int("items", len(cmd.Items)).
			Msg("Order rejected")
		return nil, err
	}
	ordersCreated.Inc()
	// the order drained stock, which decides menu visibility
	h.menu.Invalidate(ctx)

	logger.Info(ctx).
		Str("order_id", order.ID).
		Str("table_id", order.TableID).
		Int64("total_cents", order.TotalCents).
		Int("items", len(order.Items)).
		Msg("Order created")

	h.notifier.Publish(ctx, notifier.StaffChannel, notifier.Event{
		Type:    notifier.EventNewOrder,
		OrderID: order.ID,
		TableID: order.TableID,
		Status:  string(order.Status),
		Message: newOrderMessage(order),
		Order:   order,
	})
	h.announceLowStock(ctx, order)

	return order, nil
}

func (h *CreateOrderHandler) create(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	items, err := h.normalize(cmd)
	if err != nil {
		return nil, err
	}

	if _, err := h.tables.FindByID(ctx, cmd.TableID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: table %s does not exist", apperr.ErrInvalidTable, cmd.TableID)
		}
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	products, err := h.lookupProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		TableID: cmd.TableID,
		Status:  domain.StatusPending,
		Items:   make([]domain.OrderItem, 0, len(items)),
	}
	lines := make([]inventorydomain.StockLine, 0, len(items))
	for i, item := range items {
		p := products[item.ProductID]
		order.Items = append(order.Items, domain.OrderItem{
			Line:       i + 1,
			ProductID:  p.ID,
			Quantity:   item.Quantity,
			PriceCents: p.PriceCents,
		})
		order.TotalCents += money.Multiply(p.PriceCents, item.Quantity)
		lines = append(lines, inventorydomain.StockLine{ProductID: p.ID, Quantity: item.Quantity})
	}

	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := h.orders.Create(ctx, order); err != nil {
			return err
		}
		if err := h.ledger.ReserveAndDecrement(ctx, lines); err != nil {
			return err
		}
		return h.occupancy.MarkOccupied(ctx, cmd.TableID)
	})
	if err != nil {
		return nil, err
	}

	created, err := h.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return created, nil
}

// normalize checks required fields and applies the quantity policy
func (h *CreateOrderHandler) normalize(cmd CreateOrderCommand) ([]ItemRequest, error) {
	if strings.TrimSpace(cmd.TableID) == "" {
		return nil, fmt.Errorf("%w: table_id is required", apperr.ErrInvalidPayload)
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", apperr.ErrInvalidPayload)
	}

	items := make([]ItemRequest, 0, len(cmd.Items))
	for i, item := range cmd.Items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: item %d has no product_id", apperr.ErrInvalidPayload, i+1)
		}
		if item.Quantity < 1 {
			if h.policy == QuantityStrict {
				return nil, fmt.Errorf("%w: item %d quantity must be at least 1", apperr.ErrInvalidPayload, i+1)
			}
			item.Quantity = 1
		}
		items = append(items, item)
	}
	return items, nil
}

// lookupProducts resolves every product and fails fast on what is obviously
// not orderable. The ledger decrement stays the authoritative stock check.
func (h *CreateOrderHandler) lookupProducts(ctx context.Context, items []ItemRequest) (map[string]inventorydomain.Product, error) {
	ids := make([]string, 0, len(items))
	requested := make(map[string]int, len(items))
	for _, item := range items {
		if _, ok := requested[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	found, err := h.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	products := make(map[string]inventorydomain.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	for _, id := range ids {
		p, ok := products[id]
		if !ok || !p.Orderable {
			return nil, fmt.Errorf("%w: product %s", apperr.ErrProductUnavailable, id)
		}
		if p.Quantity < requested[id] {
			return nil, &inventorydomain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   requested[id],
				Available:   p.Quantity,
			}
		}
	}
	return products, nil
}

// announceLowStock tells staff which of the ordered products fell to or below their minimum
func (h *CreateOrderHandler) announceLowStock(ctx context.Context, order *domain.Order) {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := h.products.FindByIDs(ctx, ids)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("order_id", order.ID).Msg("Failed to check stock levels")
		return
	}

	var low []map[string]interface{}
	var names []string
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		low = append(low, map[string]interface{}{
			"product_id": p.ID,
			"name":       p.Name,
			"quantity":   p.Quantity,
			"min_stock":  p.MinStock,
			"status":     p.StockStatus(),
		})
		names = append(names, fmt.Sprintf("%s (%d left)", p.Name, p.Quantity))
	}
	if len(low) == 0 {
		return
	}

	h.notifier.Publish(ctx, notifier.StaffChannel, notifier.Event{
		Type:    notifier.EventStaffBroadcast,
		OrderID: order.ID,
		Message: "Low stock: " + strings.Join(names, ", "),
		Data: map[string]interface{}{
			"kind":     "stock-alert",
			"products": low,
		},
	})
}

func newOrderMessage(order *domain.Order) string {
	table := order.TableID
	if order.Table != nil {
		table = order.Table.Name
	}
	return fmt.Sprintf("New order from %s: %d item(s), total %s", table, len(order.Items), money.Format(order.TotalCents))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, apperr.ErrInvalidTable):
		return "invalid_table"
	case errors.Is(err, apperr.ErrProductUnavailable):
		return "product_unavailable"
	case errors.Is(err, apperr.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "error"
	}
}
