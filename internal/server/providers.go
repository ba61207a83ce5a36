package server

import (
	"net/http"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/config"
	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	inventoryhttp "github.com/tair/qr-order/internal/inventory/delivery/http"
	inventoryrepo "github.com/tair/qr-order/internal/inventory/repository"
	inventorycommand "github.com/tair/qr-order/internal/inventory/usecase/command"
	inventoryquery "github.com/tair/qr-order/internal/inventory/usecase/query"
	"github.com/tair/qr-order/internal/notifier"
	notifierhttp "github.com/tair/qr-order/internal/notifier/delivery/http"
	orderhttp "github.com/tair/qr-order/internal/order/delivery/http"
	orderdomain "github.com/tair/qr-order/internal/order/domain"
	orderrepo "github.com/tair/qr-order/internal/order/repository"
	ordercommand "github.com/tair/qr-order/internal/order/usecase/command"
	orderquery "github.com/tair/qr-order/internal/order/usecase/query"
	tablehttp "github.com/tair/qr-order/internal/table/delivery/http"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	tablerepo "github.com/tair/qr-order/internal/table/repository"
	tablecommand "github.com/tair/qr-order/internal/table/usecase/command"
	tablequery "github.com/tair/qr-order/internal/table/usecase/query"
	"github.com/tair/qr-order/pkg/auth"
	"github.com/tair/qr-order/pkg/database"
)

// Server is everything cmd/qrmenu serves and shuts down
type Server struct {
	Handler http.Handler
	Hub     *notifier.Hub
}

// NewServer creates a new server
func NewServer(handler http.Handler, hub *notifier.Hub) *Server {
	return &Server{Handler: handler, Hub: hub}
}

// ProvideTransactor bounds every unit of work by DB_TX_TIMEOUT
func ProvideTransactor(db *gorm.DB, cfg *config.Config) *database.Transactor {
	return database.NewTransactor(db, cfg.TxTimeout)
}

// ProvideValidator provides the staff token validator
func ProvideValidator(cfg *config.Config) *auth.Validator {
	return auth.NewValidator(cfg.JWTSecret)
}

// ProvideHub provides the notifier hub. forwarder may be nil.
func ProvideHub(cfg *config.Config, forwarder notifier.Forwarder) *notifier.Hub {
	return notifier.NewHub(cfg.NotifierBuffer, forwarder)
}

// ProvideQuantityPolicy provides the configured order quantity policy
func ProvideQuantityPolicy(cfg *config.Config) ordercommand.QuantityPolicy {
	return cfg.QuantityPolicy
}

// Wire sets
var RepositorySet = wire.NewSet(
	inventoryrepo.NewTracingProductRepository,
	wire.Bind(new(inventorydomain.ProductRepository), new(*inventoryrepo.TracingProductRepository)),
	wire.Bind(new(inventorydomain.Ledger), new(*inventoryrepo.TracingProductRepository)),
	orderrepo.NewTracingOrderRepository,
	wire.Bind(new(orderdomain.Repository), new(*orderrepo.TracingOrderRepository)),
	wire.Bind(new(tabledomain.ActiveOrderCounter), new(*orderrepo.TracingOrderRepository)),
	tablerepo.NewTracingTableRepository,
	wire.Bind(new(tabledomain.Repository), new(*tablerepo.TracingTableRepository)),
	wire.Bind(new(ordercommand.TableLookup), new(*tablerepo.TracingTableRepository)),
	wire.Bind(new(notifierhttp.TableFinder), new(*tablerepo.TracingTableRepository)),
	ProvideTransactor,
)

var NotifierSet = wire.NewSet(
	ProvideHub,
	wire.Bind(new(notifier.Publisher), new(*notifier.Hub)),
)

var InventorySet = wire.NewSet(
	inventorycommand.NewCreateCategoryHandler,
	inventorycommand.NewCreateProductHandler,
	inventorycommand.NewUpdateProductHandler,
	inventorycommand.NewSetStockHandler,
	inventorycommand.NewAddStockHandler,
	inventoryquery.NewGetMenuHandler,
	inventoryquery.NewListProductsHandler,
	inventoryquery.NewStockAlertsHandler,
	inventoryquery.NewCheckAvailabilityHandler,
	inventoryhttp.NewInventoryHandler,
)

var TableSet = wire.NewSet(
	tablecommand.NewManager,
	wire.Bind(new(ordercommand.TableOccupancy), new(*tablecommand.Manager)),
	tablequery.NewGetTableHandler,
	tablequery.NewListTablesHandler,
	tablehttp.NewTableHandler,
)

var OrderSet = wire.NewSet(
	ProvideQuantityPolicy,
	ordercommand.NewCreateOrderHandler,
	ordercommand.NewTransitionStatusHandler,
	orderquery.NewGetOrderHandler,
	orderquery.NewListOrdersHandler,
	orderhttp.NewOrderHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	NotifierSet,
	InventorySet,
	TableSet,
	OrderSet,
	notifierhttp.NewEventHandler,
)
