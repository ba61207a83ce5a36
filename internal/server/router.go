package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/config"
	inventoryhttp "github.com/tair/qr-order/internal/inventory/delivery/http"
	notifierhttp "github.com/tair/qr-order/internal/notifier/delivery/http"
	orderhttp "github.com/tair/qr-order/internal/order/delivery/http"
	tablehttp "github.com/tair/qr-order/internal/table/delivery/http"
	"github.com/tair/qr-order/pkg/auth"
	"github.com/tair/qr-order/pkg/response"
)

const requestTimeout = 30 * time.Second

// NewRouter lays out the public customer API under /api and the staff API
// under /api/admin, plus health, metrics and API docs.
func NewRouter(
	cfg *config.Config,
	db *gorm.DB,
	validator *auth.Validator,
	inventory *inventoryhttp.InventoryHandler,
	orders *orderhttp.OrderHandler,
	tables *tablehttp.TableHandler,
	events *notifierhttp.EventHandler,
) http.Handler {
	router := mux.NewRouter()
	RegisterMiddlewares(router, MiddlewareConfig{
		EnableTracing:   cfg.TracingEnabled,
		TimeoutDuration: requestTimeout,
		CORSOrigins:     cfg.CORSOrigins,
	})

	router.HandleFunc("/health", healthHandler(db)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// admin is registered first so /api does not shadow it
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.Middleware(validator, auth.StaffRoles...))
	public := router.PathPrefix("/api").Subrouter()

	for _, h := range []interface {
		RegisterRoutes(public, admin *mux.Router)
	}{inventory, orders, tables, events} {
		h.RegisterRoutes(public, admin)
	}

	return CORS(cfg.CORSOrigins)(router)
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}
		response.OK(w, http.StatusOK, "qrmenu is healthy", nil)
	}
}
