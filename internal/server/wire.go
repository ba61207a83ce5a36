//go:build wireinject
// +build wireinject

package server

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/config"
	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/notifier"
)

// InitializeServer builds the HTTP handler and notifier hub with all dependencies
func InitializeServer(cfg *config.Config, db *gorm.DB, menuCache cache.MenuCache, forwarder notifier.Forwarder) (*Server, error) {
	wire.Build(
		AllHandlersSet,
		ProvideValidator,
		NewRouter,
		NewServer,
	)
	return nil, nil
}
