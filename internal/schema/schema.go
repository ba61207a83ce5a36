// Package schema creates and updates the relational tables.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	orderdomain "github.com/tair/qr-order/internal/order/domain"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/logger"
)

// Models lists every persisted type, parents first
func Models() []interface{} {
	return []interface{}{
		&inventorydomain.Category{},
		&inventorydomain.Product{},
		&tabledomain.Table{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	}
}

// Migrate runs AutoMigrate for all models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Logger.Info().Int("models", len(Models())).Msg("Database schema migrated")
	return nil
}
