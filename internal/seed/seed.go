// Package seed loads the fixed table set and a demo menu.
package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/logger"
)

// TableNames are the tables printed on the QR codes
var TableNames = []string{"Table 1", "Table 2", "Table 3", "Table 4"}

type product struct {
	name       string
	category   string
	priceCents int64
	quantity   int
	minStock   int
}

var menu = []product{
	{"Espresso", "Coffee", 4500, 50, 10},
	{"Latte", "Coffee", 5500, 30, 8},
	{"Cheesecake", "Desserts", 7500, 15, 3},
}

// Result counts what a run created
type Result struct {
	Tables     int
	Categories int
	Products   int
}

// Run creates missing seed rows. Existing rows, including their stock, are left alone.
func Run(ctx context.Context, db *gorm.DB) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range TableNames {
			created, err := firstOrCreate(tx, name, &tabledomain.Table{Name: name})
			if err != nil {
				return fmt.Errorf("failed to seed table %s: %w", name, err)
			}
			res.Tables += created
		}

		categories := make(map[string]string)
		for _, p := range menu {
			if _, ok := categories[p.category]; ok {
				continue
			}
			c := &inventorydomain.Category{Name: p.category}
			created, err := firstOrCreate(tx, p.category, c)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", p.category, err)
			}
			categories[p.category] = c.ID
			res.Categories += created
		}

		for _, p := range menu {
			created, err := firstOrCreate(tx, p.name, &inventorydomain.Product{
				Name:       p.name,
				PriceCents: p.priceCents,
				Quantity:   p.quantity,
				MinStock:   p.minStock,
				Orderable:  true,
				CategoryID: categories[p.category],
			})
			if err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.name, err)
			}
			res.Products += created
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info(ctx).
		Int("tables", res.Tables).
		Int("categories", res.Categories).
		Int("products", res.Products).
		Msg("Seed data applied")
	return res, nil
}

// firstOrCreate loads the row named name into dest, creating dest when it is
// missing. It returns 1 when a row was created.
func firstOrCreate(tx *gorm.DB, name string, dest interface{}) (int, error) {
	err := tx.Where("name = ?", name).First(dest).Error
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if err := tx.Create(dest).Error; err != nil {
		return 0, err
	}
	return 1, nil
}
