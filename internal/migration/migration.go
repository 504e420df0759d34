// Package migration applies the schema on startup.
package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/billhive/billhive/internal/auth/domain"
	debtdomain "github.com/billhive/billhive/internal/debt/domain"
	invoicedomain "github.com/billhive/billhive/internal/invoice/domain"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
	"github.com/billhive/billhive/internal/sequence"
	settingsdomain "github.com/billhive/billhive/internal/settings/domain"
	stockdomain "github.com/billhive/billhive/internal/stock/domain"
)

// Module runs AutoMigrate before anything else touches the database.
var Module = fx.Module("migration",
	fx.Invoke(Run),
)

func Run(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&authdomain.User{},
		&sequence.Counter{},
		&stockdomain.Item{},
		&settingsdomain.Settings{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLineItem{},
		&saledomain.SalePosting{},
		&debtdomain.Debt{},
	)
	if err != nil {
		return err
	}
	log.Named("migration").Info("schema migrated")
	return nil
}
