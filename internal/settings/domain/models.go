// Package domain contains the per-user shop settings model.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate applies when a user has not configured one.
var DefaultTaxRate = decimal.NewFromInt(18)

// Settings is the per-user shop profile. TaxRate is a percentage
// (18 means 18%); nil falls back to DefaultTaxRate.
type Settings struct {
	ID          snowflake.ID     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	UserID      snowflake.ID     `gorm:"not null;uniqueIndex" json:"user_id"`
	ShopName    string           `gorm:"type:text" json:"shop_name"`
	ShopAddress string           `gorm:"type:text" json:"shop_address"`
	TaxID       string           `gorm:"type:text" json:"tax_id"`
	TaxRate     *decimal.Decimal `gorm:"type:numeric(6,2)" json:"tax_rate"`
	CreatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Settings) TableName() string { return "settings" }

type UpsertSettingsRequest struct {
	ShopName    string           `json:"shop_name"`
	ShopAddress string           `json:"shop_address"`
	TaxID       string           `json:"tax_id"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

type Service interface {
	Upsert(ctx context.Context, userID snowflake.ID, req UpsertSettingsRequest) (Settings, error)
	// Get returns nil when the user has no settings row yet.
	Get(ctx context.Context, userID snowflake.ID) (*Settings, error)
}

// TaxResolver supplies the tax percentage the invoice coordinator applies.
type TaxResolver interface {
	RateFor(ctx context.Context, userID snowflake.ID) (decimal.Decimal, error)
}
