// Package domain contains persistence models for the stock ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Item is an on-hand stock line owned by a single user. Name is unique per
// user after trimming and case folding; quantity never goes below zero in a
// committed transaction.
type Item struct {
	ID          snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID      snowflake.ID    `gorm:"not null;index" json:"user_id"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	BuyingRate  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"buying_rate"`
	SellingRate decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"selling_rate"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Item) TableName() string { return "items" }
