// Package domain contains the sale posting model consumed by reporting.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SalePosting is written once per invoice line, inside the invoice
// transaction, and feeds sales reports.
type SalePosting struct {
	ID         snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID     snowflake.ID    `gorm:"not null;index" json:"user_id"`
	ItemID     snowflake.ID    `gorm:"not null;index" json:"item_id"`
	InvoiceID  snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Quantity   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SalePosting) TableName() string { return "sale_postings" }

// ReportRow is a sale joined with its item name for display and export.
type ReportRow struct {
	CreatedAt  time.Time       `json:"created_at"`
	ItemName   string          `json:"item_name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Service interface {
	// Report lists sales between the from/to business dates (inclusive,
	// YYYY-MM-DD, evaluated in the business timezone).
	Report(ctx context.Context, userID snowflake.ID, from, to string) ([]ReportRow, error)

	// RenderPDF and RenderExcel produce downloadable sales reports.
	RenderPDF(ctx context.Context, rows []ReportRow, from, to string) ([]byte, error)
	RenderExcel(ctx context.Context, rows []ReportRow, from, to string) ([]byte, error)
}

var (
	ErrInvalidRange = errors.New("invalid_date_range")
	ErrNoSales      = errors.New("no_sales_found")
)
