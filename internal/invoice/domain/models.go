// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Invoice is the committed invoice header. Created exactly once per
// successful invoice transaction and immutable thereafter.
// TotalAmount = Subtotal + TaxAmount, each rounded to 2 decimals.
type Invoice struct {
	ID           snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	InvoiceNo    string          `gorm:"type:text;not null;uniqueIndex:ux_invoices_user_no,priority:2" json:"invoice_no"`
	UserID       snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_invoices_user_no,priority:1" json:"user_id"`
	CustomerName string          `gorm:"type:text" json:"customer_name"`
	Contact      string          `gorm:"type:text" json:"contact"`
	Address      string          `gorm:"type:text" json:"address"`
	TaxID        string          `gorm:"type:text" json:"tax_id"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	TaxAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	BusinessDate string          `gorm:"type:varchar(10);not null" json:"business_date"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLineItem is a line on an invoice, owned exclusively by it.
// Amount = Quantity × Rate rounded to 2 decimals.
type InvoiceLineItem struct {
	ID          snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Position    int             `gorm:"not null" json:"position"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
}

// TableName sets the database table name.
func (InvoiceLineItem) TableName() string { return "invoice_items" }
