// Package domain contains the customer debt ledger models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Debt is one ledger entry for a customer. Total is what the customer owes
// from the entry, Credit what they paid against it.
type Debt struct {
	ID             snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID         snowflake.ID    `gorm:"not null;index" json:"user_id"`
	CustomerName   string          `gorm:"type:text;not null" json:"customer_name"`
	CustomerNumber string          `gorm:"type:varchar(10);not null;index" json:"customer_number"`
	Total          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Credit         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"credit"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Debt) TableName() string { return "debts" }

type AddDebtRequest struct {
	CustomerName   string          `json:"customer_name"`
	CustomerNumber string          `json:"customer_number"`
	Total          decimal.Decimal `json:"total"`
	Credit         decimal.Decimal `json:"credit"`
}

// CustomerSummary aggregates a customer's entries. Balance = Total − Credit.
type CustomerSummary struct {
	CustomerName   string          `json:"customer_name"`
	CustomerNumber string          `json:"customer_number"`
	Total          decimal.Decimal `json:"total"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
}

type Service interface {
	Add(ctx context.Context, userID snowflake.ID, req AddDebtRequest) (Debt, error)

	// ListByNumber returns a customer's entries, newest first.
	ListByNumber(ctx context.Context, userID snowflake.ID, customerNumber string) ([]Debt, error)

	// Summary groups entries per customer number with the outstanding balance.
	Summary(ctx context.Context, userID snowflake.ID) ([]CustomerSummary, error)
}

var ErrInvalidDebt = errors.New("invalid_debt")
