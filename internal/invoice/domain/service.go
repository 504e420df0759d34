package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CustomerInfo struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

type LineInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type CreateInvoiceRequest struct {
	Customer CustomerInfo `json:"customer"`
	Lines    []LineInput  `json:"lines"`
}

type CreateInvoiceResponse struct {
	InvoiceID snowflake.ID `json:"invoice_id"`
	InvoiceNo string       `json:"invoice_no"`
}

type InvoiceWithLines struct {
	Invoice
	Lines []InvoiceLineItem `json:"lines"`
}

type Service interface {
	// Create runs the whole invoice transaction: serial allocation, amount
	// computation, header + line persistence, stock decrements and sale
	// postings, all committing or rolling back together.
	Create(ctx context.Context, userID snowflake.ID, req CreateInvoiceRequest) (CreateInvoiceResponse, error)

	// PreviewNumber reports the invoice number the next Create would assign,
	// without consuming a serial.
	PreviewNumber(ctx context.Context, userID snowflake.ID) (string, error)

	// GetByNumber loads a committed invoice with its ordered line items,
	// scoped to the user.
	GetByNumber(ctx context.Context, userID snowflake.ID, invoiceNo string) (InvoiceWithLines, error)
}

var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("invoice_not_found")
	ErrConflict     = errors.New("conflict")
)
