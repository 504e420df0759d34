package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billhive/billhive/internal/clock"
	invoicedomain "github.com/billhive/billhive/internal/invoice/domain"
	"github.com/billhive/billhive/internal/invoice/format"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
	"github.com/billhive/billhive/internal/sequence"
	settingsdomain "github.com/billhive/billhive/internal/settings/domain"
	stockdomain "github.com/billhive/billhive/internal/stock/domain"
	pkgdb "github.com/billhive/billhive/pkg/db"
)

var oneHundred = decimal.NewFromInt(100)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Stock     stockdomain.Service
	Sequences *sequence.Repository
	Taxes     settingsdomain.TaxResolver
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	stock     stockdomain.Service
	sequences *sequence.Repository
	taxes     settingsdomain.TaxResolver
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		stock:     p.Stock,
		sequences: p.Sequences,
		taxes:     p.Taxes,
	}
}

// Create runs the invoice transaction: it allocates the daily serial,
// computes amounts, persists the header and line items, decrements stock and
// posts the sale ledger in a single database transaction. Any failure rolls
// everything back, including the serial.
func (s *Service) Create(ctx context.Context, userID snowflake.ID, req invoicedomain.CreateInvoiceRequest) (invoicedomain.CreateInvoiceResponse, error) {
	if err := validateLines(req.Lines); err != nil {
		return invoicedomain.CreateInvoiceResponse{}, err
	}

	taxRate, err := s.taxes.RateFor(ctx, userID)
	if err != nil {
		return invoicedomain.CreateInvoiceResponse{}, err
	}

	now := s.clock.Now()
	businessNow := now.In(clock.Location())

	var resp invoicedomain.CreateInvoiceResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serial, err := s.sequences.Allocate(ctx, tx, userID, clock.DateKey(now))
		if err != nil {
			return err
		}

		invoiceNo, err := format.FormatInvoiceNumber(format.DefaultInvoiceNumberTemplate, businessNow, userID, serial)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		amounts := make([]decimal.Decimal, len(req.Lines))
		for i, line := range req.Lines {
			amounts[i] = line.Quantity.Mul(line.Rate).Round(2)
			subtotal = subtotal.Add(amounts[i])
		}
		subtotal = subtotal.Round(2)
		taxAmount := subtotal.Mul(taxRate).Div(oneHundred).Round(2)
		total := subtotal.Add(taxAmount).Round(2)

		invoice := invoicedomain.Invoice{
			ID:           s.genID.Generate(),
			InvoiceNo:    invoiceNo,
			UserID:       userID,
			CustomerName: strings.TrimSpace(req.Customer.Name),
			Contact:      strings.TrimSpace(req.Customer.Contact),
			Address:      strings.TrimSpace(req.Customer.Address),
			TaxID:        strings.TrimSpace(req.Customer.TaxID),
			Subtotal:     subtotal,
			TaxAmount:    taxAmount,
			TotalAmount:  total,
			BusinessDate: clock.DateKey(now),
			CreatedAt:    now.UTC(),
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		for i, line := range req.Lines {
			lineItem := invoicedomain.InvoiceLineItem{
				ID:          s.genID.Generate(),
				InvoiceID:   invoice.ID,
				Position:    i + 1,
				Description: strings.TrimSpace(line.Description),
				Quantity:    line.Quantity,
				Rate:        line.Rate,
				Amount:      amounts[i],
			}
			if err := tx.Create(&lineItem).Error; err != nil {
				return err
			}

			itemID, err := s.stock.ReserveAndDecrement(ctx, tx, userID, line.Description, line.Quantity)
			if err != nil {
				return err
			}

			posting := saledomain.SalePosting{
				ID:         s.genID.Generate(),
				UserID:     userID,
				ItemID:     itemID,
				InvoiceID:  invoice.ID,
				Quantity:   line.Quantity,
				UnitPrice:  line.Rate,
				TotalPrice: amounts[i],
				CreatedAt:  now.UTC(),
			}
			if err := tx.Create(&posting).Error; err != nil {
				return err
			}
		}

		resp = invoicedomain.CreateInvoiceResponse{
			InvoiceID: invoice.ID,
			InvoiceNo: invoice.InvoiceNo,
		}
		return nil
	})
	if err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return invoicedomain.CreateInvoiceResponse{}, fmt.Errorf("%w: %v", invoicedomain.ErrConflict, err)
		}
		return invoicedomain.CreateInvoiceResponse{}, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_no", resp.InvoiceNo),
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(req.Lines)),
	)
	return resp, nil
}

// PreviewNumber formats the number the next Create would assign. Purely
// advisory: a concurrent invoice may take the serial first.
func (s *Service) PreviewNumber(ctx context.Context, userID snowflake.ID) (string, error) {
	now := s.clock.Now()

	serial, err := s.sequences.Peek(ctx, userID, clock.DateKey(now))
	if err != nil {
		return "", err
	}
	return format.FormatInvoiceNumber(format.DefaultInvoiceNumberTemplate, now.In(clock.Location()), userID, serial)
}

func (s *Service) GetByNumber(ctx context.Context, userID snowflake.ID, invoiceNo string) (invoicedomain.InvoiceWithLines, error) {
	invoiceNo = strings.Trim(strings.TrimSpace(invoiceNo), `"'`)
	if invoiceNo == "" {
		return invoicedomain.InvoiceWithLines{}, fmt.Errorf("%w: empty invoice number", invoicedomain.ErrInvalidInput)
	}

	var invoice invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND invoice_no = ?", userID, invoiceNo).
		Take(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invoicedomain.InvoiceWithLines{}, fmt.Errorf("%w: %s", invoicedomain.ErrNotFound, invoiceNo)
		}
		return invoicedomain.InvoiceWithLines{}, err
	}

	var lines []invoicedomain.InvoiceLineItem
	err = s.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Order("position ASC").
		Find(&lines).Error
	if err != nil {
		return invoicedomain.InvoiceWithLines{}, err
	}

	return invoicedomain.InvoiceWithLines{Invoice: invoice, Lines: lines}, nil
}

func validateLines(lines []invoicedomain.LineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: invoice needs at least one line item", invoicedomain.ErrInvalidInput)
	}
	for i, line := range lines {
		if strings.TrimSpace(line.Description) == "" {
			return fmt.Errorf("%w: line %d has a blank description", invoicedomain.ErrInvalidInput, i+1)
		}
		if !line.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d quantity must be positive", invoicedomain.ErrInvalidInput, i+1)
		}
		if line.Rate.IsNegative() {
			return fmt.Errorf("%w: line %d rate must not be negative", invoicedomain.ErrInvalidInput, i+1)
		}
	}
	return nil
}
