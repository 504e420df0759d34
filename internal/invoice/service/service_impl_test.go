package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billhive/billhive/internal/clock"
	invoicedomain "github.com/billhive/billhive/internal/invoice/domain"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
	"github.com/billhive/billhive/internal/sequence"
	settingsdomain "github.com/billhive/billhive/internal/settings/domain"
	settingssvc "github.com/billhive/billhive/internal/settings/service"
	stockdomain "github.com/billhive/billhive/internal/stock/domain"
	stocksvc "github.com/billhive/billhive/internal/stock/service"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	stock    stockdomain.Service
	settings settingsdomain.Service
	svc      invoicedomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "invoice.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&sequence.Counter{},
		&stockdomain.Item{},
		&settingsdomain.Settings{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLineItem{},
		&saledomain.SalePosting{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	stockService := stocksvc.NewService(stocksvc.ServiceParam{DB: db, Log: log, GenID: node})
	settingsService := settingssvc.NewService(settingssvc.ServiceParam{DB: db, Log: log, GenID: node})
	sequences := sequence.NewRepository(sequence.RepositoryParam{DB: db, Log: log})

	svc := NewService(ServiceParam{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Stock:     stockService,
		Sequences: sequences,
		Taxes:     settingssvc.NewTaxResolver(settingsService),
	})

	return &fixture{
		db:       db,
		node:     node,
		clock:    fake,
		stock:    stockService,
		settings: settingsService,
		svc:      svc,
	}
}

func (f *fixture) addStock(t *testing.T, userID snowflake.ID, name string, qty, rate string) {
	t.Helper()
	_, err := f.stock.Upsert(context.Background(), userID, stockdomain.UpsertItemRequest{
		Name:        name,
		Quantity:    dec(qty),
		BuyingRate:  dec(rate),
		SellingRate: dec(rate),
	})
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCreate_FullTransaction(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "10", "100")

	resp, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Customer: invoicedomain.CustomerInfo{Name: "Acme Traders", Contact: "9876543210"},
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("4"), Rate: dec("100")},
		},
	})
	require.NoError(t, err)

	dateKey := f.clock.Now().In(clock.Location()).Format("20060102")
	assert.Equal(t, fmt.Sprintf("INV-%s-%s-0001", dateKey, userID), resp.InvoiceNo)

	got, err := f.svc.GetByNumber(context.Background(), userID, resp.InvoiceNo)
	require.NoError(t, err)
	assert.True(t, dec("400").Equal(got.Subtotal), "subtotal %s", got.Subtotal)
	assert.True(t, dec("72").Equal(got.TaxAmount), "tax %s", got.TaxAmount)
	assert.True(t, dec("472").Equal(got.TotalAmount), "total %s", got.TotalAmount)
	require.Len(t, got.Lines, 1)
	assert.True(t, dec("400").Equal(got.Lines[0].Amount))

	item, err := f.stock.Info(context.Background(), userID, "Widget")
	require.NoError(t, err)
	assert.True(t, dec("6").Equal(item.Quantity), "stock %s", item.Quantity)

	var postings []saledomain.SalePosting
	require.NoError(t, f.db.Where("user_id = ?", userID).Find(&postings).Error)
	require.Len(t, postings, 1)
	assert.Equal(t, got.ID, postings[0].InvoiceID)
	assert.True(t, dec("100").Equal(postings[0].UnitPrice))
	assert.True(t, dec("400").Equal(postings[0].TotalPrice))
}

func TestCreate_AmountRounding(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Bolt", "100", "10.555")
	f.addStock(t, userID, "Nut", "100", "7.005")

	resp, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Bolt", Quantity: dec("3"), Rate: dec("10.555")},
			{Description: "Nut", Quantity: dec("2"), Rate: dec("7.005")},
		},
	})
	require.NoError(t, err)

	got, err := f.svc.GetByNumber(context.Background(), userID, resp.InvoiceNo)
	require.NoError(t, err)

	// 3 × 10.555 = 31.665 → 31.67, 2 × 7.005 = 14.01
	require.Len(t, got.Lines, 2)
	assert.True(t, dec("31.67").Equal(got.Lines[0].Amount), "line 1 %s", got.Lines[0].Amount)
	assert.True(t, dec("14.01").Equal(got.Lines[1].Amount), "line 2 %s", got.Lines[1].Amount)
	assert.True(t, dec("45.68").Equal(got.Subtotal), "subtotal %s", got.Subtotal)
	assert.True(t, dec("8.22").Equal(got.TaxAmount), "tax %s", got.TaxAmount)
	assert.True(t, dec("53.90").Equal(got.TotalAmount), "total %s", got.TotalAmount)
}

func TestCreate_ConfiguredTaxRate(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "10", "100")

	rate := dec("5")
	_, err := f.settings.Upsert(context.Background(), userID, settingsdomain.UpsertSettingsRequest{
		ShopName: "Test Shop",
		TaxRate:  &rate,
	})
	require.NoError(t, err)

	resp, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("2"), Rate: dec("100")},
		},
	})
	require.NoError(t, err)

	got, err := f.svc.GetByNumber(context.Background(), userID, resp.InvoiceNo)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(got.TaxAmount), "tax %s", got.TaxAmount)
	assert.True(t, dec("210").Equal(got.TotalAmount))
}

func TestCreate_RollsBackOnUnknownItem(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "10", "100")

	_, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("4"), Rate: dec("100")},
			{Description: "Ghost", Quantity: dec("1"), Rate: dec("50")},
		},
	})
	require.ErrorIs(t, err, stockdomain.ErrItemNotFound)

	var invoiceCount, lineCount, postingCount int64
	require.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&invoiceCount).Error)
	require.NoError(t, f.db.Model(&invoicedomain.InvoiceLineItem{}).Count(&lineCount).Error)
	require.NoError(t, f.db.Model(&saledomain.SalePosting{}).Count(&postingCount).Error)
	assert.Zero(t, invoiceCount)
	assert.Zero(t, lineCount)
	assert.Zero(t, postingCount)

	item, err := f.stock.Info(context.Background(), userID, "Widget")
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(item.Quantity), "stock must be untouched after rollback")
}

func TestCreate_RollsBackOnInsufficientStock(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "3", "100")

	_, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("5"), Rate: dec("100")},
		},
	})
	require.ErrorIs(t, err, stockdomain.ErrInsufficientStock)

	item, err := f.stock.Info(context.Background(), userID, "Widget")
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(item.Quantity))
}

func TestCreate_SerialsStayContiguousAcrossFailures(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "100", "100")

	line := func(desc string) invoicedomain.CreateInvoiceRequest {
		return invoicedomain.CreateInvoiceRequest{
			Lines: []invoicedomain.LineInput{
				{Description: desc, Quantity: dec("1"), Rate: dec("100")},
			},
		}
	}

	first, err := f.svc.Create(context.Background(), userID, line("Widget"))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), userID, line("Ghost"))
	require.Error(t, err)

	second, err := f.svc.Create(context.Background(), userID, line("Widget"))
	require.NoError(t, err)

	assert.Contains(t, first.InvoiceNo, "-0001")
	assert.Contains(t, second.InvoiceNo, "-0002")
}

func TestCreate_SerialResetsOnDateRollover(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "100", "100")

	req := invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("1"), Rate: dec("100")},
		},
	}

	first, err := f.svc.Create(context.Background(), userID, req)
	require.NoError(t, err)
	assert.Contains(t, first.InvoiceNo, "-0001")

	f.clock.Advance(24 * time.Hour)

	next, err := f.svc.Create(context.Background(), userID, req)
	require.NoError(t, err)
	assert.Contains(t, next.InvoiceNo, "-0001")
	assert.NotEqual(t, first.InvoiceNo, next.InvoiceNo)
}

func TestCreate_ConcurrentInvoicesGetDistinctSerials(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "100", "100")

	const n = 10
	numbers := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
				Lines: []invoicedomain.LineInput{
					{Description: "Widget", Quantity: dec("1"), Rate: dec("100")},
				},
			})
			numbers[i], errs[i] = resp.InvoiceNo, err
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "duplicate invoice number %s", numbers[i])
		seen[numbers[i]] = true
	}

	item, err := f.stock.Info(context.Background(), userID, "Widget")
	require.NoError(t, err)
	assert.True(t, dec("90").Equal(item.Quantity), "stock %s", item.Quantity)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()

	cases := []invoicedomain.CreateInvoiceRequest{
		{},
		{Lines: []invoicedomain.LineInput{{Description: "   ", Quantity: dec("1"), Rate: dec("1")}}},
		{Lines: []invoicedomain.LineInput{{Description: "Widget", Quantity: dec("0"), Rate: dec("1")}}},
		{Lines: []invoicedomain.LineInput{{Description: "Widget", Quantity: dec("1"), Rate: dec("-1")}}},
	}
	for _, req := range cases {
		_, err := f.svc.Create(context.Background(), userID, req)
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidInput)
	}
}

func TestPreviewNumber_DoesNotConsumeSerial(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Widget", "10", "100")

	preview, err := f.svc.PreviewNumber(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, preview, "-0001")

	// previewing again yields the same number
	again, err := f.svc.PreviewNumber(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, preview, again)

	resp, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("1"), Rate: dec("100")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, preview, resp.InvoiceNo)

	after, err := f.svc.PreviewNumber(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, after, "-0002")
}

func TestGetByNumber_TrimsAndScopesToUser(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	other := f.node.Generate()
	f.addStock(t, owner, "Widget", "10", "100")

	resp, err := f.svc.Create(context.Background(), owner, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Widget", Quantity: dec("1"), Rate: dec("100")},
		},
	})
	require.NoError(t, err)

	got, err := f.svc.GetByNumber(context.Background(), owner, fmt.Sprintf(" %q ", resp.InvoiceNo))
	require.NoError(t, err)
	assert.Equal(t, resp.InvoiceNo, got.InvoiceNo)

	_, err = f.svc.GetByNumber(context.Background(), other, resp.InvoiceNo)
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestCreate_LinesKeepRequestOrder(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	f.addStock(t, userID, "Zinc", "10", "5")
	f.addStock(t, userID, "Alum", "10", "3")

	resp, err := f.svc.Create(context.Background(), userID, invoicedomain.CreateInvoiceRequest{
		Lines: []invoicedomain.LineInput{
			{Description: "Zinc", Quantity: dec("1"), Rate: dec("5")},
			{Description: "Alum", Quantity: dec("1"), Rate: dec("3")},
		},
	})
	require.NoError(t, err)

	got, err := f.svc.GetByNumber(context.Background(), userID, resp.InvoiceNo)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Zinc", got.Lines[0].Description)
	assert.Equal(t, "Alum", got.Lines[1].Description)
	assert.Equal(t, 1, got.Lines[0].Position)
	assert.Equal(t, 2, got.Lines[1].Position)
}
