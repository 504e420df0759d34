package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	debtdomain "github.com/billhive/billhive/internal/debt/domain"
)

func newTestService(t *testing.T) (debtdomain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "debt.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&debtdomain.Debt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{DB: db, Log: zap.NewNop(), GenID: node}), node
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAdd_Validation(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	cases := []debtdomain.AddDebtRequest{
		{CustomerName: "", CustomerNumber: "9876543210", Total: dec("100")},
		{CustomerName: "Ravi", CustomerNumber: "12345", Total: dec("100")},
		{CustomerName: "Ravi", CustomerNumber: "987654321a", Total: dec("100")},
		{CustomerName: "Ravi", CustomerNumber: "9876543210", Total: dec("-1")},
		{CustomerName: "Ravi", CustomerNumber: "9876543210", Credit: dec("-1")},
	}
	for _, req := range cases {
		_, err := svc.Add(context.Background(), userID, req)
		assert.ErrorIs(t, err, debtdomain.ErrInvalidDebt)
	}
}

func TestListByNumber(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	_, err := svc.Add(context.Background(), userID, debtdomain.AddDebtRequest{
		CustomerName: "Ravi", CustomerNumber: "9876543210", Total: dec("500"), Credit: dec("100"),
	})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, debtdomain.AddDebtRequest{
		CustomerName: "Ravi", CustomerNumber: "9876543210", Total: dec("200"), Credit: dec("0"),
	})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, debtdomain.AddDebtRequest{
		CustomerName: "Meena", CustomerNumber: "9123456780", Total: dec("50"), Credit: dec("0"),
	})
	require.NoError(t, err)

	debts, err := svc.ListByNumber(context.Background(), userID, "9876543210")
	require.NoError(t, err)
	assert.Len(t, debts, 2)
	for _, d := range debts {
		assert.Equal(t, "9876543210", d.CustomerNumber)
	}
}

func TestSummary_GroupsPerCustomer(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()
	other := node.Generate()

	for _, req := range []debtdomain.AddDebtRequest{
		{CustomerName: "Ravi", CustomerNumber: "9876543210", Total: dec("500"), Credit: dec("100")},
		{CustomerName: "Ravi", CustomerNumber: "9876543210", Total: dec("200"), Credit: dec("50")},
		{CustomerName: "Meena", CustomerNumber: "9123456780", Total: dec("300"), Credit: dec("300")},
	} {
		_, err := svc.Add(context.Background(), userID, req)
		require.NoError(t, err)
	}
	// another user's entries must not leak into the summary
	_, err := svc.Add(context.Background(), other, debtdomain.AddDebtRequest{
		CustomerName: "Ravi", CustomerNumber: "9876543210", Total: dec("999"),
	})
	require.NoError(t, err)

	rows, err := svc.Summary(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byNumber := map[string]debtdomain.CustomerSummary{}
	for _, r := range rows {
		byNumber[r.CustomerNumber] = r
	}

	ravi := byNumber["9876543210"]
	assert.True(t, dec("700").Equal(ravi.Total), "total %s", ravi.Total)
	assert.True(t, dec("150").Equal(ravi.Credit))
	assert.True(t, dec("550").Equal(ravi.Balance))

	meena := byNumber["9123456780"]
	assert.True(t, dec("0").Equal(meena.Balance))
}
