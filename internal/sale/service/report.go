package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billhive/billhive/internal/clock"
	"github.com/billhive/billhive/internal/config"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	ReportCfg *config.ReportConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	reportCfg *config.ReportConfigHolder
}

func NewService(p ServiceParam) saledomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("sale.service"),
		reportCfg: p.ReportCfg,
	}
}

func (s *Service) Report(ctx context.Context, userID snowflake.ID, from, to string) ([]saledomain.ReportRow, error) {
	start, end, err := rangeBounds(from, to)
	if err != nil {
		return nil, err
	}

	var rows []saledomain.ReportRow
	err = s.db.WithContext(ctx).Raw(
		`SELECT s.created_at, i.name AS item_name, s.quantity, s.unit_price, s.total_price
		 FROM sale_postings s
		 JOIN items i ON i.id = s.item_id
		 WHERE s.user_id = ? AND s.created_at >= ? AND s.created_at < ?
		 ORDER BY s.created_at ASC`,
		userID,
		start,
		end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// rangeBounds converts inclusive business dates to half-open UTC instants so
// the comparison stays portable across engines.
func rangeBounds(from, to string) (time.Time, time.Time, error) {
	loc := clock.Location()
	start, err := time.ParseInLocation("2006-01-02", from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", saledomain.ErrInvalidRange, from)
	}
	toDay, err := time.ParseInLocation("2006-01-02", to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", saledomain.ErrInvalidRange, to)
	}
	end := toDay.AddDate(0, 0, 1)
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s..%s", saledomain.ErrInvalidRange, from, to)
	}
	return start.UTC(), end.UTC(), nil
}

func grandTotal(rows []saledomain.ReportRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalPrice)
	}
	return total
}
