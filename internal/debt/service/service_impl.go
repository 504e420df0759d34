package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	debtdomain "github.com/billhive/billhive/internal/debt/domain"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) debtdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("debt.service"),
		genID: p.GenID,
	}
}

func (s *Service) Add(ctx context.Context, userID snowflake.ID, req debtdomain.AddDebtRequest) (debtdomain.Debt, error) {
	name := strings.TrimSpace(req.CustomerName)
	number := strings.TrimSpace(req.CustomerNumber)

	if name == "" {
		return debtdomain.Debt{}, fmt.Errorf("%w: customer name is required", debtdomain.ErrInvalidDebt)
	}
	if !validCustomerNumber(number) {
		return debtdomain.Debt{}, fmt.Errorf("%w: customer number must be 10 digits", debtdomain.ErrInvalidDebt)
	}
	if req.Total.IsNegative() || req.Credit.IsNegative() {
		return debtdomain.Debt{}, fmt.Errorf("%w: amounts must not be negative", debtdomain.ErrInvalidDebt)
	}

	debt := debtdomain.Debt{
		ID:             s.genID.Generate(),
		UserID:         userID,
		CustomerName:   name,
		CustomerNumber: number,
		Total:          req.Total.Round(2),
		Credit:         req.Credit.Round(2),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&debt).Error; err != nil {
		return debtdomain.Debt{}, err
	}
	return debt, nil
}

func (s *Service) ListByNumber(ctx context.Context, userID snowflake.ID, customerNumber string) ([]debtdomain.Debt, error) {
	number := strings.TrimSpace(customerNumber)
	if !validCustomerNumber(number) {
		return nil, fmt.Errorf("%w: customer number must be 10 digits", debtdomain.ErrInvalidDebt)
	}

	var debts []debtdomain.Debt
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND customer_number = ?", userID, number).
		Order("created_at DESC").
		Find(&debts).Error
	if err != nil {
		return nil, err
	}
	return debts, nil
}

func (s *Service) Summary(ctx context.Context, userID snowflake.ID) ([]debtdomain.CustomerSummary, error) {
	var rows []debtdomain.CustomerSummary
	err := s.db.WithContext(ctx).Raw(
		`SELECT customer_number,
		        MAX(customer_name) AS customer_name,
		        SUM(total)         AS total,
		        SUM(credit)        AS credit,
		        SUM(total) - SUM(credit) AS balance
		 FROM debts
		 WHERE user_id = ?
		 GROUP BY customer_number
		 ORDER BY customer_number ASC`,
		userID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func validCustomerNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
