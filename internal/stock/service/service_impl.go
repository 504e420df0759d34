package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	stockdomain "github.com/billhive/billhive/internal/stock/domain"
	pkgdb "github.com/billhive/billhive/pkg/db"
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

func NewService(p ServiceParam) stockdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("stock.service"),
		genID: p.GenID,
	}
}

func (s *Service) ReserveAndDecrement(ctx context.Context, tx *gorm.DB, userID snowflake.ID, description string, qty decimal.Decimal) (snowflake.ID, error) {
	if !qty.IsPositive() {
		return 0, fmt.Errorf("%w: quantity must be positive", stockdomain.ErrInvalidItem)
	}

	item, err := s.lockByName(ctx, tx, userID, description)
	if err != nil {
		return 0, err
	}

	if item.Quantity.LessThan(qty) {
		return 0, fmt.Errorf("%w: %s", stockdomain.ErrInsufficientStock, strings.TrimSpace(description))
	}

	if err := tx.WithContext(ctx).Model(&stockdomain.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":   item.Quantity.Sub(qty),
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return 0, err
	}

	return item.ID, nil
}

func (s *Service) Upsert(ctx context.Context, userID snowflake.ID, req stockdomain.UpsertItemRequest) (stockdomain.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return stockdomain.Item{}, fmt.Errorf("%w: name is required", stockdomain.ErrInvalidItem)
	}
	if req.Quantity.IsNegative() || req.BuyingRate.IsNegative() || req.SellingRate.IsNegative() {
		return stockdomain.Item{}, fmt.Errorf("%w: quantity and rates must not be negative", stockdomain.ErrInvalidItem)
	}

	var saved stockdomain.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.lockByName(ctx, tx, userID, name)
		if err != nil && !errors.Is(err, stockdomain.ErrItemNotFound) {
			return err
		}

		now := time.Now().UTC()
		if existing != nil {
			existing.Quantity = existing.Quantity.Add(req.Quantity)
			existing.BuyingRate = req.BuyingRate
			existing.SellingRate = req.SellingRate
			existing.UpdatedAt = now
			if err := tx.WithContext(ctx).Save(existing).Error; err != nil {
				return err
			}
			saved = *existing
			return nil
		}

		saved = stockdomain.Item{
			ID:          s.genID.Generate(),
			UserID:      userID,
			Name:        name,
			Quantity:    req.Quantity,
			BuyingRate:  req.BuyingRate,
			SellingRate: req.SellingRate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return tx.WithContext(ctx).Create(&saved).Error
	})
	if err != nil {
		return stockdomain.Item{}, err
	}

	s.log.Info("stock upserted",
		zap.String("user_id", userID.String()),
		zap.String("item", saved.Name),
		zap.String("quantity", saved.Quantity.String()),
	)
	return saved, nil
}

func (s *Service) Names(ctx context.Context, userID snowflake.ID) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&stockdomain.Item{}).
		Where("user_id = ?", userID).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Service) Info(ctx context.Context, userID snowflake.ID, name string) (stockdomain.Item, error) {
	var item stockdomain.Item
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(TRIM(name)) = LOWER(TRIM(?))", userID, name).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stockdomain.Item{}, fmt.Errorf("%w: %s", stockdomain.ErrItemNotFound, strings.TrimSpace(name))
		}
		return stockdomain.Item{}, err
	}
	return item, nil
}

// lockByName takes a write-intent lock on the item row matched by trimmed,
// case-insensitive name so concurrent transactions on the same item
// serialize.
func (s *Service) lockByName(ctx context.Context, tx *gorm.DB, userID snowflake.ID, name string) (*stockdomain.Item, error) {
	var item stockdomain.Item
	err := pkgdb.ForUpdate(tx.WithContext(ctx)).
		Where("user_id = ? AND LOWER(TRIM(name)) = LOWER(TRIM(?))", userID, name).
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", stockdomain.ErrItemNotFound, strings.TrimSpace(name))
		}
		return nil, err
	}
	return &item, nil
}
