package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	settingsdomain "github.com/billhive/billhive/internal/settings/domain"
	"github.com/billhive/billhive/pkg/repository"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[settingsdomain.Settings]
}

func NewService(p ServiceParam) settingsdomain.Service {
	return &Service{
		log:   p.Log.Named("settings.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[settingsdomain.Settings](p.DB),
	}
}

func (s *Service) Upsert(ctx context.Context, userID snowflake.ID, req settingsdomain.UpsertSettingsRequest) (settingsdomain.Settings, error) {
	existing, err := s.repo.FindOne(ctx, &settingsdomain.Settings{UserID: userID})
	if err != nil {
		return settingsdomain.Settings{}, err
	}

	now := time.Now().UTC()
	if existing == nil {
		existing = &settingsdomain.Settings{
			ID:        s.genID.Generate(),
			UserID:    userID,
			CreatedAt: now,
		}
	}
	existing.ShopName = req.ShopName
	existing.ShopAddress = req.ShopAddress
	existing.TaxID = req.TaxID
	existing.TaxRate = req.TaxRate
	existing.UpdatedAt = now

	if err := s.repo.Save(ctx, existing); err != nil {
		return settingsdomain.Settings{}, err
	}
	return *existing, nil
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*settingsdomain.Settings, error) {
	return s.repo.FindOne(ctx, &settingsdomain.Settings{UserID: userID})
}

type resolver struct {
	svc settingsdomain.Service
}

func NewTaxResolver(svc settingsdomain.Service) settingsdomain.TaxResolver {
	return &resolver{svc: svc}
}

// RateFor returns the user's configured tax percentage, or DefaultTaxRate
// when none is set.
func (r *resolver) RateFor(ctx context.Context, userID snowflake.ID) (decimal.Decimal, error) {
	settings, err := r.svc.Get(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if settings == nil || settings.TaxRate == nil {
		return settingsdomain.DefaultTaxRate, nil
	}
	return *settings.TaxRate, nil
}
