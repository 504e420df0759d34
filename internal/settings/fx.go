package settings

import (
	"github.com/billhive/billhive/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(service.NewService),
	fx.Provide(service.NewTaxResolver),
)
