package debt

import (
	"github.com/billhive/billhive/internal/debt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("debt.service",
	fx.Provide(service.NewService),
)
