package stock

import (
	"github.com/billhive/billhive/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.service",
	fx.Provide(service.NewService),
)
