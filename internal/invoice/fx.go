package invoice

import (
	"go.uber.org/fx"

	"github.com/billhive/billhive/internal/invoice/service"
)

// Module wires the invoice transaction coordinator.
var Module = fx.Module("invoice",
	fx.Provide(service.NewService),
)
