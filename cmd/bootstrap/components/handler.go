package components

import (
	"bay-scheduler/internal/handler"
	"bay-scheduler/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSchedulingHandler,
		api.NewBookingHandler,
	),
	fx.Invoke(handler.NewRouter),
)
