package bootstrap

import (
	"bay-scheduler/internal/infra/metrics"
	"bay-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.NewRecorder,
		func(r *metrics.Recorder) shared.MetricsRecorder {
			return r
		},
	),
)
