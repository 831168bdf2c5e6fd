package components

import (
	"bay-scheduler/internal/domain/resource"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/pkg/clock"
	"bay-scheduler/internal/pkg/config"
	"bay-scheduler/internal/usecase/commands"
	"bay-scheduler/internal/usecase/queries"
	"bay-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewResolver,
	NewEngine,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewSchedulingQueries,
	),
)

func NewResolver(cfg config.SchedulingConfig) (*scheduling.Resolver, error) {
	return scheduling.NewResolver(scheduling.ResolverConfig{
		GranularityHours: cfg.GranularityHours,
		HorizonDays:      cfg.HorizonDays,
	})
}

func NewEngine(cfg config.SchedulingConfig) (*scheduling.Engine, error) {
	ec := scheduling.DefaultEngineConfig()
	ec.Weights = scheduling.Weights{
		TimeOfDay:   cfg.WeightTimeOfDay,
		LoadBalance: cfg.WeightLoadBalance,
		Gap:         cfg.WeightGap,
		Efficiency:  cfg.WeightEfficiency,
		Preference:  cfg.WeightPreference,
	}
	ec.MinScore = cfg.MinScore
	ec.TopK = cfg.TopK
	ec.GranularityHours = cfg.GranularityHours
	ec.HighPriorityBonus = cfg.HighPriorityBonus
	ec.PreferredResourceBonus = cfg.PreferredResourceBonus
	ec.LunchPenaltyEnabled = cfg.LunchPenaltyEnabled
	ec.LunchPenalty = cfg.LunchPenalty
	return scheduling.NewEngine(ec)
}

func NewSchedulingQueries(
	store queries.BookingReadStore,
	registry *resource.Registry,
	resolver *scheduling.Resolver,
	engine *scheduling.Engine,
	cfg config.SchedulingConfig,
	metrics shared.MetricsRecorder,
	clk clock.Clock,
) queries.SchedulingQueries {
	return queries.NewSchedulingQueries(store, registry, resolver, engine, cfg.HorizonDays, metrics, clk)
}
