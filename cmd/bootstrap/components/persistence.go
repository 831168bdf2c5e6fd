package components

import (
	"context"
	"log/slog"

	"bay-scheduler/internal/infra/db"
	"bay-scheduler/internal/infra/memstore"
	"bay-scheduler/internal/infra/readstore"
	"bay-scheduler/internal/infra/uow"
	"bay-scheduler/internal/pkg/config"
	"bay-scheduler/internal/usecase/queries"
	"bay-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStorage,
	),
)

// Storage is the write and read side of the selected booking store.
type Storage struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	ReadStore  queries.BookingReadStore
}

func NewStorage(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("using the in-memory booking store; bookings are lost on restart")
		store := memstore.NewStore(logger)
		return Storage{UnitOfWork: store, ReadStore: store}, nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return Storage{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return Storage{
		UnitOfWork: uow.NewPostgresUoW(pool, logger),
		ReadStore:  readstore.NewBookingReadStore(pool, logger),
	}, nil
}
