package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"bay-scheduler/internal/domain/resource"
	"bay-scheduler/internal/infra/registryfile"
	"bay-scheduler/internal/pkg/config"

	"go.uber.org/fx"
)

var RegistryModule = fx.Module("registry",
	fx.Provide(
		NewRegistry,
		func(reg *resource.Registry) *time.Location {
			return reg.Location()
		},
	),
)

func NewRegistry(cfg config.Config, logger *slog.Logger) (*resource.Registry, error) {
	loc, err := time.LoadLocation(cfg.Storage.ShopTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid SHOP_TIMEZONE %q: %w", cfg.Storage.ShopTimeZone, err)
	}

	if cfg.Storage.RegistryFile == "" {
		logger.Info("using the default two-bay registry", "timezone", loc.String())
		return resource.DefaultRegistry(loc), nil
	}

	reg, err := registryfile.Load(cfg.Storage.RegistryFile, loc)
	if err != nil {
		return nil, err
	}
	logger.Info("resource registry loaded",
		"file", cfg.Storage.RegistryFile,
		"resources", reg.Len(),
		"timezone", reg.Location().String())
	return reg, nil
}
