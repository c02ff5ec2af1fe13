//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"bmac/internal"
	"bmac/internal/controllers"
	"bmac/internal/providers"
	"bmac/internal/services"
	"bmac/internal/structures"
	"bmac/internal/supporter"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		supporter.NewCacheCompressor,
		supporter.NewCacheStore,
		supporter.NewClient,
		wire.Bind(new(providers.CacheLister), new(supporter.StoreInterface)),

		services.NewFetcherService,
		services.NewStatsService,
		services.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitAnalyzer(cfg *structures.CliFlags) (*Analyzer, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		supporter.NewCacheCompressor,
		supporter.NewCacheStore,
		supporter.NewClient,
		wire.Bind(new(providers.CacheLister), new(supporter.StoreInterface)),

		services.NewFetcherService,
		services.NewStatsService,

		wire.Struct(new(Analyzer), "*"),
	)

	return nil, nil
}
