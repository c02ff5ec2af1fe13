package di

import (
	"bmac/internal/providers"
	"bmac/internal/services"
	"bmac/internal/structures"
	"bmac/internal/supporter"
)

// Analyzer bundles everything a CLI command needs: config, logging,
// the dataset store and the fetch/analyze services. Serve mode builds
// the full App instead.
type Analyzer struct {
	Conf    *structures.Config
	Logger  providers.Logger
	Store   supporter.StoreInterface
	Fetcher services.FetcherServiceInterface
	Stats   services.StatsServiceInterface
}

// Close releases the store (and its compressor) before the logger so
// shutdown messages still reach the log.
func (a *Analyzer) Close() {
	a.Store.Close()
	a.Logger.Close()
}
