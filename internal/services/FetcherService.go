package services

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"bmac/internal/models"
	"bmac/internal/providers"
	"bmac/internal/structures"
	"bmac/internal/supporter"
)

type FetcherServiceInterface interface {
	FetchAll(ctx context.Context, creator string, useCache bool, pageSize int) ([]models.SupportRecord, error)
	Refresh(ctx context.Context, creator string) ([]models.SupportRecord, error)
}

// FetcherService drives paginated retrieval of a creator's supporter
// history, consulting and populating the dataset cache.
type FetcherService struct {
	conf    *structures.Config
	source  supporter.SourceInterface
	store   supporter.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewFetcherService(conf *structures.Config, source supporter.SourceInterface, store supporter.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) FetcherServiceInterface {
	return &FetcherService{
		conf:    conf,
		source:  source,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchAll returns the creator's complete supporter history in source
// order. With useCache set and a fresh entry on disk, the cached
// dataset is returned verbatim and no request is made; otherwise every
// page is pulled and, with useCache set, the full dataset is written
// back to the store before returning. A dataset with zero records is a
// valid outcome.
func (fs *FetcherService) FetchAll(ctx context.Context, creator string, useCache bool, pageSize int) ([]models.SupportRecord, error) {
	if err := supporter.ValidateCreator(creator); err != nil {
		return nil, err
	}
	useCache = useCache && fs.conf.Cache.Enabled

	if useCache {
		payloads, hit, err := fs.store.Read(creator)
		if err != nil {
			return nil, fmt.Errorf("read cached supporters for %q: %w", creator, err)
		}
		if hit {
			records, err := models.DecodeSupportRecords(payloads)
			if err != nil {
				return nil, fmt.Errorf("cached supporters for %q: %w: %w", creator, supporter.ErrCacheCorrupt, err)
			}
			fs.logger.Infof(providers.TypeFetch, "Using %d cached records for %s", len(records), creator)
			return records, nil
		}
	}

	records, payloads, err := fs.fetchPages(ctx, creator, pageSize)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := fs.store.Write(creator, payloads); err != nil {
			return nil, fmt.Errorf("cache supporters for %q: %w", creator, err)
		}
	}
	return records, nil
}

// Refresh pulls the full dataset from the source and overwrites the
// cache entry regardless of freshness. The warm-refresh scheduler uses
// it so a failed fetch never destroys the previous entry.
func (fs *FetcherService) Refresh(ctx context.Context, creator string) ([]models.SupportRecord, error) {
	if err := supporter.ValidateCreator(creator); err != nil {
		return nil, err
	}
	records, payloads, err := fs.fetchPages(ctx, creator, 0)
	if err != nil {
		return nil, err
	}
	if err := fs.store.Write(creator, payloads); err != nil {
		return nil, fmt.Errorf("cache supporters for %q: %w", creator, err)
	}
	return records, nil
}

// fetchPages walks the paginated source from page 1 until the envelope
// reports no next page. Requests are sequential: each page blocks until
// the previous one arrived. Any transport or decode failure aborts the
// whole walk, so partial datasets are never returned or cached.
func (fs *FetcherService) fetchPages(ctx context.Context, creator string, pageSize int) ([]models.SupportRecord, []json.RawMessage, error) {
	if pageSize <= 0 {
		pageSize = fs.conf.API.PageSize
	}

	start := time.Now()
	var (
		records  []models.SupportRecord
		payloads = make([]json.RawMessage, 0, pageSize)
	)

	for page := 1; ; page++ {
		envelope, err := fs.source.FetchPage(ctx, creator, page, pageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch supporters for %q: %w", creator, err)
		}
		fs.metrics.IncFetchPages(1)

		batch, err := models.DecodeSupportRecords(envelope.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch supporters for %q: page %d: %w", creator, page, err)
		}
		records = append(records, batch...)
		payloads = append(payloads, envelope.Data...)

		if !envelope.HasNext() {
			fs.logger.Infof(providers.TypeFetch, "Fetched %d records for %s across %d pages in %s",
				len(records), creator, page, time.Since(start).Round(time.Millisecond))
			break
		}
	}

	fs.metrics.ObserveFetchDuration(time.Since(start))
	return records, payloads, nil
}
