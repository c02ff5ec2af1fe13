package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"

	"bmac/internal/providers"
	"bmac/internal/services"
	"bmac/internal/structures"
	"bmac/internal/supporter"
)

type ApiController struct {
	conf    *structures.Config
	logger  providers.Logger
	fetcher services.FetcherServiceInterface
	stats   services.StatsServiceInterface
	store   supporter.StoreInterface
	cache   providers.CacheProviderInterface
	group   singleflight.Group
}

func NewApiController(
	conf *structures.Config,
	logger providers.Logger,
	fetcher services.FetcherServiceInterface,
	stats services.StatsServiceInterface,
	store supporter.StoreInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		conf:    conf,
		logger:  logger,
		fetcher: fetcher,
		stats:   stats,
		store:   store,
		cache:   cache,
	}
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (ac *ApiController) writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	ac.writeJSON(w, status, body)
}

// statusForError maps the fetch/analysis error chain onto HTTP codes:
// caller mistakes are 400, a broken cache file is 500, anything the
// upstream did wrong is 502.
func statusForError(err error) int {
	switch {
	case errors.Is(err, supporter.ErrInvalidCreator):
		return http.StatusBadRequest
	case errors.Is(err, supporter.ErrCacheCorrupt):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// serveFromCacheOrCompute answers from the response cache when it can,
// otherwise runs compute exactly once per key no matter how many
// identical requests are in flight, then caches the marshaled result.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		ac.writeJSON(w, http.StatusOK, data)
		return
	}

	body, err, _ := ac.group.Do(cacheKey, func() (any, error) {
		result, err := compute()
		if err != nil {
			return nil, err
		}
		gson, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		ac.cache.Set(cacheKey, gson)
		return gson, nil
	})
	if err != nil {
		reqID := providers.RequestIDFromContext(r.Context())
		ac.logger.Errorf(providers.TypeGet, "[%s] %s: %s", reqID, r.URL.Path, err)
		status := statusForError(err)
		if status == http.StatusBadRequest {
			ac.writeError(w, status, err.Error())
		} else {
			ac.writeError(w, status, http.StatusText(status))
		}
		return
	}

	ac.writeJSON(w, http.StatusOK, body.([]byte))
}

// creatorParam pulls the required creator slug from the query string.
func creatorParam(r *http.Request) (string, error) {
	creator := r.URL.Query().Get("creator")
	if creator == "" {
		return "", errors.New("creator query parameter is required")
	}
	return creator, nil
}

// GetStats fetches (or reads from the dataset cache) a creator's full
// history and returns the analyzed report. price overrides the
// configured per-coffee price, page_size the fetch page size.
func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	creator, err := creatorParam(r)
	if err != nil {
		ac.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	price := ac.conf.Analyzer.CoffeePrice
	if raw := r.URL.Query().Get("price"); raw != "" {
		price, err = cast.ToFloat64E(raw)
		if err != nil {
			ac.writeError(w, http.StatusBadRequest, "price must be a number")
			return
		}
	}
	if price < 0 {
		ac.writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		pageSize, err = cast.ToIntE(raw)
		if err != nil || pageSize < 1 {
			ac.writeError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
	}

	cacheKey := fmt.Sprintf("stats:%s:%g", creator, price)
	ac.serveFromCacheOrCompute(w, r, cacheKey, func() (any, error) {
		// The compute is shared by every collapsed request, so it must
		// not die with the first caller's context.
		ctx := context.WithoutCancel(r.Context())
		records, err := ac.fetcher.FetchAll(ctx, creator, true, pageSize)
		if err != nil {
			return nil, err
		}
		return ac.stats.Analyze(records, price)
	})
}

// GetCreators lists the creators that currently have a cache entry.
func (ac *ApiController) GetCreators(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, "creators", func() (any, error) {
		return ac.store.List()
	})
}

// GetCacheInfo reports file metadata for one creator's cache entry.
// Served live: describing a stale path would defeat its purpose.
func (ac *ApiController) GetCacheInfo(w http.ResponseWriter, r *http.Request) {
	creator, err := creatorParam(r)
	if err != nil {
		ac.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, ok, err := ac.store.Describe(creator)
	if err != nil {
		if errors.Is(err, supporter.ErrInvalidCreator) {
			ac.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		reqID := providers.RequestIDFromContext(r.Context())
		ac.logger.Errorf(providers.TypeGet, "[%s] describe cache for %s: %s", reqID, creator, err)
		ac.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	if !ok {
		ac.writeError(w, http.StatusNotFound, fmt.Sprintf("no cache entry for %s", creator))
		return
	}

	gson, err := json.Marshal(info)
	if err != nil {
		ac.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	ac.writeJSON(w, http.StatusOK, gson)
}

// DeleteCache invalidates one creator's cache entry and reports whether
// anything was removed.
func (ac *ApiController) DeleteCache(w http.ResponseWriter, r *http.Request) {
	creator, err := creatorParam(r)
	if err != nil {
		ac.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := ac.store.Invalidate(creator)
	if err != nil {
		if errors.Is(err, supporter.ErrInvalidCreator) {
			ac.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		reqID := providers.RequestIDFromContext(r.Context())
		ac.logger.Errorf(providers.TypePost, "[%s] invalidate cache for %s: %s", reqID, creator, err)
		ac.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	gson, err := json.Marshal(map[string]any{"creator": creator, "removed": removed})
	if err != nil {
		ac.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	ac.writeJSON(w, http.StatusOK, gson)
}
