package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmac/internal/models"
	"bmac/internal/structures"
	"bmac/internal/supporter"
	"bmac/internal/testutil"
)

func fetcherConfig() *structures.Config {
	return &structures.Config{
		API: structures.APIConfig{
			BaseURL:  "https://app.buymeacoffee.com/api/creators/slug",
			PageSize: 20,
		},
		Cache: structures.CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
	}
}

func rawRecord(id int64, createdOn string, coffees int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"id":%d,"support_created_on":%q,"support_coffees":%d}`, id, createdOn, coffees))
}

func pageOf(hasNext bool, payloads ...json.RawMessage) *models.SupporterPage {
	page := &models.SupporterPage{Data: payloads}
	if hasNext {
		page.Links.Next = "https://app.buymeacoffee.com/api/?page=next"
	}
	return page
}

func newFetcher(conf *structures.Config, source *testutil.MockSource, store *testutil.MockStore) (FetcherServiceInterface, *testutil.MockMetrics) {
	metrics := &testutil.MockMetrics{}
	return NewFetcherService(conf, source, store, &testutil.MockLogger{}, metrics), metrics
}

func TestFetchAll_WalksEveryPageInOrder(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(true, rawRecord(1, "2024-01-01T00:00:00", 1), rawRecord(2, "2024-01-02T00:00:00", 2)),
		pageOf(true, rawRecord(3, "2024-01-03T00:00:00", 3)),
		pageOf(false, rawRecord(4, "2024-01-04T00:00:00", 4)),
	}}
	store := testutil.NewMockStore()
	fetcher, metrics := newFetcher(fetcherConfig(), source, store)

	records, err := fetcher.FetchAll(context.Background(), "alice", false, 0)
	require.NoError(t, err)

	require.Len(t, records, 4)
	for i, rec := range records {
		assert.Equal(t, int64(i+1), rec.ID, "records must keep source order")
	}

	require.Equal(t, 3, source.CallCount(), "one request per page, no more")
	for i, call := range source.Calls {
		assert.Equal(t, "alice", call.Creator)
		assert.Equal(t, i+1, call.Page)
		assert.Equal(t, 20, call.PerPage, "page size falls back to config")
	}
	assert.Equal(t, 3, metrics.PagesFetched())
}

func TestFetchAll_SinglePageWithoutNextStopsImmediately(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false, rawRecord(1, "2024-01-01T00:00:00", 1)),
	}}
	fetcher, _ := newFetcher(fetcherConfig(), source, testutil.NewMockStore())

	records, err := fetcher.FetchAll(context.Background(), "alice", false, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, source.CallCount())
}

func TestFetchAll_EmptyDatasetIsValid(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false),
	}}
	store := testutil.NewMockStore()
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	records, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, store.WriteCount(), "empty dataset still gets cached")
}

func TestFetchAll_ExplicitPageSizeWins(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{pageOf(false)}}
	fetcher, _ := newFetcher(fetcherConfig(), source, testutil.NewMockStore())

	_, err := fetcher.FetchAll(context.Background(), "alice", false, 50)
	require.NoError(t, err)
	require.Len(t, source.Calls, 1)
	assert.Equal(t, 50, source.Calls[0].PerPage)
}

func TestFetchAll_CacheHitSkipsNetwork(t *testing.T) {
	source := &testutil.MockSource{}
	store := testutil.NewMockStore()
	store.Entries["alice"] = []json.RawMessage{
		rawRecord(1, "2024-01-01T00:00:00", 2),
		rawRecord(2, "2024-01-02T00:00:00", 3),
	}
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	records, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 0, source.CallCount(), "fresh cache must not hit the network")
}

func TestFetchAll_StaleEntryRefetchesAndRewrites(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false, rawRecord(9, "2024-05-01T00:00:00", 1)),
	}}
	store := testutil.NewMockStore()
	store.Entries["alice"] = []json.RawMessage{rawRecord(1, "2024-01-01T00:00:00", 1)}
	store.Stale["alice"] = true
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	records, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID)
	assert.Equal(t, 1, source.CallCount())
	assert.Equal(t, 1, store.WriteCount())
}

func TestFetchAll_NoCacheBypassesReadAndWrite(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false, rawRecord(9, "2024-05-01T00:00:00", 1)),
	}}
	store := testutil.NewMockStore()
	store.Entries["alice"] = []json.RawMessage{rawRecord(1, "2024-01-01T00:00:00", 1)}
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	records, err := fetcher.FetchAll(context.Background(), "alice", false, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID, "cached entry must be ignored")
	assert.Equal(t, 0, store.WriteCount())
}

func TestFetchAll_CacheDisabledByConfig(t *testing.T) {
	conf := fetcherConfig()
	conf.Cache.Enabled = false
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false, rawRecord(9, "2024-05-01T00:00:00", 1)),
	}}
	store := testutil.NewMockStore()
	store.Entries["alice"] = []json.RawMessage{rawRecord(1, "2024-01-01T00:00:00", 1)}
	fetcher, _ := newFetcher(conf, source, store)

	records, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID)
	assert.Equal(t, 0, store.WriteCount(), "disabled cache is never written")
}

func TestFetchAll_WritesFullDatasetAfterFetch(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(true, rawRecord(1, "2024-01-01T00:00:00", 1)),
		pageOf(false, rawRecord(2, "2024-01-02T00:00:00", 2)),
	}}
	store := testutil.NewMockStore()
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	_, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)
	require.Len(t, store.Writes, 1)
	assert.Equal(t, "alice", store.Writes[0].Creator)
	assert.Len(t, store.Writes[0].Payloads, 2, "all pages land in one entry")
}

func TestFetchAll_TransportErrorAbortsWithoutWrite(t *testing.T) {
	wantErr := errors.New("connection refused")
	source := &testutil.MockSource{
		Pages: []*models.SupporterPage{
			pageOf(true, rawRecord(1, "2024-01-01T00:00:00", 1)),
		},
		Errs: map[int]error{2: wantErr},
	}
	store := testutil.NewMockStore()
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	_, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, store.WriteCount(), "partial datasets are never cached")
}

func TestFetchAll_DecodeErrorNamesPage(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(true, rawRecord(1, "2024-01-01T00:00:00", 1)),
		pageOf(false, json.RawMessage(`{"id":"not a number"}`)),
	}}
	store := testutil.NewMockStore()
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	_, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, 0, store.WriteCount())
}

func TestFetchAll_CorruptCachedPayloadSurfaces(t *testing.T) {
	store := testutil.NewMockStore()
	store.Entries["alice"] = []json.RawMessage{json.RawMessage(`{"id":`)}
	fetcher, _ := newFetcher(fetcherConfig(), &testutil.MockSource{}, store)

	_, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, supporter.ErrCacheCorrupt)
}

func TestFetchAll_StoreReadErrorPropagates(t *testing.T) {
	store := testutil.NewMockStore()
	store.ReadErr = fmt.Errorf("wrapped: %w", supporter.ErrCacheCorrupt)
	fetcher, _ := newFetcher(fetcherConfig(), &testutil.MockSource{}, store)

	_, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, supporter.ErrCacheCorrupt)
}

func TestFetchAll_StoreWriteErrorPropagates(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false, rawRecord(1, "2024-01-01T00:00:00", 1)),
	}}
	store := testutil.NewMockStore()
	store.WriteErr = errors.New("disk full")
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	_, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFetchAll_InvalidCreatorRejectedBeforeAnyIO(t *testing.T) {
	source := &testutil.MockSource{}
	store := testutil.NewMockStore()
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	for _, creator := range []string{"", "../etc", "a/b", ".hidden"} {
		_, err := fetcher.FetchAll(context.Background(), creator, true, 0)
		assert.ErrorIs(t, err, supporter.ErrInvalidCreator, "creator %q", creator)
	}
	assert.Equal(t, 0, source.CallCount())
	assert.Equal(t, 0, store.WriteCount())
}

func TestRefresh_OverwritesFreshEntry(t *testing.T) {
	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(false, rawRecord(9, "2024-05-01T00:00:00", 1)),
	}}
	store := testutil.NewMockStore()
	store.Entries["alice"] = []json.RawMessage{rawRecord(1, "2024-01-01T00:00:00", 1)}
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	records, err := fetcher.Refresh(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID)
	assert.Equal(t, 1, source.CallCount(), "refresh always fetches")
	assert.Equal(t, 1, store.WriteCount())
}

func TestRefresh_FailedFetchKeepsPreviousEntry(t *testing.T) {
	source := &testutil.MockSource{Errs: map[int]error{1: errors.New("upstream down")}}
	store := testutil.NewMockStore()
	previous := []json.RawMessage{rawRecord(1, "2024-01-01T00:00:00", 1)}
	store.Entries["alice"] = previous
	fetcher, _ := newFetcher(fetcherConfig(), source, store)

	_, err := fetcher.Refresh(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, 0, store.WriteCount())
	assert.Equal(t, previous, store.Entries["alice"], "old entry survives a failed refresh")
}

// Round-trip through the real on-disk store: the second call must be
// served from the file the first call wrote.
func TestFetchAll_CacheRoundTripOnDisk(t *testing.T) {
	conf := fetcherConfig()
	conf.Cache.Dir = t.TempDir()

	store, err := supporter.NewCacheStore(conf, supporter.NopCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	defer store.Close()

	source := &testutil.MockSource{Pages: []*models.SupporterPage{
		pageOf(true, rawRecord(1, "2024-01-05T10:00:00", 3)),
		pageOf(false, rawRecord(2, "2024-02-10T09:15:00", 10)),
	}}
	fetcher := NewFetcherService(conf, source, store, &testutil.MockLogger{}, &testutil.MockMetrics{})

	first, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)
	second, err := fetcher.FetchAll(context.Background(), "alice", true, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, source.CallCount(), "second run is answered from disk")
}
