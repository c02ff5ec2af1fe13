package testutil

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"bmac/internal/models"
	"bmac/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any recorded entry used the given level.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.Logs {
		if entry.Level == level {
			return true
		}
	}
	return false
}

// MockSource implements supporter.SourceInterface with scripted pages.
// Page N serves Pages[N-1]; pages listed in Errs fail instead.
type MockSource struct {
	mu    sync.Mutex
	Pages []*models.SupporterPage
	Errs  map[int]error
	Calls []PageCall
}

type PageCall struct {
	Creator string
	Page    int
	PerPage int
}

func (m *MockSource) FetchPage(_ context.Context, creator string, page, perPage int) (*models.SupporterPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, PageCall{Creator: creator, Page: page, PerPage: perPage})
	if err, ok := m.Errs[page]; ok {
		return nil, err
	}
	if page < 1 || page > len(m.Pages) {
		return &models.SupporterPage{Data: []json.RawMessage{}}, nil
	}
	return m.Pages[page-1], nil
}

func (m *MockSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockStore implements supporter.StoreInterface in memory.
type MockStore struct {
	mu          sync.Mutex
	Entries     map[string][]json.RawMessage
	Stale       map[string]bool
	ReadErr     error
	WriteErr    error
	Writes      []StoreWrite
	Invalidated []string
	Infos       map[string]*models.CacheInfo
	Closed      bool
}

type StoreWrite struct {
	Creator  string
	Payloads []json.RawMessage
}

func NewMockStore() *MockStore {
	return &MockStore{
		Entries: make(map[string][]json.RawMessage),
		Stale:   make(map[string]bool),
		Infos:   make(map[string]*models.CacheInfo),
	}
}

func (m *MockStore) Read(creator string) ([]json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, false, m.ReadErr
	}
	payloads, ok := m.Entries[creator]
	if !ok || m.Stale[creator] {
		return nil, false, nil
	}
	return payloads, true, nil
}

func (m *MockStore) Write(creator string, payloads []json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Entries[creator] = payloads
	delete(m.Stale, creator)
	m.Writes = append(m.Writes, StoreWrite{Creator: creator, Payloads: payloads})
	return nil
}

func (m *MockStore) Invalidate(creator string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, creator)
	if _, ok := m.Entries[creator]; !ok {
		return false, nil
	}
	delete(m.Entries, creator)
	return true, nil
}

func (m *MockStore) InvalidateAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := len(m.Entries)
	m.Entries = make(map[string][]json.RawMessage)
	return removed, nil
}

func (m *MockStore) Describe(creator string) (*models.CacheInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.Infos[creator]; ok {
		return info, true, nil
	}
	return nil, false, nil
}

func (m *MockStore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	creators := make([]string, 0, len(m.Entries))
	for creator := range m.Entries {
		creators = append(creators, creator)
	}
	return creators, nil
}

func (m *MockStore) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

func (m *MockStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Writes)
}

// MockFetcher implements services.FetcherServiceInterface with canned
// results, or with injectable behavior via FetchAllFn.
type MockFetcher struct {
	mu           sync.Mutex
	Records      []models.SupportRecord
	Err          error
	FetchCalls   []FetchCall
	RefreshCalls []string
	RefreshErrs  map[string]error
	FetchAllFn   func(ctx context.Context, creator string, useCache bool, pageSize int) ([]models.SupportRecord, error)
}

type FetchCall struct {
	Creator  string
	UseCache bool
	PageSize int
}

func (m *MockFetcher) FetchAll(ctx context.Context, creator string, useCache bool, pageSize int) ([]models.SupportRecord, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, FetchCall{Creator: creator, UseCache: useCache, PageSize: pageSize})
	fn := m.FetchAllFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, creator, useCache, pageSize)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records, nil
}

func (m *MockFetcher) Refresh(_ context.Context, creator string) ([]models.SupportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshCalls = append(m.RefreshCalls, creator)
	if err, ok := m.RefreshErrs[creator]; ok {
		return nil, err
	}
	return m.Records, nil
}

func (m *MockFetcher) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchCalls)
}

func (m *MockFetcher) Refreshed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.RefreshCalls...)
}

// MockAnalyzer implements services.StatsServiceInterface and records
// the unit prices it was asked to apply.
type MockAnalyzer struct {
	mu     sync.Mutex
	Report *models.StatsReport
	Err    error
	Prices []float64
}

func (m *MockAnalyzer) Analyze(records []models.SupportRecord, unitPrice float64) (*models.StatsReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prices = append(m.Prices, unitPrice)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Report != nil {
		return m.Report, nil
	}
	if len(records) == 0 {
		return &models.StatsReport{NoData: true}, nil
	}
	return &models.StatsReport{}, nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with
// injectable behavior. The default is identity in both directions.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	CloseCalls   int
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.CloseCalls++
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// every observation.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       int
	Durations      int
	CacheHits      int
	CacheMisses    int
	FetchPages     int
	FetchDurations int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncFetchPages(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchPages += n
}

func (m *MockMetrics) ObserveFetchDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchDurations++
}

func (m *MockMetrics) PagesFetched() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchPages
}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	Started bool
	Stopped bool
	Warmed  bool
	WarmErr error
}

func (m *MockScheduler) Start() { m.Started = true }
func (m *MockScheduler) Stop()  { m.Stopped = true }
func (m *MockScheduler) Warm() error {
	m.Warmed = true
	return m.WarmErr
}
