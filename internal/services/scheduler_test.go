package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmac/internal/structures"
	"bmac/internal/testutil"
)

func schedulerConfig(creators ...string) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{Enabled: true},
		Refresh: structures.RefreshConfig{
			Interval: time.Hour,
			Creators: creators,
		},
	}
}

func TestScheduler_WarmRefreshesEveryConfiguredCreator(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	scheduler := NewScheduler(schedulerConfig("alice", "bob"), &testutil.MockLogger{}, fetcher)

	require.NoError(t, scheduler.Warm())
	assert.Equal(t, []string{"alice", "bob"}, fetcher.Refreshed())
}

func TestScheduler_WarmIsNoopWhenDisabled(t *testing.T) {
	cases := map[string]*structures.Config{
		"cache disabled": {
			Cache:   structures.CacheConfig{Enabled: false},
			Refresh: structures.RefreshConfig{Interval: time.Hour, Creators: []string{"alice"}},
		},
		"no interval": {
			Cache:   structures.CacheConfig{Enabled: true},
			Refresh: structures.RefreshConfig{Creators: []string{"alice"}},
		},
		"no creators": {
			Cache:   structures.CacheConfig{Enabled: true},
			Refresh: structures.RefreshConfig{Interval: time.Hour},
		},
	}

	for name, conf := range cases {
		t.Run(name, func(t *testing.T) {
			fetcher := &testutil.MockFetcher{}
			scheduler := NewScheduler(conf, &testutil.MockLogger{}, fetcher)
			require.NoError(t, scheduler.Warm())
			assert.Empty(t, fetcher.Refreshed())
		})
	}
}

func TestScheduler_WarmJoinsFailuresButFinishesThePass(t *testing.T) {
	fetcher := &testutil.MockFetcher{
		RefreshErrs: map[string]error{"alice": errors.New("upstream down")},
	}
	logger := &testutil.MockLogger{}
	scheduler := NewScheduler(schedulerConfig("alice", "bob"), logger, fetcher)

	err := scheduler.Warm()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, []string{"alice", "bob"}, fetcher.Refreshed(),
		"one failing creator must not stop the others")
	assert.True(t, logger.HasLevel("error"))
}

func TestScheduler_StartThenStop(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	scheduler := NewScheduler(schedulerConfig("alice"), &testutil.MockLogger{}, fetcher)

	scheduler.Start()
	scheduler.Stop()
	assert.Empty(t, fetcher.Refreshed(), "nothing fires before the first interval")
}

func TestScheduler_StartDisabledDoesNotSchedule(t *testing.T) {
	conf := schedulerConfig()
	fetcher := &testutil.MockFetcher{}
	scheduler := NewScheduler(conf, &testutil.MockLogger{}, fetcher)

	scheduler.Start()
	scheduler.Stop()
	assert.Empty(t, fetcher.Refreshed())
}

func TestScheduler_StopBeforeStartIsSafe(t *testing.T) {
	scheduler := NewScheduler(schedulerConfig("alice"), &testutil.MockLogger{}, &testutil.MockFetcher{})
	assert.NotPanics(t, func() { scheduler.Stop() })
}
