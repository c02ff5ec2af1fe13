package services

import (
	"context"
	"errors"
	"sync"

	"github.com/roylee0704/gron"

	"bmac/internal/providers"
	"bmac/internal/structures"
	"bmac/internal/supporter/interfaces"
)

// Scheduler keeps the dataset cache warm for the creators named in the
// refresh config by refetching each of them on a fixed interval.
type Scheduler struct {
	conf    *structures.Config
	logger  providers.Logger
	fetcher FetcherServiceInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func NewScheduler(conf *structures.Config, logger providers.Logger, fetcher FetcherServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		conf:    conf,
		logger:  logger,
		fetcher: fetcher,
	}
}

func (s *Scheduler) enabled() bool {
	return s.conf.Cache.Enabled &&
		s.conf.Refresh.Interval > 0 &&
		len(s.conf.Refresh.Creators) > 0
}

// Warm runs one synchronous refresh pass so the first requests after
// boot are served from a fresh cache. Per-creator failures are logged
// and joined into the returned error; the pass never stops early.
func (s *Scheduler) Warm() error {
	if !s.enabled() {
		return nil
	}
	return s.refresh()
}

func (s *Scheduler) Start() {
	if !s.enabled() {
		s.logger.Infof(providers.TypeApp, "Warm refresh disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.conf.Refresh.Interval), func() {
		if err := s.refresh(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Warm refresh: %s", err)
		}
	})
	s.cron.Start()

	s.logger.Infof(providers.TypeApp, "Warm refresh every %s for %d creators",
		s.conf.Refresh.Interval, len(s.conf.Refresh.Creators))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) refresh() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	var errs []error
	for _, creator := range s.conf.Refresh.Creators {
		records, err := s.fetcher.Refresh(context.Background(), creator)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Refresh %s: %s", creator, err)
			errs = append(errs, err)
			continue
		}
		s.logger.Infof(providers.TypeApp, "Refreshed %s (%d records)", creator, len(records))
	}
	return errors.Join(errs...)
}
