package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

type CommodityRefresher interface {
	Refresh(ctx context.Context) (int, error)
	EnsureLoaded(ctx context.Context) error
}

type StatusSyncer interface {
	Sync(ctx context.Context) (int, error)
}

type Options struct {
	CommoditySpec string
	SyncEvery     time.Duration
}

type Scheduler struct {
	cron   *cron.Cron
	ticker *gocron.Scheduler
	feed   CommodityRefresher
	syncer StatusSyncer
}

// StartScheduler loads commodities once if none are stored, then refreshes
// them on opts.CommoditySpec (seconds field included). Fulfillment sync runs
// every opts.SyncEvery when a syncer is given.
func StartScheduler(opts Options, feed CommodityRefresher, syncer StatusSyncer) (*Scheduler, error) {
	s := &Scheduler{feed: feed, syncer: syncer}

	if feed != nil {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := feed.EnsureLoaded(ctx); err != nil {
			log.Errorf("Initial commodity load failed: %v", err)
		}
		cancel()

		s.cron = cron.New(cron.WithSeconds())
		if _, err := s.cron.AddFunc(opts.CommoditySpec, s.refreshCommodities); err != nil {
			return nil, fmt.Errorf("invalid commodity refresh schedule %q: %w", opts.CommoditySpec, err)
		}
	}

	if syncer != nil {
		if opts.SyncEvery <= 0 {
			return nil, fmt.Errorf("fulfillment sync interval must be positive")
		}
		s.ticker = gocron.NewScheduler(time.UTC)
		if _, err := s.ticker.Every(opts.SyncEvery).SingletonMode().Do(s.syncFulfillment); err != nil {
			return nil, fmt.Errorf("failed to schedule fulfillment sync: %w", err)
		}
	}

	if s.cron != nil {
		s.cron.Start()
	}
	if s.ticker != nil {
		s.ticker.StartAsync()
	}
	return s, nil
}

func (s *Scheduler) refreshCommodities() {
	log.Info("Refreshing commodity prices...")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.feed.Refresh(ctx)
	if err != nil {
		log.Errorf("Commodity refresh failed: %v", err)
		return
	}
	log.Infof("Commodity refresh stored %d prices", n)
}

func (s *Scheduler) syncFulfillment() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.syncer.Sync(ctx); err != nil {
		log.Errorf("Fulfillment sync failed: %v", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
}
