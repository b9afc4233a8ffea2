package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/posipaka-trade/listingsms/internal/announcement"
	"github.com/posipaka-trade/listingsms/internal/metrics"
	"github.com/posipaka-trade/listingsms/internal/notifier"
	"github.com/posipaka-trade/listingsms/internal/store"
	"go.uber.org/zap"
)

//go:generate mockgen -source=worker.go -destination=mock/mock_worker.go -package=mockworker

type Fetcher interface {
	Fetch(ctx context.Context) ([]announcement.Announcement, error)
}

type Notifier interface {
	Notify(ctx context.Context, message string) notifier.Result
}

// CycleReport summarises one check cycle.
type CycleReport struct {
	ID        string
	Fetched   int
	New       int
	Notified  int
	Skipped   int
	Failed    int
	Persisted bool
}

type Worker struct {
	fetcher  Fetcher
	notifier Notifier
	store    store.Store
	interval time.Duration
	clock    Clock
	logger   *zap.Logger

	// markUndelivered appends links of skipped and failed notifications to the
	// store as if they were sent, so they are never retried.
	markUndelivered bool
}

type Option func(worker *Worker)

func WithClock(clock Clock) Option {
	return func(worker *Worker) {
		worker.clock = clock
	}
}

func WithMarkUndelivered(markUndelivered bool) Option {
	return func(worker *Worker) {
		worker.markUndelivered = markUndelivered
	}
}

func New(fetcher Fetcher, sms Notifier, sentStore store.Store, interval time.Duration,
	logger *zap.Logger, options ...Option) *Worker {
	worker := &Worker{
		fetcher:         fetcher,
		notifier:        sms,
		store:           sentStore,
		interval:        interval,
		clock:           systemClock{},
		logger:          logger,
		markUndelivered: true,
	}
	for _, option := range options {
		option(worker)
	}

	return worker
}

// StartMonitoring runs a cycle immediately and then one per interval until ctx is done.
// A failed cycle is logged and the loop goes on with the next one.
func (worker *Worker) StartMonitoring(ctx context.Context) {
	worker.logger.Info("[worker] -> Listener started.", zap.Duration("interval", worker.interval))
	for ctx.Err() == nil {
		if _, err := worker.RunCycle(ctx); err != nil {
			worker.logger.Error("[worker] -> Cycle aborted.", zap.Error(err))
		}

		select {
		case <-ctx.Done():
		case <-worker.clock.After(worker.interval):
		}
	}
	worker.logger.Info("[worker] -> Listener stopped.")
}

// RunCycle loads the sent links, fetches the announcements, notifies the new
// ones in order and persists the store once if anything was appended.
// On a load or fetch error nothing is notified and the store is left untouched.
func (worker *Worker) RunCycle(ctx context.Context) (report CycleReport, err error) {
	report.ID = uuid.NewString()
	logger := worker.logger.With(zap.String("cycle", report.ID))

	startTime := worker.clock.Now()
	defer func() {
		metrics.RecordCycle(err, worker.clock.Now().Sub(startTime))
	}()

	logger.Info("[worker] -> Checking for new announcements...")
	sentLinks, err := worker.store.Load()
	if err != nil {
		return report, err
	}

	announcements, err := worker.fetcher.Fetch(ctx)
	if err != nil {
		return report, err
	}
	report.Fetched = len(announcements)
	metrics.AnnouncementsFetched.Add(float64(report.Fetched))

	seen := make(map[string]bool, len(sentLinks))
	for _, link := range sentLinks {
		seen[link] = true
	}

	appended := 0
	for _, item := range announcements {
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true
		report.New++

		result := worker.notifier.Notify(ctx, announcement.FormatMessage(item))
		metrics.RecordNotification(result.Status.String())
		switch result.Status {
		case notifier.Sent:
			report.Notified++
		case notifier.SkippedNoCredentials:
			report.Skipped++
		default:
			report.Failed++
		}

		if !result.Delivered() && !worker.markUndelivered {
			logger.Warn("[worker] -> Item not delivered, it will be retried next cycle.",
				zap.String("title", item.Title), zap.Stringer("status", result.Status))
			continue
		}

		worker.store.Append(item.Link)
		appended++
		logger.Info("[worker] -> New item handled.",
			zap.String("title", item.Title), zap.Stringer("status", result.Status))
	}

	if report.New == 0 {
		logger.Info("[worker] -> No new announcement detected.", zap.Int("fetched", report.Fetched))
	}

	if appended != 0 {
		if err = worker.store.Flush(); err != nil {
			return report, err
		}
		report.Persisted = true
	}
	metrics.StoredLinks.Set(float64(len(sentLinks) + appended))

	return report, nil
}
