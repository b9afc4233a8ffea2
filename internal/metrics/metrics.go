// Package metrics provides Prometheus metrics for listingsms.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "listingsms"

var (
	// CyclesTotal counts finished cycles by outcome ("ok" or "error").
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of check cycles",
		},
		[]string{"outcome"},
	)

	// CycleDuration measures the duration of a check cycle.
	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of check cycles in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// AnnouncementsFetched counts announcements returned by the scraper.
	AnnouncementsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_fetched_total",
			Help:      "Total number of announcements parsed from the listing page",
		},
	)

	// NotificationsTotal counts notification attempts by status.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification attempts",
		},
		[]string{"status"},
	)

	// RuleMissesTotal counts pages where no link matched the selector rule.
	RuleMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_misses_total",
			Help:      "Total number of fetched pages with links but no matching announcement",
		},
		[]string{"rule_version"},
	)

	// StoredLinks tracks the size of the dedup store after the last cycle.
	StoredLinks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_links",
			Help:      "Number of links in the dedup store",
		},
	)
)

// RecordCycle records a finished cycle.
func RecordCycle(err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CyclesTotal.WithLabelValues(outcome).Inc()
	CycleDuration.Observe(duration.Seconds())
}

// RecordNotification records one notification attempt.
func RecordNotification(status string) {
	NotificationsTotal.WithLabelValues(status).Inc()
}

// RecordRuleMiss records a page where the selector rule found nothing.
func RecordRuleMiss(ruleVersion string) {
	RuleMissesTotal.WithLabelValues(ruleVersion).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()

	logger.Info("metrics server listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
