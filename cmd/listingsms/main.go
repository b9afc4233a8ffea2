package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/posipaka-trade/listingsms/internal/cfg"
	"github.com/posipaka-trade/listingsms/internal/log"
	"github.com/posipaka-trade/listingsms/internal/metrics"
	"github.com/posipaka-trade/listingsms/internal/notifier"
	"github.com/posipaka-trade/listingsms/internal/scraper"
	"github.com/posipaka-trade/listingsms/internal/store"
	"github.com/posipaka-trade/listingsms/worker"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := cfg.LoadEnv(cfg.DefaultEnvPath); err != nil {
		return err
	}

	config, err := cfg.Load(cfg.DefaultPath)
	if err != nil {
		return err
	}

	logger, err := log.New("listingsms", config.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sentStore, err := store.Open(config.Store.Backend, config.Store.Path, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sentStore.Close(); err != nil {
			logger.Error("[store] -> Close failed.", zap.Error(err))
		}
	}()

	if config.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, config.MetricsAddr, logger); err != nil {
				logger.Error("[metrics] -> Server stopped.", zap.Error(err))
			}
		}()
	}

	handler := scraper.New(scraper.Config{
		PageUrl:   config.PageUrl,
		UserAgent: config.UserAgent,
		Timeout:   config.HttpTimeout,
		Rule:      config.Rule,
	}, logger)
	sms := notifier.NewSms(config.Sms.GatewayUrl, config.Sms.Credentials, config.HttpTimeout, logger)

	logger.Info("Starting the Binance listing announcements listener...",
		zap.String("store", config.Store.Backend), zap.String("rule", config.Rule.Version))
	w := worker.New(handler, sms, sentStore, config.Interval, logger,
		worker.WithMarkUndelivered(config.Sms.MarkUndelivered))
	w.StartMonitoring(ctx)

	return nil
}
