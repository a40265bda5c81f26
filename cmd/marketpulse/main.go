package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/marketpulse/config"
	"github.com/spacesedan/marketpulse/internal/app"
	"github.com/spacesedan/marketpulse/internal/cache"
	"github.com/spacesedan/marketpulse/internal/clients"
	"github.com/spacesedan/marketpulse/internal/clients/kafka_client"
	"github.com/spacesedan/marketpulse/internal/consumers"
	"github.com/spacesedan/marketpulse/internal/dispatcher"
	"github.com/spacesedan/marketpulse/internal/logging"
	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/monitoring"
	"github.com/spacesedan/marketpulse/internal/news"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("[Main] Exiting", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run owns every client it opens so their deferred closes happen before exit.
func run(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scorer, closeScorer := app.NewScorer(cfg)
	defer closeScorer()

	aggregator := app.NewAggregator(cfg, scorer)
	provider := app.NewMarketProvider(cfg)

	kcfg := kafka_client.GetKafkaConfig(cfg.Kafka)
	var (
		producer *kafka_client.Producer
		err      error
	)
	for {
		producer, err = kafka_client.NewProducer(kcfg)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer producer.Close()

	scheduler := monitoring.NewScheduler(provider, aggregator,
		kafka_client.NewNotifier(producer, models.MessageKindAlert),
		monitoring.WithDefaultInterval(cfg.CheckInterval),
		monitoring.WithTickCadence(cfg.TickCadence),
		monitoring.WithMaxConcurrentRuns(cfg.MaxConcurrentRuns))

	// Only on-demand requests go through the cache; alerts always see fresh news.
	var summarizer news.Summarizer = aggregator
	if cfg.Valkey.InitAddress != "" {
		valkey, err := clients.NewValkeyClient(cfg.Valkey.InitAddress, cfg.Valkey.Password, cfg.Valkey.UseTLS)
		if err != nil {
			slog.Warn("[Main] Valkey unavailable, summary cache disabled", slog.String("error", err.Error()))
		} else {
			defer valkey.Close()
			summarizer = cache.NewSummaryCache(aggregator, valkey, cfg.Valkey.SummaryCacheTTL)
		}
	}

	d := dispatcher.New(dispatcher.Config{
		Universe:        cfg.Stocks,
		MarketSuffix:    cfg.MarketSuffix,
		DefaultInterval: cfg.CheckInterval,
	}, provider, summarizer, scheduler, kafka_client.NewNotifier(producer, models.MessageKindReply))

	consumer, err := kafka_client.NewConsumer(kcfg)
	if err != nil {
		return fmt.Errorf("start command consumer: %w", err)
	}

	scheduler.Start(ctx)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumers.StartCommandConsumer(ctx, consumer, d)
	}()

	slog.Info("[Main] marketpulse running",
		slog.Int("stocks", len(cfg.Stocks)),
		slog.String("sentiment_backend", cfg.SentimentBackend),
		slog.Duration("check_interval", cfg.CheckInterval))

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("[Main] Shutting down gracefully...")
	cancel()
	<-consumerDone
	scheduler.Stop()
	if err := consumer.Close(); err != nil {
		slog.Warn("[Main] Failed to close consumer", slog.String("error", err.Error()))
	}
	return nil
}
