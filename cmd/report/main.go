package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spacesedan/marketpulse/config"
	"github.com/spacesedan/marketpulse/internal/app"
	"github.com/spacesedan/marketpulse/internal/dispatcher"
	"github.com/spacesedan/marketpulse/internal/logging"
	"github.com/spacesedan/marketpulse/internal/monitoring"
)

type stdoutNotifier struct{}

func (stdoutNotifier) Send(ctx context.Context, subscriberID, text string) error {
	_, err := fmt.Fprintln(os.Stdout, text)
	return err
}

// report runs one command against the live pipeline and prints the reply,
// e.g. `report /stock PETR4` or `report /news VALE3`.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: report /command [TICKER]")
		os.Exit(2)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Report] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	scorer, closeScorer := app.NewScorer(cfg)
	defer closeScorer()

	aggregator := app.NewAggregator(cfg, scorer)
	provider := app.NewMarketProvider(cfg)
	scheduler := monitoring.NewScheduler(provider, aggregator, stdoutNotifier{},
		monitoring.WithDefaultInterval(cfg.CheckInterval))

	d := dispatcher.New(dispatcher.Config{
		Universe:        cfg.Stocks,
		MarketSuffix:    cfg.MarketSuffix,
		DefaultInterval: cfg.CheckInterval,
	}, provider, aggregator, scheduler, stdoutNotifier{})

	text := os.Args[1]
	for _, arg := range os.Args[2:] {
		text += " " + arg
	}
	if err := d.HandleText(ctx, "cli", text); err != nil {
		slog.Error("[Report] Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
