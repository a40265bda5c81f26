package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/marketpulse/internal/market"
	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/monitoring"
	"github.com/spacesedan/marketpulse/internal/news"
	"golang.org/x/sync/errgroup"
)

// Subscriptions is the registry the dispatcher shares with the scheduler.
type Subscriptions interface {
	Subscribe(ticker, subscriberID string, interval time.Duration) models.Subscription
	Unsubscribe(ticker, subscriberID string) bool
	List(subscriberID string) []models.Subscription
}

// MaxMonitorMinutes caps the interval a subscriber can request.
const MaxMonitorMinutes = 24 * 60

type Dispatcher struct {
	universe        map[string]struct{}
	suffix          string
	market          market.SnapshotProvider
	news            news.Summarizer
	subscriptions   Subscriptions
	replier         monitoring.Notifier
	defaultInterval time.Duration
}

type Config struct {
	Universe        []string
	MarketSuffix    string
	DefaultInterval time.Duration
}

func New(cfg Config, provider market.SnapshotProvider, summarizer news.Summarizer, subs Subscriptions, replier monitoring.Notifier) *Dispatcher {
	universe := make(map[string]struct{}, len(cfg.Universe))
	for _, t := range cfg.Universe {
		universe[strings.ToUpper(t)] = struct{}{}
	}
	interval := cfg.DefaultInterval
	if interval <= 0 {
		interval = monitoring.DefaultInterval
	}

	return &Dispatcher{
		universe:        universe,
		suffix:          strings.ToUpper(cfg.MarketSuffix),
		market:          provider,
		news:            summarizer,
		subscriptions:   subs,
		replier:         replier,
		defaultInterval: interval,
	}
}

// ValidateTicker upper-cases the ticker, drops a trailing market suffix and
// checks it against the configured universe.
func (d *Dispatcher) ValidateTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if d.suffix != "" {
		ticker = strings.TrimSuffix(ticker, d.suffix)
	}
	if _, ok := d.universe[ticker]; !ok {
		return ticker, fmt.Errorf("%w: %s", models.ErrInvalidTicker, ticker)
	}
	return ticker, nil
}

// HandleText routes one inbound message and sends the reply. Text that is not
// a command is ignored.
func (d *Dispatcher) HandleText(ctx context.Context, subscriberID, text string) error {
	name, args, ok := ParseCommand(text)
	if !ok {
		slog.Debug("[Dispatcher] Ignoring non-command message", slog.String("subscriber", subscriberID))
		return nil
	}

	reply := d.OnCommand(ctx, name, args, subscriberID)
	if err := d.replier.Send(ctx, subscriberID, reply); err != nil {
		return fmt.Errorf("failed to send reply for /%s: %w", name, err)
	}
	return nil
}

// OnCommand executes a parsed command and returns the reply text.
func (d *Dispatcher) OnCommand(ctx context.Context, name string, args []string, subscriberID string) string {
	slog.Info("[Dispatcher] Command received",
		slog.String("command", name),
		slog.String("subscriber", subscriberID),
		slog.Int("args", len(args)))

	switch name {
	case CommandStart, CommandHelp:
		return helpText
	case CommandList:
		return formatList(d.subscriptions.List(subscriberID))
	case CommandStock, CommandNews, CommandMonitor, CommandUnmonitor:
	default:
		return unknownCommandText
	}

	if len(args) == 0 {
		return usage(name)
	}
	ticker, err := d.ValidateTicker(args[0])
	if err != nil {
		slog.Info("[Dispatcher] Rejected ticker",
			slog.String("command", name),
			slog.String("ticker", ticker),
			slog.String("error", err.Error()))
		return invalidTickerText(ticker)
	}

	switch name {
	case CommandStock:
		return d.stock(ctx, ticker)
	case CommandNews:
		return d.newsReport(ctx, ticker)
	case CommandMonitor:
		return d.monitor(ticker, args[1:], subscriberID)
	default:
		return d.unmonitor(ticker, subscriberID)
	}
}

func (d *Dispatcher) stock(ctx context.Context, ticker string) string {
	var (
		snap    *models.MarketSnapshot
		summary *models.NewsSummary
	)

	var g errgroup.Group
	g.Go(func() error {
		snap = d.market.Snapshot(ctx, ticker)
		return nil
	})
	g.Go(func() error {
		summary = d.news.Summarize(ctx, ticker)
		return nil
	})
	_ = g.Wait()

	if snap == nil {
		return fmt.Sprintf("⚠️ Could not fetch market data for %s.", ticker)
	}
	return formatStock(ticker, snap, summary)
}

func (d *Dispatcher) newsReport(ctx context.Context, ticker string) string {
	summary := d.news.Summarize(ctx, ticker)
	if summary == nil || summary.ItemCount == 0 {
		return fmt.Sprintf("ℹ️ No recent news found for %s.", ticker)
	}
	return formatNews(ticker, summary)
}

func (d *Dispatcher) monitor(ticker string, rest []string, subscriberID string) string {
	interval := d.defaultInterval
	if len(rest) > 0 {
		minutes, err := strconv.Atoi(rest[0])
		if err != nil || minutes <= 0 || minutes > MaxMonitorMinutes {
			return usage(CommandMonitor)
		}
		interval = time.Duration(minutes) * time.Minute
	}

	sub := d.subscriptions.Subscribe(ticker, subscriberID, interval)
	return fmt.Sprintf("🔔 Monitoring %s. You will receive updates every %s.", ticker, formatInterval(sub.Interval))
}

func (d *Dispatcher) unmonitor(ticker, subscriberID string) string {
	if d.subscriptions.Unsubscribe(ticker, subscriberID) {
		return fmt.Sprintf("🔕 Stopped monitoring %s.", ticker)
	}
	return fmt.Sprintf("ℹ️ You were not monitoring %s.", ticker)
}
