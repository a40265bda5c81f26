package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	SMAPeriod        = 20
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
}

type IndicatorSource interface {
	SMA(ctx context.Context, symbol string, period int) (float64, error)
	RSI(ctx context.Context, symbol string, period int) (float64, error)
	MACD(ctx context.Context, symbol string, fast, slow, signalPeriod int) (macd, signal float64, err error)
}

// SnapshotProvider is what the dispatcher and scheduler depend on.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ticker string) *models.MarketSnapshot
}

type Provider struct {
	quotes     QuoteSource
	indicators IndicatorSource
	suffix     string
	currency   string
}

type ProviderOption func(*Provider)

func WithSuffix(suffix string) ProviderOption {
	return func(p *Provider) { p.suffix = suffix }
}

func WithCurrency(currency string) ProviderOption {
	return func(p *Provider) { p.currency = currency }
}

func NewProvider(quotes QuoteSource, indicators IndicatorSource, opts ...ProviderOption) *Provider {
	p := &Provider{
		quotes:     quotes,
		indicators: indicators,
		suffix:     DefaultSuffix,
		currency:   DefaultCurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns nil when no quote is available. Indicators are fetched
// independently; a failed indicator only leaves its own field nil, and the
// recommendation needs price, SMA and RSI.
func (p *Provider) Snapshot(ctx context.Context, ticker string) *models.MarketSnapshot {
	symbol := NormalizeTicker(ticker, p.suffix)
	start := time.Now()

	quote, err := p.quotes.Quote(ctx, symbol)
	if err != nil || quote == nil {
		attrs := []any{slog.String("ticker", ticker), slog.String("symbol", symbol)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.Warn("[MarketProvider] Quote unavailable", attrs...)
		return nil
	}

	snap := &models.MarketSnapshot{
		Ticker:    ticker,
		Price:     quote.Price,
		Open:      quote.Open,
		High:      quote.High,
		Low:       quote.Low,
		Volume:    quote.Volume,
		Currency:  p.currency,
		ChangePct: quote.ChangePct,
	}

	if p.indicators != nil {
		p.fillIndicators(ctx, symbol, snap)
	}

	if snap.SMA20 != nil && snap.RSI14 != nil {
		rec := Recommend(snap.Price, *snap.SMA20, *snap.RSI14)
		snap.Recommendation = &rec
	}

	slog.Debug("[MarketProvider] Built snapshot",
		slog.String("symbol", symbol),
		slog.Float64("price", snap.Price),
		slog.Duration("elapsed", time.Since(start)))
	return snap
}

func (p *Provider) fillIndicators(ctx context.Context, symbol string, snap *models.MarketSnapshot) {
	var g errgroup.Group

	g.Go(func() error {
		if v, err := p.indicators.SMA(ctx, symbol, SMAPeriod); err != nil {
			indicatorFailed(symbol, "sma", err)
		} else {
			snap.SMA20 = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := p.indicators.RSI(ctx, symbol, RSIPeriod); err != nil {
			indicatorFailed(symbol, "rsi", err)
		} else {
			snap.RSI14 = &v
		}
		return nil
	})
	g.Go(func() error {
		macd, signal, err := p.indicators.MACD(ctx, symbol, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
		if err != nil {
			indicatorFailed(symbol, "macd", err)
			return nil
		}
		snap.MACD = &macd
		snap.MACDSignal = &signal
		return nil
	})

	_ = g.Wait()
}

func indicatorFailed(symbol, indicator string, err error) {
	slog.Warn("[MarketProvider] Indicator unavailable",
		slog.String("symbol", symbol),
		slog.String("indicator", indicator),
		slog.String("error", err.Error()))
}
