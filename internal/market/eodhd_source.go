package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spacesedan/marketpulse/internal/models"
)

// EODHDAPI is the subset of clients.EODHDClient the market sources use.
type EODHDAPI interface {
	RealTimeQuote(ctx context.Context, symbol string) (*models.EODHDRealTimeQuote, error)
	Technical(ctx context.Context, symbol, function string, params url.Values) ([]models.EODHDTechnicalPoint, error)
}

// EODHDSource serves both quotes and indicators from EODHD.
type EODHDSource struct {
	api EODHDAPI
}

func NewEODHDSource(api EODHDAPI) *EODHDSource {
	return &EODHDSource{api: api}
}

func (s *EODHDSource) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	rt, err := s.api.RealTimeQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if rt == nil || !rt.Close.Valid || rt.Close.Value <= 0 {
		return nil, fmt.Errorf("%w: no quote for %s", models.ErrNoData, symbol)
	}

	q := &models.Quote{
		Price:  rt.Close.Value,
		Open:   rt.Open.Value,
		High:   rt.High.Value,
		Low:    rt.Low.Value,
		Volume: int64(rt.Volume.Value),
	}
	if rt.ChangePct.Valid {
		pct := rt.ChangePct.Value
		q.ChangePct = &pct
	}
	return q, nil
}

func (s *EODHDSource) SMA(ctx context.Context, symbol string, period int) (float64, error) {
	return s.latest(ctx, symbol, "sma", "sma", url.Values{"period": {strconv.Itoa(period)}})
}

func (s *EODHDSource) RSI(ctx context.Context, symbol string, period int) (float64, error) {
	return s.latest(ctx, symbol, "rsi", "rsi", url.Values{"period": {strconv.Itoa(period)}})
}

func (s *EODHDSource) MACD(ctx context.Context, symbol string, fast, slow, signalPeriod int) (float64, float64, error) {
	params := url.Values{
		"fast_period":   {strconv.Itoa(fast)},
		"slow_period":   {strconv.Itoa(slow)},
		"signal_period": {strconv.Itoa(signalPeriod)},
	}
	points, err := s.api.Technical(ctx, symbol, "macd", params)
	if err != nil {
		return 0, 0, err
	}
	if len(points) == 0 {
		return 0, 0, fmt.Errorf("%w: empty macd series for %s", models.ErrNoData, symbol)
	}

	last := points[len(points)-1]
	macd, err := pointValue(last, "macd")
	if err != nil {
		return 0, 0, err
	}
	sig, err := pointValue(last, "signal")
	if err != nil {
		return 0, 0, err
	}
	return macd, sig, nil
}

// latest returns field from the most recent point of a series.
func (s *EODHDSource) latest(ctx context.Context, symbol, function, field string, params url.Values) (float64, error) {
	points, err := s.api.Technical(ctx, symbol, function, params)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: empty %s series for %s", models.ErrNoData, function, symbol)
	}
	return pointValue(points[len(points)-1], field)
}

func pointValue(p models.EODHDTechnicalPoint, field string) (float64, error) {
	raw, ok := p[field]
	if !ok {
		return 0, fmt.Errorf("%w: field %q missing", models.ErrNoData, field)
	}
	var v models.FlexFloat
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", field, err)
	}
	if !v.Valid {
		return 0, fmt.Errorf("%w: field %q not available", models.ErrNoData, field)
	}
	return v.Value, nil
}
