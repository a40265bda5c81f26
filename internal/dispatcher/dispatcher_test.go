package dispatcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	snap  *models.MarketSnapshot
	calls atomic.Int32
}

func (p *stubProvider) Snapshot(ctx context.Context, ticker string) *models.MarketSnapshot {
	p.calls.Add(1)
	return p.snap
}

type stubSummarizer struct {
	summary *models.NewsSummary
	calls   atomic.Int32
}

func (s *stubSummarizer) Summarize(ctx context.Context, ticker string) *models.NewsSummary {
	s.calls.Add(1)
	return s.summary
}

type captureReplier struct {
	subscriberID string
	text         string
	err          error
}

func (r *captureReplier) Send(ctx context.Context, subscriberID, text string) error {
	r.subscriberID, r.text = subscriberID, text
	return r.err
}

var now = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	d         *Dispatcher
	provider  *stubProvider
	news      *stubSummarizer
	scheduler *monitoring.Scheduler
	replier   *captureReplier
}

func newFixture() *fixture {
	rec := models.RecommendationBuy
	sma, rsi := 36.0, 55.0
	provider := &stubProvider{snap: &models.MarketSnapshot{
		Ticker: "PETR4", Price: 38.6, Currency: "BRL", SMA20: &sma, RSI14: &rsi, Recommendation: &rec,
	}}
	summarizer := &stubSummarizer{summary: &models.NewsSummary{
		Ticker: "PETR4", ItemCount: 2, AverageScore: 0.3, OverallLabel: models.OverallVeryPositive,
		TopItems: []models.NewsItem{
			{Title: "Petrobras sobe", Source: "InfoMoney", URL: "https://infomoney.com.br/1", SentimentLabel: models.SentimentPositive},
			{Title: "Dividendos recorde", Source: "Valor", URL: "https://valor.globo.com/2", SentimentLabel: models.SentimentPositive},
		},
	}}
	scheduler := monitoring.NewScheduler(provider, summarizer, &captureReplier{},
		monitoring.WithClock(func() time.Time { return now }))
	replier := &captureReplier{}

	d := New(Config{Universe: []string{"PETR4", "VALE3"}, MarketSuffix: ".SA", DefaultInterval: 30 * time.Minute},
		provider, summarizer, scheduler, replier)

	return &fixture{d: d, provider: provider, news: summarizer, scheduler: scheduler, replier: replier}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"/stock PETR4", CommandStock, []string{"PETR4"}, true},
		{"/acao petr4", CommandStock, []string{"petr4"}, true},
		{"/Monitorar VALE3 15", CommandMonitor, []string{"VALE3", "15"}, true},
		{"/news@marketpulse_bot ITUB4", CommandNews, []string{"ITUB4"}, true},
		{"  /lista  ", CommandList, []string{}, true},
		{"/parar PETR4", CommandUnmonitor, []string{"PETR4"}, true},
		{"hello there", "", nil, false},
		{"/", "", nil, false},
		{"", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, args, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			if tt.wantOK {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestValidateTicker(t *testing.T) {
	f := newFixture()

	ticker, err := f.d.ValidateTicker("petr4.sa")
	require.NoError(t, err)
	assert.Equal(t, "PETR4", ticker)

	_, err = f.d.ValidateTicker("AAPL")
	assert.True(t, errors.Is(err, models.ErrInvalidTicker))
}

func TestOnCommand_InvalidTickerDoesNotRunPipeline(t *testing.T) {
	f := newFixture()

	for _, cmd := range []string{CommandStock, CommandNews, CommandMonitor} {
		reply := f.d.OnCommand(context.Background(), cmd, []string{"AAPL"}, "chat-1")
		assert.Contains(t, reply, "AAPL is not in the monitored list")
	}

	assert.Zero(t, f.provider.calls.Load())
	assert.Zero(t, f.news.calls.Load())
	assert.Empty(t, f.scheduler.List("chat-1"))
}

func TestOnCommand_MissingArgumentGivesUsage(t *testing.T) {
	f := newFixture()

	assert.Contains(t, f.d.OnCommand(context.Background(), CommandStock, nil, "chat-1"), "/stock PETR4")
	assert.Contains(t, f.d.OnCommand(context.Background(), CommandMonitor, nil, "chat-1"), "[minutes]")
}

func TestOnCommand_Stock(t *testing.T) {
	f := newFixture()

	reply := f.d.OnCommand(context.Background(), CommandStock, []string{"petr4"}, "chat-1")

	assert.Contains(t, reply, "Full Analysis - PETR4")
	assert.Contains(t, reply, "R$ 38.60")
	assert.Contains(t, reply, "*Change*: N/A")
	assert.Contains(t, reply, "36.00")
	assert.Contains(t, reply, "Technical Recommendation*: BUY")
	assert.Contains(t, reply, "Petrobras sobe (InfoMoney)")
}

func TestOnCommand_StockWithoutMarketData(t *testing.T) {
	f := newFixture()
	f.provider.snap = nil

	reply := f.d.OnCommand(context.Background(), CommandStock, []string{"PETR4"}, "chat-1")

	assert.Contains(t, reply, "Could not fetch market data for PETR4")
}

func TestOnCommand_News(t *testing.T) {
	f := newFixture()

	reply := f.d.OnCommand(context.Background(), CommandNews, []string{"PETR4"}, "chat-1")

	assert.Contains(t, reply, "Overall Sentiment*: VERY_POSITIVE")
	assert.Contains(t, reply, "1. *Petrobras sobe*")
	assert.Contains(t, reply, "[Link](https://valor.globo.com/2)")

	f.news.summary = nil
	assert.Contains(t, f.d.OnCommand(context.Background(), CommandNews, []string{"PETR4"}, "chat-1"), "No recent news found for PETR4")
}

func TestOnCommand_MonitorListUnmonitor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.Contains(t, f.d.OnCommand(ctx, CommandMonitor, []string{"PETR4"}, "chat-1"), "every 30 min")
	assert.Contains(t, f.d.OnCommand(ctx, CommandMonitor, []string{"VALE3", "60"}, "chat-1"), "every 1h")
	assert.Contains(t, f.d.OnCommand(ctx, CommandMonitor, []string{"VALE3", "abc"}, "chat-1"), "[minutes]")

	list := f.d.OnCommand(ctx, CommandList, nil, "chat-1")
	assert.Contains(t, list, "PETR4 every 30 min (next update 10:30 UTC)")
	assert.Contains(t, list, "VALE3 every 1h")

	assert.Contains(t, f.d.OnCommand(ctx, CommandUnmonitor, []string{"PETR4"}, "chat-1"), "Stopped monitoring PETR4")
	assert.Contains(t, f.d.OnCommand(ctx, CommandUnmonitor, []string{"PETR4"}, "chat-1"), "were not monitoring PETR4")
	assert.Len(t, f.scheduler.List("chat-1"), 1)

	assert.Contains(t, f.d.OnCommand(ctx, CommandList, nil, "chat-2"), "no active monitors")
}

func TestOnCommand_HelpAndUnknown(t *testing.T) {
	f := newFixture()

	assert.Contains(t, f.d.OnCommand(context.Background(), CommandStart, nil, "chat-1"), "/monitor TICKER")
	assert.Contains(t, f.d.OnCommand(context.Background(), "dance", nil, "chat-1"), "/help")
}

func TestHandleText_SendsReplyToCaller(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.d.HandleText(context.Background(), "chat-9", "/ajuda"))
	assert.Equal(t, "chat-9", f.replier.subscriberID)
	assert.Contains(t, f.replier.text, "Commands")
}

func TestHandleText_IgnoresPlainText(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.d.HandleText(context.Background(), "chat-9", "bom dia"))
	assert.Empty(t, f.replier.text)
}

func TestHandleText_ReplyFailureIsReturned(t *testing.T) {
	f := newFixture()
	f.replier.err = errors.New("broker down")

	err := f.d.HandleText(context.Background(), "chat-9", "/help")
	assert.Error(t, err)
}

func TestOnCommand_MonitorRejectsOutOfRangeMinutes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, minutes := range []string{"0", "-5", "1441", "3749353613647811"} {
		reply := f.d.OnCommand(ctx, CommandMonitor, []string{"PETR4", minutes}, "chat-1")
		assert.Contains(t, reply, "[minutes]", minutes)
	}
	assert.Empty(t, f.scheduler.List("chat-1"))

	assert.Contains(t, f.d.OnCommand(ctx, CommandMonitor, []string{"PETR4", "1440"}, "chat-1"), "every 24h")
	subs := f.scheduler.List("chat-1")
	require.Len(t, subs, 1)
	assert.Equal(t, 24*time.Hour, subs[0].Interval)
}
