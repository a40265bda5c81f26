package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/spacesedan/marketpulse/internal/market"
	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/news"
)

const (
	DefaultInterval          = 30 * time.Minute
	DefaultTickCadence       = time.Second
	DefaultMaxConcurrentRuns = 4
)

// Notifier delivers text to a subscriber. Failures are logged by the caller
// and never retried by the scheduler.
type Notifier interface {
	Send(ctx context.Context, subscriberID, text string) error
}

type subscriptionKey struct {
	ticker       string
	subscriberID string
}

// Scheduler owns the subscription registry and runs the monitoring pipeline
// for every due subscription.
type Scheduler struct {
	mu       sync.Mutex
	subs     map[subscriptionKey]*models.Subscription
	inFlight map[subscriptionKey]bool

	market   market.SnapshotProvider
	news     news.Summarizer
	notifier Notifier

	defaultInterval time.Duration
	cadence         time.Duration
	slots           chan struct{}
	now             func() time.Time

	runs     sync.WaitGroup
	cancel   context.CancelFunc
	loopDone chan struct{}
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithTickCadence(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.cadence = d
		}
	}
}

func WithDefaultInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.defaultInterval = d
		}
	}
}

func WithMaxConcurrentRuns(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.slots = make(chan struct{}, n)
		}
	}
}

func NewScheduler(provider market.SnapshotProvider, summarizer news.Summarizer, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		subs:            make(map[subscriptionKey]*models.Subscription),
		inFlight:        make(map[subscriptionKey]bool),
		market:          provider,
		news:            summarizer,
		notifier:        notifier,
		defaultInterval: DefaultInterval,
		cadence:         DefaultTickCadence,
		slots:           make(chan struct{}, DefaultMaxConcurrentRuns),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe creates or replaces the job for (ticker, subscriberID). The first
// run happens one full interval from now.
func (s *Scheduler) Subscribe(ticker, subscriberID string, interval time.Duration) models.Subscription {
	if interval <= 0 {
		interval = s.defaultInterval
	}
	now := s.now()
	sub := &models.Subscription{
		Ticker:       ticker,
		SubscriberID: subscriberID,
		Interval:     interval,
		CreatedAt:    now,
		State:        models.SubscriptionCreated,
	}

	s.mu.Lock()
	_, replaced := s.subs[subscriptionKey{ticker, subscriberID}]
	sub.State = models.SubscriptionActive
	sub.NextRun = now.Add(interval)
	s.subs[subscriptionKey{ticker, subscriberID}] = sub
	out := *sub
	s.mu.Unlock()

	slog.Info("[Scheduler] Subscription active",
		slog.String("ticker", ticker),
		slog.String("subscriber", subscriberID),
		slog.Duration("interval", interval),
		slog.Bool("replaced", replaced))
	return out
}

// Unsubscribe cancels the job. A run already in flight may still deliver one
// alert. Returns false when there was nothing to cancel.
func (s *Scheduler) Unsubscribe(ticker, subscriberID string) bool {
	key := subscriptionKey{ticker, subscriberID}

	s.mu.Lock()
	sub, ok := s.subs[key]
	if ok {
		sub.State = models.SubscriptionCancelled
		delete(s.subs, key)
	}
	s.mu.Unlock()

	if ok {
		slog.Info("[Scheduler] Subscription cancelled",
			slog.String("ticker", ticker),
			slog.String("subscriber", subscriberID))
	}
	return ok
}

// List returns the subscriber's active subscriptions ordered by ticker.
func (s *Scheduler) List(subscriberID string) []models.Subscription {
	s.mu.Lock()
	var out []models.Subscription
	for key, sub := range s.subs {
		if key.subscriberID == subscriberID && sub.State == models.SubscriptionActive {
			out = append(out, *sub)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// Tick starts a run for every active subscription due at now and returns how
// many were started. A subscription whose previous run has not finished is
// skipped for this occurrence.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	var due []models.Subscription

	s.mu.Lock()
	for key, sub := range s.subs {
		if sub.State != models.SubscriptionActive || sub.NextRun.After(now) {
			continue
		}
		sub.NextRun = now.Add(sub.Interval)
		if s.inFlight[key] {
			slog.Debug("[Scheduler] Previous run still in flight, skipping",
				slog.String("ticker", key.ticker),
				slog.String("subscriber", key.subscriberID))
			continue
		}
		s.inFlight[key] = true
		due = append(due, *sub)
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].Ticker != due[j].Ticker {
			return due[i].Ticker < due[j].Ticker
		}
		return due[i].SubscriberID < due[j].SubscriberID
	})

	for _, sub := range due {
		s.dispatch(ctx, sub)
	}
	return len(due)
}

func (s *Scheduler) dispatch(ctx context.Context, sub models.Subscription) {
	key := subscriptionKey{sub.Ticker, sub.SubscriberID}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, key)
			s.mu.Unlock()
		}()

		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-s.slots }()

		defer func() {
			if r := recover(); r != nil {
				slog.Error("[Scheduler] Monitoring run panicked",
					slog.String("ticker", sub.Ticker),
					slog.String("subscriber", sub.SubscriberID),
					slog.String("panic", fmt.Sprint(r)))
			}
		}()

		s.run(ctx, sub)
	}()
}

func (s *Scheduler) run(ctx context.Context, sub models.Subscription) {
	start := time.Now()

	snap := s.market.Snapshot(ctx, sub.Ticker)
	if snap == nil {
		slog.Info("[Scheduler] No market data, skipping alert",
			slog.String("ticker", sub.Ticker),
			slog.String("subscriber", sub.SubscriberID))
		return
	}

	var summary *models.NewsSummary
	if s.news != nil {
		summary = s.news.Summarize(ctx, sub.Ticker)
	}

	if err := s.notifier.Send(ctx, sub.SubscriberID, FormatAlert(snap, summary)); err != nil {
		slog.Error("[Scheduler] Failed to deliver alert",
			slog.String("ticker", sub.Ticker),
			slog.String("subscriber", sub.SubscriberID),
			slog.String("error", err.Error()))
		return
	}

	slog.Info("[Scheduler] Alert delivered",
		slog.String("ticker", sub.Ticker),
		slog.String("subscriber", sub.SubscriberID),
		slog.Duration("elapsed", time.Since(start)))
}

// Wait blocks until every dispatched run has finished.
func (s *Scheduler) Wait() {
	s.runs.Wait()
}

// Start ticks at the configured cadence until ctx ends or Stop is called.
// Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		slog.Warn("[Scheduler] Already started")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loopDone = make(chan struct{})

	slog.Info("[Scheduler] Started", slog.Duration("cadence", s.cadence))

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.cadence)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx, s.now())
			}
		}
	}(s.loopDone)
}

// Stop ends the tick loop, cancels runs waiting for a slot and waits for the
// rest to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, loopDone := s.cancel, s.loopDone
	s.cancel, s.loopDone = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	<-loopDone
	s.runs.Wait()
	slog.Info("[Scheduler] Stopped")
}
