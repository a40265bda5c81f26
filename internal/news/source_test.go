package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	name    string
	items   []models.RawNewsItem
	err     error
	delay   time.Duration
	panics  bool
	release chan struct{}
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error) {
	if f.panics {
		panic("selector exploded")
	}
	if f.release != nil {
		// Ignores ctx on purpose.
		<-f.release
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.items, f.err
}

func item(title, source string) models.RawNewsItem {
	return models.RawNewsItem{Title: title, URL: "https://example.com/" + title, Source: source}
}

func TestIsolate_ErrorBecomesEmpty(t *testing.T) {
	src := Isolate(&fakeFetcher{name: "broken", err: errors.New("503")}, time.Second)

	assert.Empty(t, src.Fetch(context.Background(), "PETR4"))
	assert.Equal(t, "broken", src.Name())
}

func TestIsolate_PanicBecomesEmpty(t *testing.T) {
	src := Isolate(&fakeFetcher{name: "panicky", panics: true}, time.Second)

	assert.NotPanics(t, func() {
		assert.Empty(t, src.Fetch(context.Background(), "PETR4"))
	})
}

func TestIsolate_TimeoutIsEnforcedWithoutCooperation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	src := Isolate(&fakeFetcher{name: "stuck", items: []models.RawNewsItem{item("A", "X")}, release: release}, 50*time.Millisecond)

	start := time.Now()
	items := src.Fetch(context.Background(), "PETR4")

	assert.Empty(t, items)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsolate_DropsItemsWithoutTitleOrLink(t *testing.T) {
	src := Isolate(&fakeFetcher{name: "partial", items: []models.RawNewsItem{
		{Title: "  ", URL: "https://example.com/1", Source: "X"},
		{Title: "No link", Source: "X"},
		{Title: " Kept ", URL: "https://example.com/3", Source: "X"},
	}}, time.Second)

	items := src.Fetch(context.Background(), "PETR4")

	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Title)
}

func TestDedupe_KeepsFirstOccurrenceInOrder(t *testing.T) {
	got := Dedupe([]models.RawNewsItem{item("A", "X"), item("B", "Y"), item("A", "X")})

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
}

func TestDedupe_NormalizesCaseAndWhitespace(t *testing.T) {
	first := models.RawNewsItem{Title: "Petrobras  sobe", URL: "https://a.com/1", Source: "InfoMoney"}
	second := models.RawNewsItem{Title: " petrobras sobe ", URL: "https://b.com/2", Source: "infomoney"}
	otherSource := models.RawNewsItem{Title: "Petrobras sobe", URL: "https://a.com/1", Source: "Valor"}

	got := Dedupe([]models.RawNewsItem{first, second, otherSource})

	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, otherSource, got[1])
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}
