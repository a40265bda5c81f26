package models

import "time"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

type OverallLabel string

const (
	OverallVeryPositive OverallLabel = "VERY_POSITIVE"
	OverallPositive     OverallLabel = "POSITIVE"
	OverallNeutral      OverallLabel = "NEUTRAL"
	OverallNegative     OverallLabel = "NEGATIVE"
	OverallVeryNegative OverallLabel = "VERY_NEGATIVE"
)

// RawNewsItem is what a news source hands back before scoring.
// PublishedAt is nil when the origin did not expose a timestamp.
type RawNewsItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Content     string     `json:"content,omitempty"`
}

type NewsItem struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Source         string         `json:"source"`
	PublishedAt    *time.Time     `json:"published_at,omitempty"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	SentimentScore float64        `json:"sentiment_score"`
}

type NewsSummary struct {
	Ticker       string       `json:"ticker"`
	ItemCount    int          `json:"item_count"`
	AverageScore float64      `json:"average_score"`
	OverallLabel OverallLabel `json:"overall_label"`
	TopItems     []NewsItem   `json:"top_items"`
}
