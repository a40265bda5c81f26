package sentiment

import "github.com/spacesedan/marketpulse/internal/models"

// Per-item thresholds. Comparisons are strict, so a score of exactly 0.1 is
// neutral.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Aggregate thresholds applied to the average score of a summary.
const (
	VeryPositiveThreshold = 0.2
	VeryNegativeThreshold = -0.2
)

// Classify labels a polarity score. The score must be finite; NaN has no
// defined label.
func Classify(score float64) models.SentimentLabel {
	switch {
	case score > PositiveThreshold:
		return models.SentimentPositive
	case score < NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Overall labels the average score of a set of items.
func Overall(avg float64) models.OverallLabel {
	switch {
	case avg > VeryPositiveThreshold:
		return models.OverallVeryPositive
	case avg > PositiveThreshold:
		return models.OverallPositive
	case avg < VeryNegativeThreshold:
		return models.OverallVeryNegative
	case avg < NegativeThreshold:
		return models.OverallNegative
	default:
		return models.OverallNeutral
	}
}
