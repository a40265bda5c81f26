package market

import (
	"strings"

	"github.com/spacesedan/marketpulse/internal/models"
)

const (
	DefaultSuffix   = ".SA"
	DefaultCurrency = "BRL"

	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// NormalizeTicker appends suffix unless ticker already carries it.
func NormalizeTicker(ticker, suffix string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if suffix == "" || strings.HasSuffix(ticker, strings.ToUpper(suffix)) {
		return ticker
	}
	return ticker + strings.ToUpper(suffix)
}

// Recommend applies the trend/momentum rule. Price exactly at the average is
// HOLD.
func Recommend(price, sma, rsi float64) models.Recommendation {
	switch {
	case price > sma && rsi < RSIOverbought:
		return models.RecommendationBuy
	case price < sma && rsi > RSIOversold:
		return models.RecommendationSell
	default:
		return models.RecommendationHold
	}
}
