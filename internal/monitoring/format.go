package monitoring

import (
	"fmt"
	"strings"

	"github.com/spacesedan/marketpulse/internal/models"
)

// CurrencySymbol maps an ISO code to its display symbol.
func CurrencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "BRL", "":
		return "R$"
	case "USD":
		return "US$"
	case "EUR":
		return "€"
	default:
		return currency
	}
}

// FormatAlert renders the periodic update for a subscription. summary may be
// nil, in which case the news line is left out.
func FormatAlert(snap *models.MarketSnapshot, summary *models.NewsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔔 *Update - %s*\n\n", snap.Ticker)
	fmt.Fprintf(&b, "💰 Price: %s %.2f\n", CurrencySymbol(snap.Currency), snap.Price)
	if snap.ChangePct != nil {
		fmt.Fprintf(&b, "📈 Change: %+.2f%%\n", *snap.ChangePct)
	}

	rec := "N/A"
	if snap.Recommendation != nil {
		rec = string(*snap.Recommendation)
	}
	fmt.Fprintf(&b, "📊 Recommendation: %s\n", rec)

	if summary != nil && summary.ItemCount > 0 {
		fmt.Fprintf(&b, "📰 News sentiment: %s\n", summary.OverallLabel)
	}

	return b.String()
}
