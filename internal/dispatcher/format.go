package dispatcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/monitoring"
)

const helpText = `📈 *Brazilian Stock Monitor* 📉

*Commands:*
/stock TICKER - full analysis of a stock (e.g. /stock PETR4)
/news TICKER - recent news with sentiment
/monitor TICKER [minutes] - periodic updates for a stock
/unmonitor TICKER - stop periodic updates
/list - your active monitors

Examples:
/stock VALE3
/news ITUB4
/monitor BBDC4 15`

const unknownCommandText = "🤔 Unknown command. Send /help to see what I can do."

func usage(command string) string {
	switch command {
	case CommandMonitor:
		return fmt.Sprintf("⚠️ Please provide a ticker. E.g. /monitor PETR4 [minutes], up to %d minutes", MaxMonitorMinutes)
	default:
		return fmt.Sprintf("⚠️ Please provide a ticker. E.g. /%s PETR4", command)
	}
}

func invalidTickerText(ticker string) string {
	return fmt.Sprintf("⚠️ %s is not in the monitored list.", ticker)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatStock(ticker string, snap *models.MarketSnapshot, summary *models.NewsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 *Full Analysis - %s*\n\n", ticker)
	fmt.Fprintf(&b, "💰 *Price*: %s %.2f\n", monitoring.CurrencySymbol(snap.Currency), snap.Price)
	if snap.ChangePct != nil {
		fmt.Fprintf(&b, "📈 *Change*: %+.2f%%\n", *snap.ChangePct)
	} else {
		b.WriteString("📈 *Change*: N/A\n")
	}
	fmt.Fprintf(&b, "📉 *Moving Average (20d)*: %s\n", optionalNumber(snap.SMA20))
	fmt.Fprintf(&b, "📊 *RSI (14d)*: %s\n", optionalNumber(snap.RSI14))
	if snap.MACD != nil {
		fmt.Fprintf(&b, "📐 *MACD*: %.2f (signal %s)\n", *snap.MACD, optionalNumber(snap.MACDSignal))
	}
	b.WriteString("\n")

	if snap.Recommendation != nil {
		fmt.Fprintf(&b, "✅ *Technical Recommendation*: %s\n\n", *snap.Recommendation)
	}

	if summary != nil {
		b.WriteString("📰 *News Analysis*\n")
		fmt.Fprintf(&b, "🔄 *Count*: %d\n", summary.ItemCount)
		fmt.Fprintf(&b, "📌 *Sentiment*: %s\n", summary.OverallLabel)
		b.WriteString("🔍 *Latest News*:\n")
		for _, item := range summary.TopItems {
			fmt.Fprintf(&b, "  • %s (%s)\n", item.Title, item.Source)
		}
	}

	return b.String()
}

func formatNews(ticker string, summary *models.NewsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📰 *News Analysis - %s*\n\n", ticker)
	fmt.Fprintf(&b, "📌 *Overall Sentiment*: %s\n", summary.OverallLabel)
	fmt.Fprintf(&b, "🔄 *News Count*: %d\n\n", summary.ItemCount)
	b.WriteString("📋 *Latest News*:\n")

	for i, item := range summary.TopItems {
		fmt.Fprintf(&b, "\n%d. *%s*\n", i+1, item.Title)
		fmt.Fprintf(&b, "   🏷️ *Source*: %s\n", item.Source)
		fmt.Fprintf(&b, "   📊 *Sentiment*: %s\n", item.SentimentLabel)
		fmt.Fprintf(&b, "   🔗 [Link](%s)\n", item.URL)
	}

	return b.String()
}

func formatInterval(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return fmt.Sprintf("%d min", int(d/time.Minute))
}

func formatList(subs []models.Subscription) string {
	if len(subs) == 0 {
		return "ℹ️ You have no active monitors."
	}

	var b strings.Builder
	b.WriteString("🔔 *Active Monitors*\n")
	for _, sub := range subs {
		fmt.Fprintf(&b, "  • %s every %s (next update %s)\n",
			sub.Ticker, formatInterval(sub.Interval), sub.NextRun.UTC().Format("15:04 UTC"))
	}
	return b.String()
}
