package models

type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationSell Recommendation = "SELL"
	RecommendationHold Recommendation = "HOLD"
)

// Quote is the latest price/volume read for a symbol.
type Quote struct {
	Price     float64  `json:"price"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Volume    int64    `json:"volume"`
	ChangePct *float64 `json:"change_pct,omitempty"`
}

// MarketSnapshot combines a quote with whichever technical indicators could be
// retrieved. Indicator fields and Recommendation are nil when unavailable.
type MarketSnapshot struct {
	Ticker         string          `json:"ticker"`
	Price          float64         `json:"price"`
	Open           float64         `json:"open"`
	High           float64         `json:"high"`
	Low            float64         `json:"low"`
	Volume         int64           `json:"volume"`
	Currency       string          `json:"currency"`
	ChangePct      *float64        `json:"change_pct,omitempty"`
	SMA20          *float64        `json:"sma_20,omitempty"`
	RSI14          *float64        `json:"rsi_14,omitempty"`
	MACD           *float64        `json:"macd,omitempty"`
	MACDSignal     *float64        `json:"macd_signal,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}
