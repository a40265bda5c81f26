package models

import "encoding/json"

// EODHDRealTimeQuote is the /real-time payload. EODHD sends "NA" for fields it
// has no value for, so numbers are decoded leniently.
type EODHDRealTimeQuote struct {
	Code          string      `json:"code"`
	Timestamp     FlexFloat   `json:"timestamp"`
	Open          FlexFloat   `json:"open"`
	High          FlexFloat   `json:"high"`
	Low           FlexFloat   `json:"low"`
	Close         FlexFloat   `json:"close"`
	Volume        FlexFloat   `json:"volume"`
	PreviousClose FlexFloat   `json:"previousClose"`
	Change        FlexFloat   `json:"change"`
	ChangePct     FlexFloat   `json:"change_p"`
}

// EODHDTechnicalPoint is one row of a /technical series, e.g.
// {"date":"2025-01-02","sma":36.1} or {"date":...,"macd":0.4,"signal":0.3}.
type EODHDTechnicalPoint map[string]json.RawMessage

// FlexFloat decodes a JSON number, a numeric string or "NA". Valid is false
// when no number was present.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Float64(); err == nil {
			f.Value, f.Valid = v, true
			return nil
		}
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := json.Number(s).Float64(); err == nil {
			f.Value, f.Valid = v, true
		}
		return nil
	}

	f.Value, f.Valid = 0, false
	return nil
}
