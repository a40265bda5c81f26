package models

import "errors"

var (
	// ErrSourceUnavailable marks a news source or market provider that failed.
	// It never leaves the adapter boundary.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrTimeout is a bounded wait that ran out; handled like ErrSourceUnavailable.
	ErrTimeout = errors.New("source timed out")
	// ErrNoData is a valid ticker with nothing to report.
	ErrNoData = errors.New("no data found")
	// ErrInvalidTicker is a ticker outside the configured universe.
	ErrInvalidTicker = errors.New("ticker not in monitored universe")
)
