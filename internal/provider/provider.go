package provider

import "errors"

// ErrSchemaMismatch reports an upstream payload whose columns do not
// match the expected layout for the instrument's category. It is a
// variant of upstream fetch failure, not a fatal condition.
var ErrSchemaMismatch = errors.New("unexpected upstream schema")

// IndexRow is one trading day from the index history feed. The feed
// carries no change/turnover/amplitude columns.
type IndexRow struct {
	Date   string
	Close  float64
	Amount float64
}

// HistRow is one trading day from the fund and equity history feeds,
// which already supply the full metric set.
type HistRow struct {
	Date         string
	Close        float64
	PctChg       float64
	Amount       float64
	TurnoverRate float64
	Amplitude    float64
}

// Provider is the upstream market-data capability. The index feed
// takes no date range and over-returns the full history; callers must
// filter to their requested window. start/end are compact YYYYMMDD.
// Implementations may return empty slices for days with no data.
type Provider interface {
	IndexDaily(code string) ([]IndexRow, error)
	FundHist(code, start, end string) ([]HistRow, error)
	EquityHist(code, start, end string) ([]HistRow, error)
}
