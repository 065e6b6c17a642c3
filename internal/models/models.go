package models

import "strings"

// InstrumentCategory decides which upstream endpoint and normalization
// path an instrument uses. The classification is closed: every code
// falls into exactly one of the three categories.
type InstrumentCategory int

const (
	CategoryIndex InstrumentCategory = iota
	CategoryFund
	CategoryEquity
)

func (c InstrumentCategory) String() string {
	switch c {
	case CategoryIndex:
		return "index"
	case CategoryFund:
		return "fund"
	default:
		return "equity"
	}
}

// Instrument is one tracked asset. Category is resolved once from the
// code when the instrument is configured and never re-derived later.
type Instrument struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Category InstrumentCategory `json:"-"`
}

func NewInstrument(code, name string) Instrument {
	return Instrument{
		Code:     code,
		Name:     name,
		Category: ResolveCategory(code),
	}
}

// ResolveCategory classifies an instrument code by its lexical prefix:
// sh0/sz3 are broad-market indices, codes starting with 5 or 1 are
// ETFs, everything else is an ordinary A-share equity.
func ResolveCategory(code string) InstrumentCategory {
	switch {
	case strings.HasPrefix(code, "sh0") || strings.HasPrefix(code, "sz3"):
		return CategoryIndex
	case strings.HasPrefix(code, "5") || strings.HasPrefix(code, "1"):
		return CategoryFund
	default:
		return CategoryEquity
	}
}

// DailyRecord is the canonical per-day row all three upstream shapes
// are normalized into. (date, code) is the primary key; rows are only
// ever inserted by a sync cycle, never updated or deleted.
type DailyRecord struct {
	Date         string  `json:"date" gorm:"primaryKey;size:10"`
	Code         string  `json:"code" gorm:"primaryKey;size:16"`
	Name         string  `json:"name" gorm:"index;size:64"`
	Close        float64 `json:"close"`
	PctChg       float64 `json:"pct_chg"`
	Amount       float64 `json:"amount"`
	TurnoverRate float64 `json:"turnover_rate"`
	Amplitude    float64 `json:"amplitude"`
	VolRatio     float64 `json:"vol_ratio"`
}

func (DailyRecord) TableName() string {
	return "daily_records"
}
