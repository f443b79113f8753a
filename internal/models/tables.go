package models

import "github.com/shopspring/decimal"

// AmiConfig is one year's area-median-income ceiling and its household-size percentages.
type AmiConfig struct {
	Year          int                     `json:"year"`
	IncomeCeiling decimal.Decimal         `json:"incomeCeiling"`
	Percentages   map[int]decimal.Decimal `json:"percentages"`
}

// Amortization holds loan factors per thousand borrowed, keyed by term in years.
type Amortization struct {
	RatePct decimal.Decimal         `json:"ratePct"`
	Factors map[int]decimal.Decimal `json:"factors"`
}
