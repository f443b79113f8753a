// Package eligibility holds the pure calculators behind listing eligibility: area median
// income (AMI) tiers and monthly mortgage affordability. All money math uses decimals and
// results are whole currency units.
package eligibility

import (
	"sort"

	"housing-workers/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultRoundTo is the AMI rounding step when none is configured.
const DefaultRoundTo int64 = 50

var (
	hundred          = decimal.NewFromInt(100)
	thousand         = decimal.NewFromInt(1000)
	twelve           = decimal.NewFromInt(12)
	downPaymentRate  = decimal.RequireFromString("0.05")
	pmiRate          = decimal.RequireFromString("0.0078")
	fallbackFactor   = decimal.RequireFromString("6.65302")
	supportedTermSet = map[int]bool{10: true, 15: true, 20: true, 25: true, 30: true, 40: true}
)

// AmiAmount returns percentage% of the income ceiling, rounded half-up to the nearest
// roundTo. roundTo <= 0 truncates to whole units instead. Non-positive inputs yield 0.
func AmiAmount(incomeCeiling, percentage decimal.Decimal, roundTo int64) int64 {
	if !incomeCeiling.IsPositive() || !percentage.IsPositive() {
		return 0
	}
	raw := incomeCeiling.Mul(percentage).Div(hundred).Truncate(0)
	if roundTo <= 0 {
		return raw.IntPart()
	}
	step := decimal.NewFromInt(roundTo)
	// Round is half away from zero, which is half-up for positive amounts
	return raw.Div(step).Round(0).Mul(step).IntPart()
}

// AmiLimit is the eligible income for one household size.
type AmiLimit struct {
	HouseholdSize int             `json:"householdSize"`
	Percentage    decimal.Decimal `json:"percentage"`
	Amount        int64           `json:"amount"`
}

// AmiLimits computes the amount for each requested household size present in cfg.
// With no sizes requested every configured size is returned in ascending order.
func AmiLimits(cfg *models.AmiConfig, sizes []int, roundTo int64) []AmiLimit {
	if len(sizes) == 0 {
		for size := range cfg.Percentages {
			sizes = append(sizes, size)
		}
		sort.Ints(sizes)
	}
	out := make([]AmiLimit, 0, len(sizes))
	for _, size := range sizes {
		pct, ok := cfg.Percentages[size]
		if !ok {
			continue
		}
		out = append(out, AmiLimit{
			HouseholdSize: size,
			Percentage:    pct,
			Amount:        AmiAmount(cfg.IncomeCeiling, pct, roundTo),
		})
	}
	return out
}

// Affordability is the monthly cost breakdown of buying one unit.
type Affordability struct {
	UnitID                   int64           `json:"unitId"`
	UnitTypeCd               string          `json:"unitTypeCd"`
	EstimatedPrice           int64           `json:"estimatedPrice"`
	Subsidy                  int64           `json:"subsidy"`
	NetPrice                 int64           `json:"netPrice"`
	DownPayment              int64           `json:"downPayment"`
	Mortgage                 int64           `json:"mortgage"`
	RatePct                  decimal.Decimal `json:"ratePct"`
	TermYears                int             `json:"termYears"`
	LoanFactor               decimal.Decimal `json:"loanFactor"`
	MonthlyPrincipalInterest int64           `json:"monthlyPrincipalInterest"`
	MonthlyPmi               int64           `json:"monthlyPmi"`
	MonthlyTaxes             int64           `json:"monthlyTaxes"`
	MonthlyMaintenance       int64           `json:"monthlyMaintenance"`
	MonthlyInsurance         int64           `json:"monthlyInsurance"`
	MonthlyTotal             int64           `json:"monthlyTotal"`
}

// LoanFactor picks the per-thousand factor for termYears from row, or the fallback factor
// when the term is not a supported one or the row has no entry for it.
func LoanFactor(row *models.Amortization, termYears int) decimal.Decimal {
	if row != nil && supportedTermSet[termYears] {
		if f, ok := row.Factors[termYears]; ok && f.IsPositive() {
			return f
		}
	}
	return fallbackFactor
}

// CalculateAffordability computes the monthly payment for unit with a 5% down payment.
// The down payment is truncated; principal and interest and PMI are rounded up.
func CalculateAffordability(unit models.Unit, row *models.Amortization, termYears int) Affordability {
	net := unit.EstimatedPrice - unit.Subsidy
	if net < 0 {
		net = 0
	}
	netPrice := decimal.NewFromInt(net)
	down := netPrice.Mul(downPaymentRate).Truncate(0)
	mortgage := netPrice.Sub(down)

	factor := LoanFactor(row, termYears)
	principalInterest := mortgage.Div(thousand).Mul(factor).Ceil().IntPart()
	pmi := mortgage.Mul(pmiRate).Div(twelve).Ceil().IntPart()

	out := Affordability{
		UnitID:                   unit.ID,
		UnitTypeCd:               unit.UnitTypeCd,
		EstimatedPrice:           unit.EstimatedPrice,
		Subsidy:                  unit.Subsidy,
		NetPrice:                 net,
		DownPayment:              down.IntPart(),
		Mortgage:                 mortgage.IntPart(),
		TermYears:                termYears,
		LoanFactor:               factor,
		MonthlyPrincipalInterest: principalInterest,
		MonthlyPmi:               pmi,
		MonthlyTaxes:             unit.MonthlyTaxes,
		MonthlyMaintenance:       unit.MonthlyMaintenance,
		MonthlyInsurance:         unit.MonthlyInsurance,
	}
	if row != nil {
		out.RatePct = row.RatePct
	}
	out.MonthlyTotal = principalInterest + unit.MonthlyTaxes + unit.MonthlyMaintenance +
		unit.MonthlyInsurance + pmi
	return out
}

// ListingAffordability computes affordability for every unit of the listing.
func ListingAffordability(listing *models.Listing, row *models.Amortization, termYears int) []Affordability {
	out := make([]Affordability, 0, len(listing.Units))
	for _, u := range listing.Units {
		out = append(out, CalculateAffordability(u, row, termYears))
	}
	return out
}
