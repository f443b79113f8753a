package eligibility

import (
	"testing"

	"housing-workers/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ==========================
// AMI
// ==========================

func TestAmiAmount(t *testing.T) {
	tests := []struct {
		name    string
		ceiling string
		pct     string
		roundTo int64
		want    int64
	}{
		{"80 percent of 100000", "100000", "80", 50, 80000},
		{"exact half rounds up", "35325", "100", 50, 35350},
		{"below half rounds down", "35324", "100", 50, 35300},
		{"above half rounds up", "35376", "100", 50, 35400},
		{"fractional raw is truncated first", "33333", "60", 50, 20000},
		{"no rounding truncates", "33333", "60", 0, 19999},
		{"round to hundred", "104000", "65", 100, 67600},
		{"over 100 percent", "100000", "120", 50, 120000},
		{"zero ceiling", "0", "80", 50, 0},
		{"negative ceiling", "-100000", "80", 50, 0},
		{"zero percent", "100000", "0", 50, 0},
		{"negative percent", "100000", "-5", 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AmiAmount(dec(tt.ceiling), dec(tt.pct), tt.roundTo))
		})
	}
}

func TestAmiAmount_MultipleOfStep(t *testing.T) {
	ceiling := dec("97300")
	for pct := int64(1); pct <= 165; pct++ {
		got := AmiAmount(ceiling, decimal.NewFromInt(pct), DefaultRoundTo)
		require.GreaterOrEqual(t, got, int64(0))
		require.Zero(t, got%DefaultRoundTo, "pct %d gave %d", pct, got)
	}
}

func TestAmiLimits(t *testing.T) {
	cfg := &models.AmiConfig{
		Year:          2026,
		IncomeCeiling: dec("100000"),
		Percentages:   map[int]decimal.Decimal{3: dec("90"), 1: dec("70"), 2: dec("80")},
	}

	all := AmiLimits(cfg, nil, 50)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].HouseholdSize)
	assert.Equal(t, int64(70000), all[0].Amount)
	assert.Equal(t, int64(90000), all[2].Amount)

	some := AmiLimits(cfg, []int{2, 7}, 50)
	require.Len(t, some, 1)
	assert.Equal(t, int64(80000), some[0].Amount)
}

// ==========================
// Affordability
// ==========================

func TestCalculateAffordability_FallbackFactor(t *testing.T) {
	unit := models.Unit{
		ID:                 1,
		UnitTypeCd:         "2BR",
		EstimatedPrice:     200000,
		Subsidy:            50000,
		MonthlyTaxes:       200,
		MonthlyMaintenance: 300,
		MonthlyInsurance:   50,
	}

	got := CalculateAffordability(unit, nil, 35)
	assert.Equal(t, int64(150000), got.NetPrice)
	assert.Equal(t, int64(7500), got.DownPayment)
	assert.Equal(t, int64(142500), got.Mortgage)
	assert.True(t, got.LoanFactor.Equal(dec("6.65302")))
	assert.Equal(t, int64(949), got.MonthlyPrincipalInterest)
	assert.Equal(t, int64(93), got.MonthlyPmi)
	assert.Equal(t, int64(1592), got.MonthlyTotal)
}

func TestCalculateAffordability_TermFactor(t *testing.T) {
	row := &models.Amortization{
		RatePct: dec("6.5"),
		Factors: map[int]decimal.Decimal{30: dec("6.32068"), 15: dec("8.71107")},
	}
	unit := models.Unit{EstimatedPrice: 100001, MonthlyTaxes: 10}

	got := CalculateAffordability(unit, row, 30)
	// 100001 * 0.05 = 5000.05 -> 5000 down
	assert.Equal(t, int64(5000), got.DownPayment)
	assert.Equal(t, int64(95001), got.Mortgage)
	// 95.001 * 6.32068 = 600.4709... -> 601
	assert.Equal(t, int64(601), got.MonthlyPrincipalInterest)
	// 95001 * 0.0078 / 12 = 61.75065 -> 62
	assert.Equal(t, int64(62), got.MonthlyPmi)
	assert.Equal(t, int64(601+10+62), got.MonthlyTotal)
	assert.True(t, got.RatePct.Equal(dec("6.5")))

	missing := CalculateAffordability(unit, row, 20)
	assert.True(t, missing.LoanFactor.Equal(dec("6.65302")), "term absent from row falls back")
}

func TestCalculateAffordability_SubsidyAbovePrice(t *testing.T) {
	got := CalculateAffordability(models.Unit{EstimatedPrice: 1000, Subsidy: 5000, MonthlyTaxes: 5}, nil, 30)
	assert.Equal(t, int64(0), got.Mortgage)
	assert.Equal(t, int64(0), got.MonthlyPrincipalInterest)
	assert.Equal(t, int64(0), got.MonthlyPmi)
	assert.Equal(t, int64(5), got.MonthlyTotal)
}

func TestListingAffordability(t *testing.T) {
	listing := &models.Listing{Units: []models.Unit{
		{ID: 1, EstimatedPrice: 200000, Subsidy: 50000},
		{ID: 2, EstimatedPrice: 100000},
	}}
	out := ListingAffordability(listing, nil, 30)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].UnitID)
	assert.Equal(t, int64(2), out[1].UnitID)
	assert.Equal(t, int64(95000), out[1].Mortgage)
}
