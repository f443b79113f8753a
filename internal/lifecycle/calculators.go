package lifecycle

import (
	"context"
	"fmt"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/eligibility"

	"github.com/shopspring/decimal"
)

// Affordability computes the monthly cost of every unit of a listing. A zero rate or term
// uses the configured defaults.
func (s *Service) Affordability(ctx context.Context, listingID int64, ratePct decimal.Decimal, termYears int) ([]eligibility.Affordability, error) {
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationListingNotFound, err)
	}
	if ratePct.IsZero() {
		ratePct = s.config.DefaultRate
	}
	if termYears <= 0 {
		termYears = s.config.DefaultTermYears
	}
	row, err := s.tables.GetAmortization(ctx, ratePct)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationRateNotFound, err)
	}
	return eligibility.ListingAffordability(listing, row, termYears), nil
}

// AmiLimits computes the eligible income per household size for a year.
func (s *Service) AmiLimits(ctx context.Context, year int, sizes []int) ([]eligibility.AmiLimit, error) {
	cfg, err := s.tables.GetAmiConfig(ctx, year)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationAmiConfigNotFound, err)
	}
	if cfg.IncomeCeiling.IsZero() {
		return nil, errors.New(errors.ApplicationAmiConfigNotFound, fmt.Sprintf("year %d has no income ceiling", year))
	}
	roundTo := s.config.AmiRoundTo
	if roundTo == 0 {
		roundTo = eligibility.DefaultRoundTo
	}
	return eligibility.AmiLimits(cfg, sizes, roundTo), nil
}
