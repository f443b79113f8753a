// internal/workers/eligibility/calculate-listing-affordability/models.go
package calculatelistingaffordability

import (
	"housing-workers/internal/eligibility"

	"github.com/shopspring/decimal"
)

// Input takes the rate either as a JSON string or a number. Zero values fall back to the
// configured rate and term.
type Input struct {
	ListingID int64           `json:"listingId"`
	RatePct   decimal.Decimal `json:"ratePct"`
	TermYears int             `json:"termYears"`
}

type Output struct {
	ListingID int64                       `json:"listingId"`
	Units     []eligibility.Affordability `json:"units"`
}
