// internal/workers/application/save-application-step/models.go
package saveapplicationstep

import (
	"housing-workers/internal/models"

	"github.com/shopspring/decimal"
)

// Input carries one step. Only the fields of the named step are read.
type Input struct {
	Username      string `json:"username"`
	ListingID     int64  `json:"listingId"`
	ApplicationID int64  `json:"applicationId,omitempty"`
	Step          string `json:"step"`

	Applicant  *models.Person `json:"applicant,omitempty"`
	LeadTypeCd string         `json:"leadTypeCd,omitempty"`
	LeadOther  string         `json:"leadOther,omitempty"`

	Household *models.HouseholdInfo `json:"household,omitempty"`
	UnitTypes []string              `json:"unitTypes,omitempty"`

	MemberIDs string `json:"memberIds,omitempty"` // comma-separated; 0 is the applicant
}

type Output struct {
	ApplicationID   int64           `json:"applicationId"`
	StatusCd        string          `json:"statusCd"`
	MemberIDs       string          `json:"memberIds"`
	AccountIDs      string          `json:"accountIds"`
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalAssets     decimal.Decimal `json:"totalAssets"`
	TotalRealEstate decimal.Decimal `json:"totalRealEstate"`
	UpdatedAt       string          `json:"updatedAt"` // ISO 8601
}
