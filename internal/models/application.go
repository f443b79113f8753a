// internal/models/application.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Application statuses. DRAFT moves to SUBMITTED or WAITLISTED; any of these may move to WITHDRAWN.
const (
	StatusDraft      = "DRAFT"
	StatusSubmitted  = "SUBMITTED"
	StatusWaitlisted = "WAITLISTED"
	StatusWithdrawn  = "WITHDRAWN"
)

// HousingApplication is one applicant's application to one listing.
// Applicant and household fields are snapshots as of the last step save.
type HousingApplication struct {
	ID        int64  `json:"applicationId"`
	ListingID int64  `json:"listingId"`
	Username  string `json:"username"`
	StatusCd  string `json:"statusCd"`

	Applicant Person        `json:"applicant"`
	Household HouseholdInfo `json:"household"`

	UnitTypes  []string `json:"unitTypes,omitempty"`
	LeadTypeCd string   `json:"leadTypeCd,omitempty"`
	LeadOther  string   `json:"leadOther,omitempty"`

	// Comma-separated member ids; AccountIDs is derived from it.
	MemberIDs  string `json:"memberIds"`
	AccountIDs string `json:"accountIds"`

	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalAssets     decimal.Decimal `json:"totalAssets"`
	TotalRealEstate decimal.Decimal `json:"totalRealEstate"`

	Duplicate            bool       `json:"duplicate"`
	DuplicateResponseDue *time.Time `json:"duplicateResponseDue,omitempty"`

	// Taken at submission so later listing edits do not change historical notices.
	ListingAddressSnapshot *Address   `json:"listingAddressSnapshot,omitempty"`
	SnapshotAt             *time.Time `json:"snapshotAt,omitempty"`

	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	WithdrawnAt *time.Time `json:"withdrawnAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsNew reports whether the application has not been persisted yet.
func (a *HousingApplication) IsNew() bool { return a.ID == 0 }

type ApplicationDocument struct {
	ID             int64     `json:"id"`
	ApplicationID  int64     `json:"applicationId"`
	DocumentTypeCd string    `json:"documentTypeCd"`
	DocumentName   string    `json:"documentName"`
	FileName       string    `json:"fileName"`
	ContentType    string    `json:"contentType"`
	Content        []byte    `json:"-"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ApplicationComment struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	Text          string    `json:"text"`
	Internal      bool      `json:"internal"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
}
