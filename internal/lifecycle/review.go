package lifecycle

import (
	"context"
	"strings"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/household"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
	"housing-workers/internal/rules"

	"github.com/shopspring/decimal"
)

// ReviewView is the review/submit page model. Every display field is derived from
// persisted state when the view is assembled.
type ReviewView struct {
	Application        *models.HousingApplication   `json:"application"`
	ListingName        string                       `json:"listingName"`
	ListingAddress     string                       `json:"listingAddress"`
	ApplicantName      string                       `json:"applicantName"`
	Phone              string                       `json:"phone,omitempty"`
	AltPhone           string                       `json:"altPhone,omitempty"`
	AddressText        string                       `json:"addressText,omitempty"`
	MailingAddressText string                       `json:"mailingAddressText,omitempty"`
	VoucherSummary     string                       `json:"voucherSummary,omitempty"`
	LeadSource         string                       `json:"leadSource,omitempty"`
	UnitTypes          []string                     `json:"unitTypes"`
	Members            []household.MemberRollup     `json:"members"`
	AccountIDs         string                       `json:"accountIds"`
	TotalIncome        decimal.Decimal              `json:"totalIncome"`
	TotalAssets        decimal.Decimal              `json:"totalAssets"`
	TotalRealEstate    decimal.Decimal              `json:"totalRealEstate"`
	Documents          []models.ApplicationDocument `json:"documents"`
	Comments           []models.ApplicationComment  `json:"comments"`
	CanComment         bool                         `json:"canComment"`
	CanWithdraw        bool                         `json:"canWithdraw"`
}

// Review assembles the review view of a saved application.
func (s *Service) Review(ctx context.Context, username string, applicationID int64) (*ReviewView, error) {
	app, err := s.applications.GetApplication(ctx, username, applicationID)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationNotFound, err)
	}
	ws, err := s.load(ctx, username, app.ListingID, errors.ApplicationSystemError)
	if err != nil {
		return nil, err
	}
	dict, err := s.refdata.Load(ctx, refdata.VoucherType, refdata.LeadType, refdata.UnitType)
	if err != nil {
		return nil, errors.Wrap(errors.ApplicationSystemError, err)
	}
	docs, err := s.applications.ListDocuments(ctx, app.ID)
	if err != nil {
		return nil, errors.Wrap(errors.DocumentSystemError, err)
	}
	comments, err := s.applications.ListComments(ctx, app.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CommentSystemError, err)
	}

	now := s.now()
	sum := household.Aggregate(ws.profile, ws.household, app.MemberIDs)

	view := &ReviewView{
		Application:     app,
		ListingName:     ws.listing.Name,
		ListingAddress:  ws.listing.Address.Text(),
		ApplicantName:   app.Applicant.FullName(),
		VoucherSummary:  voucherSummary(&app.Household, dict),
		Members:         sum.Members,
		AccountIDs:      sum.AccountIDs,
		TotalIncome:     sum.TotalIncome,
		TotalAssets:     sum.TotalAssets,
		TotalRealEstate: sum.TotalRealEstate,
		Documents:       docs,
		Comments:        externalComments(comments),
		CanComment:      rules.CanComment(app, len(comments), now),
		CanWithdraw:     canWithdraw(app, ws.listing, now),
	}
	if app.ListingAddressSnapshot != nil {
		view.ListingAddress = app.ListingAddressSnapshot.Text()
	}
	if !app.Applicant.Phone.IsZero() {
		view.Phone = validation.FormatPhone(app.Applicant.Phone.Number, app.Applicant.Phone.Extension)
	}
	if !app.Applicant.AltPhone.IsZero() {
		view.AltPhone = validation.FormatPhone(app.Applicant.AltPhone.Number, app.Applicant.AltPhone.Extension)
	}
	if app.Household.HasAddress {
		view.AddressText = app.Household.Address.Text()
		if app.Household.DifferentMailingAddress {
			view.MailingAddressText = app.Household.MailingAddress.Text()
		}
	}
	if app.LeadTypeCd != "" {
		view.LeadSource = dict.Describe(refdata.LeadType, app.LeadTypeCd)
		if app.LeadOther != "" {
			view.LeadSource += " (" + app.LeadOther + ")"
		}
	}
	view.UnitTypes = make([]string, 0, len(app.UnitTypes))
	for _, u := range app.UnitTypes {
		view.UnitTypes = append(view.UnitTypes, dict.Describe(refdata.UnitType, u))
	}
	return view, nil
}

// voucherSummary lists the voucher descriptions, the other-type text and the administrator.
func voucherSummary(h *models.HouseholdInfo, dict refdata.Dictionary) string {
	if !h.HasVoucher || len(h.VoucherTypes) == 0 {
		return ""
	}
	names := make([]string, 0, len(h.VoucherTypes))
	for _, code := range h.VoucherTypes {
		name := dict.Describe(refdata.VoucherType, code)
		if code == rules.VoucherOther && h.VoucherOther != "" {
			name += " (" + h.VoucherOther + ")"
		}
		names = append(names, name)
	}
	out := strings.Join(names, ", ")
	if h.VoucherAdmin != "" {
		out += "; administered by " + h.VoucherAdmin
	}
	return out
}

func externalComments(all []models.ApplicationComment) []models.ApplicationComment {
	out := make([]models.ApplicationComment, 0, len(all))
	for _, c := range all {
		if !c.Internal {
			out = append(out, c)
		}
	}
	return out
}
