// internal/lifecycle/draft.go
package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/household"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
	"housing-workers/internal/rules"
)

// StepKind names one save step of the application.
type StepKind string

const (
	StepApplicantInfo     StepKind = "APPLICANT_INFO"
	StepHousehold         StepKind = "HOUSEHOLD"
	StepAdditionalMembers StepKind = "ADDITIONAL_MEMBERS"
	StepIncomeAssets      StepKind = "INCOME_ASSETS"
)

// Draft is the application a user is working on. Existing is false for a seeded draft that
// has not been saved yet.
type Draft struct {
	Application *models.HousingApplication `json:"application"`
	Existing    bool                       `json:"existing"`
}

// StepRequest carries one step's payload. Only the fields of Step are read.
type StepRequest struct {
	Username      string
	ListingID     int64
	ApplicationID int64
	Step          StepKind

	Applicant  *models.Person
	LeadTypeCd string
	LeadOther  string

	Household *models.HouseholdInfo
	UnitTypes []string

	MemberIDs string
}

// workingSet is everything a step needs loaded before it runs.
type workingSet struct {
	profile   *models.ApplicantProfile
	household *models.Household
	listing   *models.Listing
}

func (s *Service) load(ctx context.Context, username string, listingID int64, code errors.ErrorCode) (*workingSet, error) {
	profile, err := s.profiles.GetProfile(ctx, username)
	if err != nil {
		return nil, errors.System(code, errors.ProfileNotFound, err)
	}
	hh, err := s.households.GetHousehold(ctx, username)
	if err != nil {
		return nil, errors.System(code, errors.HouseholdNotFound, err)
	}
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, errors.System(code, errors.ApplicationListingNotFound, err)
	}
	return &workingSet{profile: profile, household: hh, listing: listing}, nil
}

// ResolveDraft returns the application the user should keep editing for the listing.
// A positive applicationID must name an application of the user for that listing.
// Otherwise the active application for the listing is reused, or a new draft is seeded
// from the profile and household without being persisted.
func (s *Service) ResolveDraft(ctx context.Context, username string, listingID, applicationID int64) (*Draft, error) {
	ws, err := s.load(ctx, username, listingID, errors.ApplicationSystemError)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, ws, username, listingID, applicationID)
}

func (s *Service) resolve(ctx context.Context, ws *workingSet, username string, listingID, applicationID int64) (*Draft, error) {
	if applicationID > 0 {
		app, err := s.applications.GetApplication(ctx, username, applicationID)
		if err != nil {
			return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationNotFound, err)
		}
		if app.ListingID != listingID {
			return nil, errors.New(errors.ApplicationNotFound,
				fmt.Sprintf("application %d belongs to listing %d", applicationID, app.ListingID))
		}
		return &Draft{Application: app, Existing: true}, nil
	}

	active, err := s.applications.ListActiveApplications(ctx, username, listingID)
	if err != nil {
		return nil, errors.Wrap(errors.ApplicationSystemError, err)
	}
	if len(active) > 0 {
		if len(active) > 1 {
			s.logger.Warn("multiple active applications for listing, reusing the latest", map[string]interface{}{
				"username":      username,
				"listingId":     listingID,
				"count":         len(active),
				"applicationId": active[0].ID,
			})
		}
		app := active[0]
		return &Draft{Application: &app, Existing: true}, nil
	}

	return &Draft{Application: seedDraft(ws, username, listingID)}, nil
}

func seedDraft(ws *workingSet, username string, listingID int64) *models.HousingApplication {
	app := &models.HousingApplication{
		ListingID: listingID,
		Username:  username,
		StatusCd:  models.StatusDraft,
		Applicant: ws.profile.Person,
		Household: ws.household.HouseholdInfo,
	}
	rollUp(app, ws)
	return app
}

// rollUp recomputes the selected members, the linked accounts and the totals from the
// household as it is now.
func rollUp(app *models.HousingApplication, ws *workingSet) {
	sum := household.Aggregate(ws.profile, ws.household, app.MemberIDs)
	app.MemberIDs = sum.MemberIDs
	app.AccountIDs = sum.AccountIDs
	app.TotalIncome = sum.TotalIncome
	app.TotalAssets = sum.TotalAssets
	app.TotalRealEstate = sum.TotalRealEstate
}

// SaveStep validates one step, merges it into the application and persists it. The first
// saved step inserts the application.
func (s *Service) SaveStep(ctx context.Context, req *StepRequest) (*models.HousingApplication, error) {
	ws, err := s.load(ctx, req.Username, req.ListingID, errors.ApplicationSystemError)
	if err != nil {
		return nil, err
	}
	draft, err := s.resolve(ctx, ws, req.Username, req.ListingID, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	app := draft.Application
	if app.StatusCd != models.StatusDraft {
		return nil, errors.New(errors.ApplicationNotEditable, "status "+app.StatusCd)
	}

	dict, err := s.refdata.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ApplicationSystemError, err)
	}
	if err := s.applyStep(app, req, ws, dict); err != nil {
		return nil, err
	}

	if !app.IsNew() {
		if err := s.applications.UpdateApplication(ctx, app); err != nil {
			return nil, writeErr(err, errors.ApplicationNotEditable)
		}
		s.logStep(app, req.Step)
		return app, nil
	}

	err = s.applications.InsertApplication(ctx, app)
	if err == nil {
		s.transition(app, "NEW", models.StatusDraft)
		s.logStep(app, req.Step)
		return app, nil
	}
	if !stderrors.Is(err, errors.ErrConflict) {
		return nil, errors.Wrap(errors.ApplicationSystemError, err)
	}

	// Another request created the application first. Apply the step to that one.
	active, err := s.applications.ListActiveApplications(ctx, req.Username, req.ListingID)
	if err != nil || len(active) == 0 {
		if err == nil {
			err = errors.ErrConflict
		}
		return nil, errors.Wrap(errors.ApplicationSystemError, err)
	}
	existing := active[0]
	if existing.StatusCd != models.StatusDraft {
		return nil, errors.New(errors.ApplicationNotEditable, "status "+existing.StatusCd)
	}
	if err := s.applyStep(&existing, req, ws, dict); err != nil {
		return nil, err
	}
	if err := s.applications.UpdateApplication(ctx, &existing); err != nil {
		return nil, writeErr(err, errors.ApplicationNotEditable)
	}
	s.logStep(&existing, req.Step)
	return &existing, nil
}

func (s *Service) applyStep(app *models.HousingApplication, req *StepRequest, ws *workingSet, dict refdata.Dictionary) error {
	switch req.Step {
	case StepApplicantInfo:
		if req.Applicant == nil {
			return errors.New(errors.JobInputInvalid, "applicant is required")
		}
		applicant := *req.Applicant
		rules.NormalizePerson(&applicant)
		if code := rules.ValidateApplicant(&applicant, dict, s.now()); code != "" {
			return errors.New(code, "")
		}
		lead := validation.Clean(req.LeadTypeCd)
		other := validation.Clean(req.LeadOther)
		if code := rules.ValidateLeadSource(lead, other, dict); code != "" {
			return errors.New(code, "")
		}
		if !rules.LeadNeedsText(lead) {
			other = ""
		}
		app.Applicant = applicant
		app.LeadTypeCd = lead
		app.LeadOther = other

	case StepHousehold:
		if req.Household == nil {
			return errors.New(errors.JobInputInvalid, "household is required")
		}
		info := *req.Household
		rules.NormalizeHouseholdInfo(&info)
		if code := rules.ValidateAddress(&info); code != "" {
			return errors.New(code, "")
		}
		if code := rules.ValidateVoucher(&info, dict); code != "" {
			return errors.New(code, "")
		}
		units := validation.CleanAll(req.UnitTypes)
		if code := rules.ValidateUnitSelection(units, ws.listing); code != "" {
			return errors.New(code, "")
		}
		app.Household = info
		app.UnitTypes = units

	case StepAdditionalMembers:
		app.MemberIDs = household.ResolveMemberIDs(ws.household, req.MemberIDs)

	case StepIncomeAssets:
		// totals only

	default:
		return errors.New(errors.ApplicationStepInvalid, string(req.Step))
	}
	rollUp(app, ws)
	return nil
}

// writeErr classifies a failed write of an application read earlier in the same request.
// stale is reported when the application left the expected status in between.
func writeErr(err error, stale errors.ErrorCode) error {
	if stderrors.Is(err, errors.ErrConflict) {
		return errors.Wrap(stale, err)
	}
	return errors.System(errors.ApplicationSystemError, errors.ApplicationNotFound, err)
}

func (s *Service) logStep(app *models.HousingApplication, step StepKind) {
	s.logger.Info("application step saved", map[string]interface{}{
		"applicationId": app.ID,
		"listingId":     app.ListingID,
		"username":      app.Username,
		"step":          string(step),
	})
}
