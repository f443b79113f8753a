// internal/lifecycle/transitions.go
package lifecycle

import (
	"context"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"
)

// Submit moves a draft to SUBMITTED while the listing's application window is open, or to
// WAITLISTED while only its waitlist window is open. The listing address is copied into the
// application as of submission, and the member selection, linked accounts and totals are
// recomputed from the current household.
func (s *Service) Submit(ctx context.Context, username string, applicationID int64) (*models.HousingApplication, error) {
	app, err := s.applications.GetApplication(ctx, username, applicationID)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationNotFound, err)
	}
	if app.StatusCd != models.StatusDraft {
		return nil, errors.New(errors.ApplicationAlreadySubmitted, "status "+app.StatusCd)
	}
	ws, err := s.load(ctx, username, app.ListingID, errors.ApplicationSystemError)
	if err != nil {
		return nil, err
	}
	listing := ws.listing

	now := s.now()
	var status string
	switch {
	case listing.Application.Open(now):
		status = models.StatusSubmitted
	case listing.Waitlist.Open(now):
		status = models.StatusWaitlisted
	default:
		return nil, errors.New(errors.ApplicationListingClosed, "")
	}

	// The submitted record carries the household as of submission.
	rollUp(app, ws)
	snapshot := listing.Address
	from := app.StatusCd
	app.StatusCd = status
	app.SubmittedAt = &now
	app.ListingAddressSnapshot = &snapshot
	app.SnapshotAt = &now
	if err := s.applications.UpdateStatus(ctx, app, from); err != nil {
		return nil, writeErr(err, errors.ApplicationAlreadySubmitted)
	}
	s.transition(app, from, status)
	s.notify(ctx, models.NoticeSubmitted, app, listing, now)
	return app, nil
}

// Withdraw moves a draft, submitted or waitlisted application to WITHDRAWN as long as the
// listing's application period has not ended.
func (s *Service) Withdraw(ctx context.Context, username string, applicationID int64) (*models.HousingApplication, error) {
	app, err := s.applications.GetApplication(ctx, username, applicationID)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationNotFound, err)
	}
	if !withdrawable(app.StatusCd) {
		return nil, errors.New(errors.ApplicationWithdrawNotPermitted, "status "+app.StatusCd)
	}
	listing, err := s.listings.GetListing(ctx, app.ListingID)
	if err != nil {
		return nil, errors.System(errors.ApplicationSystemError, errors.ApplicationListingNotFound, err)
	}
	now := s.now()
	if !beforeEnd(listing, now) {
		return nil, errors.New(errors.ApplicationWithdrawWindowClosed, "")
	}

	from := app.StatusCd
	app.StatusCd = models.StatusWithdrawn
	app.WithdrawnAt = &now
	if err := s.applications.UpdateStatus(ctx, app, from); err != nil {
		return nil, writeErr(err, errors.ApplicationWithdrawNotPermitted)
	}
	s.transition(app, from, models.StatusWithdrawn)
	s.notify(ctx, models.NoticeWithdrawn, app, listing, now)
	return app, nil
}

func withdrawable(status string) bool {
	switch status {
	case models.StatusDraft, models.StatusSubmitted, models.StatusWaitlisted:
		return true
	}
	return false
}

func beforeEnd(listing *models.Listing, now time.Time) bool {
	end := listing.Application.End
	return end == nil || !now.After(*end)
}

func canWithdraw(app *models.HousingApplication, listing *models.Listing, now time.Time) bool {
	return !app.IsNew() && withdrawable(app.StatusCd) && beforeEnd(listing, now)
}

// notify sends the notice best-effort. A delivery failure never undoes the transition.
func (s *Service) notify(ctx context.Context, kind string, app *models.HousingApplication, listing *models.Listing, now time.Time) {
	if s.notifier == nil {
		return
	}
	address := listing.Address
	if app.ListingAddressSnapshot != nil {
		address = *app.ListingAddressSnapshot
	}
	notice := models.Notice{
		Type:           kind,
		Username:       app.Username,
		RecipientName:  app.Applicant.FullName(),
		Email:          app.Applicant.Email,
		Phone:          app.Applicant.Phone.Number,
		ApplicationID:  app.ID,
		ListingID:      listing.ID,
		ListingName:    listing.Name,
		ListingAddress: address.Text(),
		StatusCd:       app.StatusCd,
		OccurredAt:     now,
	}
	if err := s.notifier.Send(ctx, notice); err != nil {
		s.logger.Warn("notification failed", map[string]interface{}{
			"applicationId": app.ID,
			"type":          kind,
			"error":         err.Error(),
		})
	}
}
