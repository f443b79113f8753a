// internal/lifecycle/documents.go
package lifecycle

import (
	"context"
	"strings"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
	"housing-workers/internal/rules"
)

// AttachDocument validates an upload and stores it on the application. A document with an
// id replaces that document.
func (s *Service) AttachDocument(ctx context.Context, username string, applicationID int64, doc *models.ApplicationDocument) (*models.ApplicationDocument, error) {
	app, err := s.applications.GetApplication(ctx, username, applicationID)
	if err != nil {
		return nil, errors.System(errors.DocumentSystemError, errors.ApplicationNotFound, err)
	}
	if app.StatusCd == models.StatusWithdrawn {
		return nil, errors.New(errors.ApplicationNotEditable, "status "+app.StatusCd)
	}
	listing, err := s.listings.GetListing(ctx, app.ListingID)
	if err != nil {
		return nil, errors.System(errors.DocumentSystemError, errors.ApplicationListingNotFound, err)
	}
	dict, err := s.refdata.Load(ctx, refdata.FileType, refdata.DocumentType)
	if err != nil {
		return nil, errors.Wrap(errors.DocumentSystemError, err)
	}
	existing, err := s.applications.ListDocuments(ctx, app.ID)
	if err != nil {
		return nil, errors.Wrap(errors.DocumentSystemError, err)
	}

	d := *doc
	d.ApplicationID = app.ID
	if d.ID != 0 && !hasDocument(existing, d.ID) {
		return nil, errors.New(errors.DocumentNotFound, "")
	}
	if code := rules.ValidateDocument(&d, existing, listing, dict, s.config.MaxDocumentBytes); code != "" {
		return nil, errors.New(code, "")
	}
	if err := s.applications.SaveDocument(ctx, &d); err != nil {
		return nil, errors.System(errors.DocumentSystemError, errors.DocumentNotFound, err)
	}
	s.logger.Info("document attached", map[string]interface{}{
		"applicationId": app.ID,
		"documentId":    d.ID,
		"size":          d.Size,
		"contentType":   d.ContentType,
	})
	return &d, nil
}

func hasDocument(docs []models.ApplicationDocument, id int64) bool {
	for _, d := range docs {
		if d.ID == id {
			return true
		}
	}
	return false
}

// AddComment records the applicant's response to a duplicate-application flag.
func (s *Service) AddComment(ctx context.Context, username string, applicationID int64, text string) (*models.ApplicationComment, error) {
	app, err := s.applications.GetApplication(ctx, username, applicationID)
	if err != nil {
		return nil, errors.System(errors.CommentSystemError, errors.ApplicationNotFound, err)
	}
	comments, err := s.applications.ListComments(ctx, app.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CommentSystemError, err)
	}
	if !rules.CanComment(app, len(comments), s.now()) {
		return nil, errors.New(errors.CommentNotAllowed, "")
	}
	if code := rules.ValidateComment(text, s.config.MaxCommentLength); code != "" {
		return nil, errors.New(code, "")
	}

	c := &models.ApplicationComment{
		ApplicationID: app.ID,
		Text:          strings.TrimSpace(text),
		Author:        username,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.applications.InsertComment(ctx, c); err != nil {
		return nil, errors.Wrap(errors.CommentSystemError, err)
	}
	return c, nil
}
