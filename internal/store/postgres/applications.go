// internal/store/postgres/applications.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"

	"github.com/lib/pq"
)

const applicationColumns = `
	id, listing_id, username, status_cd, applicant, household, unit_types,
	COALESCE(lead_type_cd, ''), COALESCE(lead_other, ''), member_ids, account_ids,
	total_income, total_assets, total_real_estate, duplicate_flag, duplicate_response_due,
	listing_address_snapshot, snapshot_at, submitted_at, withdrawn_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.HousingApplication, error) {
	var (
		a                                 models.HousingApplication
		applicant, hh, snapshot           []byte
		due, snapAt, submitted, withdrawn sql.NullTime
	)
	if err := row.Scan(
		&a.ID, &a.ListingID, &a.Username, &a.StatusCd, &applicant, &hh, (*pq.StringArray)(&a.UnitTypes),
		&a.LeadTypeCd, &a.LeadOther, &a.MemberIDs, &a.AccountIDs,
		&a.TotalIncome, &a.TotalAssets, &a.TotalRealEstate, &a.Duplicate, &due,
		&snapshot, &snapAt, &submitted, &withdrawn, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(applicant) > 0 {
		if err := json.Unmarshal(applicant, &a.Applicant); err != nil {
			return nil, fmt.Errorf("decode applicant of application %d: %w", a.ID, err)
		}
	}
	if len(hh) > 0 {
		if err := json.Unmarshal(hh, &a.Household); err != nil {
			return nil, fmt.Errorf("decode household of application %d: %w", a.ID, err)
		}
	}
	if len(snapshot) > 0 {
		var addr models.Address
		if err := json.Unmarshal(snapshot, &addr); err != nil {
			return nil, fmt.Errorf("decode address snapshot of application %d: %w", a.ID, err)
		}
		a.ListingAddressSnapshot = &addr
	}
	a.DuplicateResponseDue = timePtr(due)
	a.SnapshotAt = timePtr(snapAt)
	a.SubmittedAt = timePtr(submitted)
	a.WithdrawnAt = timePtr(withdrawn)
	return &a, nil
}

// GetApplication loads an application owned by username.
func (s *Store) GetApplication(ctx context.Context, username string, applicationID int64) (*models.HousingApplication, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM housing_applications WHERE id = $1 AND username = $2`,
		applicationID, username)
	app, err := scanApplication(row)
	if err != nil {
		return nil, classify("get application", err)
	}
	return app, nil
}

// ListActiveApplications returns the non-withdrawn applications of username for a listing,
// most recently updated first.
func (s *Store) ListActiveApplications(ctx context.Context, username string, listingID int64) ([]models.HousingApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM housing_applications
		WHERE username = $1 AND listing_id = $2 AND status_cd <> $3
		ORDER BY updated_at DESC, id DESC`,
		username, listingID, models.StatusWithdrawn)
	if err != nil {
		return nil, classify("list active applications", err)
	}
	defer rows.Close()

	var apps []models.HousingApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func contentArgs(app *models.HousingApplication) ([]interface{}, error) {
	applicant, err := json.Marshal(app.Applicant)
	if err != nil {
		return nil, fmt.Errorf("encode applicant: %w", err)
	}
	hh, err := json.Marshal(app.Household)
	if err != nil {
		return nil, fmt.Errorf("encode household: %w", err)
	}
	return []interface{}{
		applicant, hh, textArray(app.UnitTypes),
		nullIfEmpty(app.LeadTypeCd), nullIfEmpty(app.LeadOther),
		app.MemberIDs, app.AccountIDs,
		app.TotalIncome, app.TotalAssets, app.TotalRealEstate,
	}, nil
}

// InsertApplication stores a new draft and assigns its id and timestamps. A second active
// application for the same user and listing violates ux_housing_applications_active and
// is reported as ErrConflict.
func (s *Store) InsertApplication(ctx context.Context, app *models.HousingApplication) error {
	args, err := contentArgs(app)
	if err != nil {
		return err
	}
	args = append(args, app.ListingID, app.Username, app.StatusCd)
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO housing_applications (
			applicant, household, unit_types, lead_type_cd, lead_other,
			member_ids, account_ids, total_income, total_assets, total_real_estate,
			listing_id, username, status_cd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`, args...,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	return classify("insert application", err)
}

// UpdateApplication rewrites the step content of a draft. An application that is no longer
// a draft is left untouched and reported as ErrConflict.
func (s *Store) UpdateApplication(ctx context.Context, app *models.HousingApplication) error {
	args, err := contentArgs(app)
	if err != nil {
		return err
	}
	args = append(args, app.ID, models.StatusDraft)
	err = s.db.QueryRowContext(ctx, `
		UPDATE housing_applications SET
			applicant = $1, household = $2, unit_types = $3, lead_type_cd = $4, lead_other = $5,
			member_ids = $6, account_ids = $7, total_income = $8, total_assets = $9,
			total_real_estate = $10, updated_at = now()
		WHERE id = $11 AND status_cd = $12
		RETURNING updated_at`, args...,
	).Scan(&app.UpdatedAt)
	return s.guarded(ctx, "update application", app.ID, err)
}

// UpdateStatus writes a status transition from status from, together with its timestamps,
// the address snapshot and the rollups. An application no longer in status from is left
// untouched and reported as ErrConflict.
func (s *Store) UpdateStatus(ctx context.Context, app *models.HousingApplication, from string) error {
	var snapshot interface{}
	if app.ListingAddressSnapshot != nil {
		raw, err := json.Marshal(app.ListingAddressSnapshot)
		if err != nil {
			return fmt.Errorf("encode address snapshot: %w", err)
		}
		snapshot = raw
	}
	err := s.db.QueryRowContext(ctx, `
		UPDATE housing_applications SET
			status_cd = $2, submitted_at = $3, withdrawn_at = $4,
			listing_address_snapshot = $5, snapshot_at = $6,
			member_ids = $7, account_ids = $8, total_income = $9, total_assets = $10,
			total_real_estate = $11, updated_at = now()
		WHERE id = $1 AND status_cd = $12
		RETURNING updated_at`,
		app.ID, app.StatusCd, nullTime(app.SubmittedAt), nullTime(app.WithdrawnAt),
		snapshot, nullTime(app.SnapshotAt),
		app.MemberIDs, app.AccountIDs, app.TotalIncome, app.TotalAssets, app.TotalRealEstate,
		from,
	).Scan(&app.UpdatedAt)
	return s.guarded(ctx, "update application status", app.ID, err)
}

// guarded classifies the result of a status-guarded update. No matched row means the
// application is gone (ErrNotFound) or has moved on (ErrConflict).
func (s *Store) guarded(ctx context.Context, op string, id int64, err error) error {
	if !stderrors.Is(err, sql.ErrNoRows) {
		return classify(op, err)
	}
	var status string
	if lookupErr := s.db.QueryRowContext(ctx,
		`SELECT status_cd FROM housing_applications WHERE id = $1`, id,
	).Scan(&status); lookupErr != nil {
		return classify(op, lookupErr)
	}
	return fmt.Errorf("%s: status %s: %w", op, status, errors.ErrConflict)
}

// ListDocuments returns the documents of an application without their content.
func (s *Store) ListDocuments(ctx context.Context, applicationID int64) ([]models.ApplicationDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, document_type_cd, document_name, file_name,
		       content_type, size_bytes, created_at
		FROM application_documents
		WHERE application_id = $1
		ORDER BY id`, applicationID)
	if err != nil {
		return nil, classify("list documents", err)
	}
	defer rows.Close()

	var docs []models.ApplicationDocument
	for rows.Next() {
		var d models.ApplicationDocument
		if err := rows.Scan(
			&d.ID, &d.ApplicationID, &d.DocumentTypeCd, &d.DocumentName, &d.FileName,
			&d.ContentType, &d.Size, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SaveDocument inserts a document, or replaces the one with doc.ID.
func (s *Store) SaveDocument(ctx context.Context, doc *models.ApplicationDocument) error {
	if doc.ID == 0 {
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO application_documents (
				application_id, document_type_cd, document_name, file_name,
				content_type, content, size_bytes
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			doc.ApplicationID, doc.DocumentTypeCd, doc.DocumentName, doc.FileName,
			doc.ContentType, doc.Content, doc.Size,
		).Scan(&doc.ID, &doc.CreatedAt)
		return classify("insert document", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE application_documents SET
			document_type_cd = $3, document_name = $4, file_name = $5,
			content_type = $6, content = $7, size_bytes = $8
		WHERE application_id = $1 AND id = $2`,
		doc.ApplicationID, doc.ID, doc.DocumentTypeCd, doc.DocumentName, doc.FileName,
		doc.ContentType, doc.Content, doc.Size,
	)
	if err != nil {
		return classify("update document", err)
	}
	return mustAffect("update document", res)
}

// ListComments returns the comments of an application oldest first.
func (s *Store) ListComments(ctx context.Context, applicationID int64) ([]models.ApplicationComment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, comment_text, internal, author, created_at
		FROM application_comments
		WHERE application_id = $1
		ORDER BY created_at, id`, applicationID)
	if err != nil {
		return nil, classify("list comments", err)
	}
	defer rows.Close()

	var comments []models.ApplicationComment
	for rows.Next() {
		var c models.ApplicationComment
		if err := rows.Scan(&c.ID, &c.ApplicationID, &c.Text, &c.Internal, &c.Author, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) InsertComment(ctx context.Context, c *models.ApplicationComment) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO application_comments (application_id, comment_text, internal, author, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.ApplicationID, c.Text, c.Internal, c.Author, c.CreatedAt,
	).Scan(&c.ID)
	return classify("insert comment", err)
}
