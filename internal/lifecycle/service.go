// Package lifecycle orchestrates a housing application from draft to submission or
// withdrawal. It owns every mutation of an application and calls the rule validator,
// the household aggregator and the eligibility calculators per step.
package lifecycle

import (
	"context"
	"time"

	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/metrics"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"

	"github.com/shopspring/decimal"
)

// ProfileStore reads applicant profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, username string) (*models.ApplicantProfile, error)
}

// HouseholdStore reads and edits a user's household. GetHousehold returns the household
// with its members and accounts.
type HouseholdStore interface {
	GetHousehold(ctx context.Context, username string) (*models.Household, error)
	EnsureHousehold(ctx context.Context, username string) (*models.Household, error)
	UpsertMember(ctx context.Context, householdID int64, m *models.HouseholdMember) error
	UpsertAccount(ctx context.Context, householdID int64, a *models.HouseholdAccount) error
	DeleteMember(ctx context.Context, householdID, memberID int64) error
	DeleteAccount(ctx context.Context, householdID, accountID int64) error
}

// ApplicationStore persists applications and their documents and comments.
// InsertApplication reports a second active application for the same listing as ErrConflict.
// ListActiveApplications returns the most recently updated first.
// UpdateApplication only writes a DRAFT and UpdateStatus only writes an application still in
// status from; otherwise both report ErrConflict.
type ApplicationStore interface {
	GetApplication(ctx context.Context, username string, applicationID int64) (*models.HousingApplication, error)
	ListActiveApplications(ctx context.Context, username string, listingID int64) ([]models.HousingApplication, error)
	InsertApplication(ctx context.Context, app *models.HousingApplication) error
	UpdateApplication(ctx context.Context, app *models.HousingApplication) error
	UpdateStatus(ctx context.Context, app *models.HousingApplication, from string) error
	ListDocuments(ctx context.Context, applicationID int64) ([]models.ApplicationDocument, error)
	SaveDocument(ctx context.Context, doc *models.ApplicationDocument) error
	ListComments(ctx context.Context, applicationID int64) ([]models.ApplicationComment, error)
	InsertComment(ctx context.Context, c *models.ApplicationComment) error
}

type ListingStore interface {
	GetListing(ctx context.Context, listingID int64) (*models.Listing, error)
}

// RefData resolves reference code sets.
type RefData interface {
	Load(ctx context.Context, sets ...refdata.Set) (refdata.Dictionary, error)
}

// Notifier delivers submission and withdrawal notices.
type Notifier interface {
	Send(ctx context.Context, notice models.Notice) error
}

// Tables reads the amortization and AMI configuration.
type Tables interface {
	GetAmortization(ctx context.Context, ratePct decimal.Decimal) (*models.Amortization, error)
	GetAmiConfig(ctx context.Context, year int) (*models.AmiConfig, error)
}

// Dependencies are the collaborators of the Service.
type Dependencies struct {
	Profiles     ProfileStore
	Households   HouseholdStore
	Applications ApplicationStore
	Listings     ListingStore
	RefData      RefData
	Notifier     Notifier
	Tables       Tables
	Logger       logger.Logger
	Now          func() time.Time
}

// Config carries the tunable limits of the rules.
type Config struct {
	MaxDocumentBytes int64
	MaxCommentLength int
	AmiRoundTo       int64
	DefaultRate      decimal.Decimal
	DefaultTermYears int
}

type Service struct {
	profiles     ProfileStore
	households   HouseholdStore
	applications ApplicationStore
	listings     ListingStore
	refdata      RefData
	notifier     Notifier
	tables       Tables
	config       Config
	now          func() time.Time
	logger       logger.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		profiles:     deps.Profiles,
		households:   deps.Households,
		applications: deps.Applications,
		listings:     deps.Listings,
		refdata:      deps.RefData,
		notifier:     deps.Notifier,
		tables:       deps.Tables,
		config:       cfg,
		now:          now,
		logger:       log.WithFields(map[string]interface{}{"component": "lifecycle"}),
	}
}

func (s *Service) transition(app *models.HousingApplication, from, to string) {
	metrics.ApplicationTransitions.WithLabelValues(from, to).Inc()
	s.logger.Info("application status changed", map[string]interface{}{
		"applicationId": app.ID,
		"listingId":     app.ListingID,
		"username":      app.Username,
		"from":          from,
		"to":            to,
	})
}
