package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/lifecycle"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ lifecycle.ProfileStore     = (*Store)(nil)
	_ lifecycle.HouseholdStore   = (*Store)(nil)
	_ lifecycle.ApplicationStore = (*Store)(nil)
	_ lifecycle.Tables           = (*Store)(nil)
	_ refdata.Source             = (*Store)(nil)
)

// ==========================
// Test Helper Functions
// ==========================

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

var (
	memberCols = []string{
		"id", "household_id", "relation_type_cd", "relation_other",
		"first_name", "middle_name", "last_name", "suffix",
		"dob", "last4_ssn", "id_type_cd", "id_value", "id_issue_date",
		"gender_cd", "race_cd", "ethnicity_cd",
		"phone", "phone_ext", "phone_type_cd", "alt_phone", "alt_phone_ext", "alt_phone_type_cd",
		"email", "alt_email", "income_value", "real_estate_value",
	}
	accountCols = []string{
		"id", "household_id", "account_type_cd", "account_type_other", "institution_name",
		"account_number", "account_value", "primary_holder_member_id",
	}
	applicationCols = []string{
		"id", "listing_id", "username", "status_cd", "applicant", "household", "unit_types",
		"lead_type_cd", "lead_other", "member_ids", "account_ids",
		"total_income", "total_assets", "total_real_estate", "duplicate_flag", "duplicate_response_due",
		"listing_address_snapshot", "snapshot_at", "submitted_at", "withdrawn_at", "created_at", "updated_at",
	}
)

var created = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func applicationRow(rows *sqlmock.Rows, id int64, status string, snapshot interface{}) *sqlmock.Rows {
	return rows.AddRow(
		id, int64(77), "ana.lopez", status,
		[]byte(`{"firstName":"Ana","lastName":"Lopez","dob":"1990-02-03"}`),
		[]byte(`{"hasAddress":true,"address":{"line1":"1 Main St","city":"Brooklyn","state":"NY","zip":"11201"}}`),
		"{2BR,3BR}", "WEBSITE", "portal", "0,11", "500",
		"1200.00", "800.00", "0.00", false, nil,
		snapshot, nil, nil, nil, created, created,
	)
}

// ==========================
// Profiles
// ==========================

func TestGetProfile(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE username = \$1`).
		WithArgs("ana.lopez").
		WillReturnRows(sqlmock.NewRows([]string{
			"username", "first_name", "middle_name", "last_name", "suffix", "dob",
			"email", "alt_email", "phone", "phone_ext", "phone_type_cd",
			"alt_phone", "alt_phone_ext", "alt_phone_type_cd",
			"gender_cd", "race_cd", "ethnicity_cd", "income_value", "real_estate_value",
		}).AddRow(
			"ana.lopez", "Ana", "", "Lopez", "", time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC),
			"ana@example.com", "", "2125550100", "", "CELL",
			"", "", "",
			"F", "", "", "1200.00", "0",
		))

	p, err := store.GetProfile(context.Background(), "ana.lopez")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", p.FullName())
	assert.Equal(t, "1990-02-03", p.DOB.String())
	assert.Equal(t, "CELL", p.Phone.TypeCd)
	assert.True(t, p.IncomeValue.Equal(decimal.NewFromInt(1200)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM profiles`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := store.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

// ==========================
// Households
// ==========================

func TestGetHousehold_LoadsMembersAndAccounts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, username, info FROM households`).
		WithArgs("ana.lopez").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "info"}).
			AddRow(int64(1), "ana.lopez", []byte(`{"hasVoucher":true,"voucherTypes":["SECTION8"]}`)))
	mock.ExpectQuery(`FROM household_members WHERE household_id = \$1 ORDER BY id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow(
			int64(11), int64(1), "SPOUSE", "",
			"Luis", "", "Lopez", "",
			time.Date(1985, 5, 1, 0, 0, 0, 0, time.UTC), "1234", "", "", nil,
			"M", "", "",
			"", "", "", "", "", "",
			"", "", "5250.50", "0",
		))
	mock.ExpectQuery(`FROM household_accounts WHERE household_id = \$1 ORDER BY id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(int64(500), int64(1), "CHECKING", "", "First Bank", "0001", "800.00", int64(0)))

	h, err := store.GetHousehold(context.Background(), "ana.lopez")
	require.NoError(t, err)
	assert.True(t, h.HasVoucher)
	assert.Equal(t, []string{"SECTION8"}, h.VoucherTypes)
	require.Len(t, h.Members, 1)
	assert.Equal(t, "1985-05-01", h.Members[0].DOB.String())
	assert.True(t, h.Members[0].IDIssueDate.IsZero())
	require.Len(t, h.Accounts, 1)
	assert.Equal(t, "800", h.Accounts[0].Value.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureHousehold_CreatesOnFirstUse(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO households \(username\) VALUES \(\$1\) ON CONFLICT \(username\) DO NOTHING`).
		WithArgs("new.user").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM households`).
		WithArgs("new.user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "info"}).AddRow(int64(9), "new.user", []byte(`{}`)))
	mock.ExpectQuery(`FROM household_members`).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(memberCols))
	mock.ExpectQuery(`FROM household_accounts`).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(accountCols))

	h, err := store.EnsureHousehold(context.Background(), "new.user")
	require.NoError(t, err)
	assert.Equal(t, int64(9), h.ID)
	assert.Empty(t, h.Members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMember(t *testing.T) {
	member := func() *models.HouseholdMember {
		return &models.HouseholdMember{
			RelationTypeCd: "SPOUSE",
			Person: models.Person{
				FirstName: "Luis",
				LastName:  "Lopez",
				DOB:       models.MustDate("1985-05-01"),
			},
			Last4SSN: "1234",
		}
	}

	t.Run("insert assigns id", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO household_members`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

		m := member()
		require.NoError(t, store.UpsertMember(context.Background(), 1, m))
		assert.Equal(t, int64(42), m.ID)
		assert.Equal(t, int64(1), m.HouseholdID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update of missing member", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE household_members SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		m := member()
		m.ID = 99
		err := store.UpsertMember(context.Background(), 1, m)
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestUpsertAccount_Update(t *testing.T) {
	store, mock := newMockStore(t)

	a := &models.HouseholdAccount{
		ID:              500,
		TypeCd:          "SAVINGS",
		InstitutionName: "First Bank",
		AccountNumber:   "0001",
		Value:           decimal.NewFromInt(900),
	}
	mock.ExpectExec(`UPDATE household_accounts SET`).
		WithArgs("SAVINGS", nil, "First Bank", "0001", decimal.NewFromInt(900), int64(0), int64(1), int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertAccount(context.Background(), 1, a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMember_RemovesHeldAccountsInTx(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM household_accounts WHERE household_id = \$1 AND primary_holder_member_id = \$2`).
		WithArgs(int64(1), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM household_members`).
		WithArgs(int64(1), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.DeleteMember(context.Background(), 1, 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMember_RollsBackWhenMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM household_accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM household_members`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.DeleteMember(context.Background(), 1, 11)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Applications
// ==========================

func TestGetApplication_DecodesSnapshots(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM housing_applications WHERE id = \$1 AND username = \$2`).
		WithArgs(int64(1001), "ana.lopez").
		WillReturnRows(applicationRow(sqlmock.NewRows(applicationCols), 1001, models.StatusSubmitted,
			[]byte(`{"line1":"200 Water St","city":"New York","state":"NY","zip":"10038"}`)))

	app, err := store.GetApplication(context.Background(), "ana.lopez", 1001)
	require.NoError(t, err)
	assert.Equal(t, "Ana", app.Applicant.FirstName)
	assert.Equal(t, "Brooklyn", app.Household.Address.City)
	assert.Equal(t, []string{"2BR", "3BR"}, app.UnitTypes)
	require.NotNil(t, app.ListingAddressSnapshot)
	assert.Equal(t, "200 Water St", app.ListingAddressSnapshot.Line1)
	assert.Nil(t, app.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveApplications(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(applicationCols)
	applicationRow(rows, 1002, models.StatusDraft, nil)
	applicationRow(rows, 1001, models.StatusDraft, nil)
	mock.ExpectQuery(`WHERE username = \$1 AND listing_id = \$2 AND status_cd <> \$3\s+ORDER BY updated_at DESC`).
		WithArgs("ana.lopez", int64(77), models.StatusWithdrawn).
		WillReturnRows(rows)

	apps, err := store.ListActiveApplications(context.Background(), "ana.lopez", 77)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, int64(1002), apps[0].ID)
	assert.Nil(t, apps[1].ListingAddressSnapshot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertApplication(t *testing.T) {
	app := func() *models.HousingApplication {
		return &models.HousingApplication{
			ListingID:   77,
			Username:    "ana.lopez",
			StatusCd:    models.StatusDraft,
			TotalIncome: decimal.NewFromInt(1200),
		}
	}

	t.Run("assigns id and timestamps", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO housing_applications`).
			WithArgs(
				sqlmock.AnyArg(), sqlmock.AnyArg(), pq.StringArray{}, nil, nil,
				"", "", decimal.NewFromInt(1200), decimal.Zero, decimal.Zero,
				int64(77), "ana.lopez", models.StatusDraft,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1001), created, created))

		a := app()
		require.NoError(t, store.InsertApplication(context.Background(), a))
		assert.Equal(t, int64(1001), a.ID)
		assert.Equal(t, created, a.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second active application conflicts", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO housing_applications`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "ux_housing_applications_active"})

		err := store.InsertApplication(context.Background(), app())
		assert.ErrorIs(t, err, errors.ErrConflict)
		assert.Contains(t, err.Error(), "ux_housing_applications_active")
	})
}

func TestUpdateStatus_WritesSnapshot(t *testing.T) {
	store, mock := newMockStore(t)

	submitted := created.Add(time.Hour)
	app := &models.HousingApplication{
		ID:                     1001,
		StatusCd:               models.StatusSubmitted,
		SubmittedAt:            &submitted,
		SnapshotAt:             &submitted,
		ListingAddressSnapshot: &models.Address{Line1: "200 Water St"},
		MemberIDs:              "10",
		AccountIDs:             "500,1003",
		TotalIncome:            decimal.NewFromInt(72000),
		TotalAssets:            decimal.NewFromInt(5800),
		TotalRealEstate:        decimal.Zero,
	}
	mock.ExpectQuery(`UPDATE housing_applications SET\s+status_cd = \$2.*WHERE id = \$1 AND status_cd = \$12`).
		WithArgs(int64(1001), models.StatusSubmitted, submitted, nil, []byte(`{"line1":"200 Water St"}`), submitted,
			"10", "500,1003", decimal.NewFromInt(72000), decimal.NewFromInt(5800), decimal.Zero,
			models.StatusDraft).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(submitted))

	require.NoError(t, store.UpdateStatus(context.Background(), app, models.StatusDraft))
	assert.Equal(t, submitted, app.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_StatusMovedOn(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE housing_applications SET`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT status_cd FROM housing_applications WHERE id = \$1`).
		WithArgs(int64(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"status_cd"}).AddRow(models.StatusWithdrawn))

	app := &models.HousingApplication{ID: 1001, StatusCd: models.StatusSubmitted}
	err := store.UpdateStatus(context.Background(), app, models.StatusDraft)
	assert.ErrorIs(t, err, errors.ErrConflict)
	assert.Contains(t, err.Error(), models.StatusWithdrawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplication_OnlyDrafts(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE housing_applications SET`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT status_cd FROM housing_applications`).WillReturnError(sql.ErrNoRows)

		err := store.UpdateApplication(context.Background(), &models.HousingApplication{ID: 5})
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("submitted", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE housing_applications SET.*WHERE id = \$11 AND status_cd = \$12`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(5), models.StatusDraft).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT status_cd FROM housing_applications`).
			WillReturnRows(sqlmock.NewRows([]string{"status_cd"}).AddRow(models.StatusSubmitted))

		err := store.UpdateApplication(context.Background(), &models.HousingApplication{ID: 5})
		assert.ErrorIs(t, err, errors.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveDocument(t *testing.T) {
	doc := func() *models.ApplicationDocument {
		return &models.ApplicationDocument{
			ApplicationID:  1001,
			DocumentTypeCd: "PAYSTUB",
			DocumentName:   "March paystub",
			FileName:       "march.pdf",
			ContentType:    "application/pdf",
			Content:        []byte("%PDF"),
			Size:           4,
		}
	}

	t.Run("insert", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO application_documents`).
			WithArgs(int64(1001), "PAYSTUB", "March paystub", "march.pdf", "application/pdf", []byte("%PDF"), int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), created))

		d := doc()
		require.NoError(t, store.SaveDocument(context.Background(), d))
		assert.Equal(t, int64(3), d.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replace unknown", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE application_documents SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		d := doc()
		d.ID = 8
		assert.ErrorIs(t, store.SaveDocument(context.Background(), d), errors.ErrNotFound)
	})
}

func TestListComments(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM application_comments`).
		WithArgs(int64(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "comment_text", "internal", "author", "created_at"}).
			AddRow(int64(1), int64(1001), "Not a duplicate", false, "ana.lopez", created))

	comments, err := store.ListComments(context.Background(), 1001)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Not a duplicate", comments[0].Text)
}

// ==========================
// Reference codes and tables
// ==========================

func TestLoadSet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM ref_codes\s+WHERE set_name = \$1 AND active`).
		WithArgs("relation").
		WillReturnRows(sqlmock.NewRows([]string{"code", "description"}).
			AddRow("SPOUSE", "Spouse").
			AddRow("OTHER", "Other"))

	codes, err := store.LoadSet(context.Background(), string(refdata.Relation))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"SPOUSE": "Spouse", "OTHER": "Other"}, codes)
}

func TestGetAmortization(t *testing.T) {
	rate := decimal.RequireFromString("6.5")

	t.Run("factors by term", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`FROM amortization_factors`).
			WithArgs(rate).
			WillReturnRows(sqlmock.NewRows([]string{"term_years", "factor"}).
				AddRow(15, "8.71107").
				AddRow(30, "6.32068"))

		row, err := store.GetAmortization(context.Background(), rate)
		require.NoError(t, err)
		assert.Len(t, row.Factors, 2)
		assert.Equal(t, "6.32068", row.Factors[30].String())
	})

	t.Run("unknown rate", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`FROM amortization_factors`).
			WillReturnRows(sqlmock.NewRows([]string{"term_years", "factor"}))

		_, err := store.GetAmortization(context.Background(), rate)
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestGetAmiConfig(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT income_ceiling FROM ami_configs WHERE year = \$1`).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"income_ceiling"}).AddRow("100000.00"))
	mock.ExpectQuery(`FROM ami_percentages`).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"household_size", "percentage"}).
			AddRow(1, "70").
			AddRow(4, "100"))

	cfg, err := store.GetAmiConfig(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, "100000", cfg.IncomeCeiling.String())
	assert.Equal(t, "70", cfg.Percentages[1].String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAmiConfig_MissingYear(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM ami_configs`).WithArgs(1999).WillReturnError(sql.ErrNoRows)

	_, err := store.GetAmiConfig(context.Background(), 1999)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
