// internal/store/postgres/households.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"housing-workers/internal/common/database"
	"housing-workers/internal/models"
)

const memberColumns = `
	id, household_id, relation_type_cd, COALESCE(relation_other, ''),
	first_name, COALESCE(middle_name, ''), last_name, COALESCE(suffix, ''),
	dob, last4_ssn, COALESCE(id_type_cd, ''), COALESCE(id_value, ''), id_issue_date,
	COALESCE(gender_cd, ''), COALESCE(race_cd, ''), COALESCE(ethnicity_cd, ''),
	COALESCE(phone, ''), COALESCE(phone_ext, ''), COALESCE(phone_type_cd, ''),
	COALESCE(alt_phone, ''), COALESCE(alt_phone_ext, ''), COALESCE(alt_phone_type_cd, ''),
	COALESCE(email, ''), COALESCE(alt_email, ''),
	income_value, real_estate_value`

const accountColumns = `
	id, household_id, account_type_cd, COALESCE(account_type_other, ''), institution_name,
	COALESCE(account_number, ''), account_value, primary_holder_member_id`

// GetHousehold loads a user's household with its members and accounts in insertion order.
func (s *Store) GetHousehold(ctx context.Context, username string) (*models.Household, error) {
	var (
		h    models.Household
		info []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, info FROM households WHERE username = $1`, username,
	).Scan(&h.ID, &h.Username, &info)
	if err != nil {
		return nil, classify("get household", err)
	}
	if len(info) > 0 {
		if err := json.Unmarshal(info, &h.HouseholdInfo); err != nil {
			return nil, fmt.Errorf("decode household info %d: %w", h.ID, err)
		}
	}

	if h.Members, err = s.listMembers(ctx, h.ID); err != nil {
		return nil, err
	}
	if h.Accounts, err = s.listAccounts(ctx, h.ID); err != nil {
		return nil, err
	}
	return &h, nil
}

// EnsureHousehold returns the user's household, creating an empty one on first use.
func (s *Store) EnsureHousehold(ctx context.Context, username string) (*models.Household, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO households (username) VALUES ($1) ON CONFLICT (username) DO NOTHING`, username)
	if err != nil {
		return nil, classify("ensure household", err)
	}
	return s.GetHousehold(ctx, username)
}

func (s *Store) listMembers(ctx context.Context, householdID int64) ([]models.HouseholdMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM household_members WHERE household_id = $1 ORDER BY id`, householdID)
	if err != nil {
		return nil, classify("list members", err)
	}
	defer rows.Close()

	var members []models.HouseholdMember
	for rows.Next() {
		var m models.HouseholdMember
		if err := rows.Scan(
			&m.ID, &m.HouseholdID, &m.RelationTypeCd, &m.RelationOther,
			&m.FirstName, &m.MiddleName, &m.LastName, &m.Suffix,
			&m.DOB, &m.Last4SSN, &m.IDTypeCd, &m.IDValue, &m.IDIssueDate,
			&m.GenderCd, &m.RaceCd, &m.EthnicityCd,
			&m.Phone.Number, &m.Phone.Extension, &m.Phone.TypeCd,
			&m.AltPhone.Number, &m.AltPhone.Extension, &m.AltPhone.TypeCd,
			&m.Email, &m.AltEmail,
			&m.IncomeValue, &m.RealEstateValue,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) listAccounts(ctx context.Context, householdID int64) ([]models.HouseholdAccount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM household_accounts WHERE household_id = $1 ORDER BY id`, householdID)
	if err != nil {
		return nil, classify("list accounts", err)
	}
	defer rows.Close()

	var accounts []models.HouseholdAccount
	for rows.Next() {
		var a models.HouseholdAccount
		if err := rows.Scan(
			&a.ID, &a.HouseholdID, &a.TypeCd, &a.TypeOther, &a.InstitutionName,
			&a.AccountNumber, &a.Value, &a.PrimaryHolderMemberID,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func memberArgs(m *models.HouseholdMember) []interface{} {
	return []interface{}{
		m.RelationTypeCd, nullIfEmpty(m.RelationOther),
		m.FirstName, nullIfEmpty(m.MiddleName), m.LastName, nullIfEmpty(m.Suffix),
		m.DOB, m.Last4SSN, nullIfEmpty(m.IDTypeCd), nullIfEmpty(m.IDValue), m.IDIssueDate,
		nullIfEmpty(m.GenderCd), nullIfEmpty(m.RaceCd), nullIfEmpty(m.EthnicityCd),
		nullIfEmpty(m.Phone.Number), nullIfEmpty(m.Phone.Extension), nullIfEmpty(m.Phone.TypeCd),
		nullIfEmpty(m.AltPhone.Number), nullIfEmpty(m.AltPhone.Extension), nullIfEmpty(m.AltPhone.TypeCd),
		nullIfEmpty(m.Email), nullIfEmpty(m.AltEmail),
		m.IncomeValue, m.RealEstateValue,
	}
}

// UpsertMember inserts m when it has no id, assigning one, and updates it otherwise.
func (s *Store) UpsertMember(ctx context.Context, householdID int64, m *models.HouseholdMember) error {
	args := memberArgs(m)
	if m.ID == 0 {
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO household_members (
				relation_type_cd, relation_other, first_name, middle_name, last_name, suffix,
				dob, last4_ssn, id_type_cd, id_value, id_issue_date,
				gender_cd, race_cd, ethnicity_cd,
				phone, phone_ext, phone_type_cd, alt_phone, alt_phone_ext, alt_phone_type_cd,
				email, alt_email, income_value, real_estate_value, household_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			          $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
			RETURNING id`,
			append(args, householdID)...,
		).Scan(&m.ID)
		if err != nil {
			return classify("insert member", err)
		}
		m.HouseholdID = householdID
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE household_members SET
			relation_type_cd = $1, relation_other = $2, first_name = $3, middle_name = $4,
			last_name = $5, suffix = $6, dob = $7, last4_ssn = $8, id_type_cd = $9,
			id_value = $10, id_issue_date = $11, gender_cd = $12, race_cd = $13,
			ethnicity_cd = $14, phone = $15, phone_ext = $16, phone_type_cd = $17,
			alt_phone = $18, alt_phone_ext = $19, alt_phone_type_cd = $20, email = $21,
			alt_email = $22, income_value = $23, real_estate_value = $24, updated_at = now()
		WHERE household_id = $25 AND id = $26`,
		append(args, householdID, m.ID)...,
	)
	if err != nil {
		return classify("update member", err)
	}
	return mustAffect("update member", res)
}

// UpsertAccount inserts a when it has no id, assigning one, and updates it otherwise.
func (s *Store) UpsertAccount(ctx context.Context, householdID int64, a *models.HouseholdAccount) error {
	args := []interface{}{
		a.TypeCd, nullIfEmpty(a.TypeOther), a.InstitutionName, nullIfEmpty(a.AccountNumber),
		a.Value, a.PrimaryHolderMemberID, householdID,
	}
	if a.ID == 0 {
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO household_accounts (
				account_type_cd, account_type_other, institution_name, account_number,
				account_value, primary_holder_member_id, household_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`, args...,
		).Scan(&a.ID)
		if err != nil {
			return classify("insert account", err)
		}
		a.HouseholdID = householdID
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE household_accounts SET
			account_type_cd = $1, account_type_other = $2, institution_name = $3,
			account_number = $4, account_value = $5, primary_holder_member_id = $6,
			updated_at = now()
		WHERE household_id = $7 AND id = $8`,
		append(args, a.ID)...,
	)
	if err != nil {
		return classify("update account", err)
	}
	return mustAffect("update account", res)
}

// DeleteMember removes a member and the accounts they are the primary holder of.
func (s *Store) DeleteMember(ctx context.Context, householdID, memberID int64) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM household_accounts WHERE household_id = $1 AND primary_holder_member_id = $2`,
			householdID, memberID,
		); err != nil {
			return classify("delete member accounts", err)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM household_members WHERE household_id = $1 AND id = $2`, householdID, memberID)
		if err != nil {
			return classify("delete member", err)
		}
		return mustAffect("delete member", res)
	})
}

func (s *Store) DeleteAccount(ctx context.Context, householdID, accountID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM household_accounts WHERE household_id = $1 AND id = $2`, householdID, accountID)
	if err != nil {
		return classify("delete account", err)
	}
	return mustAffect("delete account", res)
}
