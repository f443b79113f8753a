// internal/store/postgres/profiles.go
package postgres

import (
	"context"

	"housing-workers/internal/models"
)

const selectProfile = `
	SELECT username,
	       COALESCE(first_name, ''), COALESCE(middle_name, ''), COALESCE(last_name, ''), COALESCE(suffix, ''),
	       dob,
	       COALESCE(email, ''), COALESCE(alt_email, ''),
	       COALESCE(phone, ''), COALESCE(phone_ext, ''), COALESCE(phone_type_cd, ''),
	       COALESCE(alt_phone, ''), COALESCE(alt_phone_ext, ''), COALESCE(alt_phone_type_cd, ''),
	       COALESCE(gender_cd, ''), COALESCE(race_cd, ''), COALESCE(ethnicity_cd, ''),
	       income_value, real_estate_value
	FROM profiles
	WHERE username = $1`

// GetProfile loads the registered user's own record.
func (s *Store) GetProfile(ctx context.Context, username string) (*models.ApplicantProfile, error) {
	var p models.ApplicantProfile
	err := s.db.QueryRowContext(ctx, selectProfile, username).Scan(
		&p.Username,
		&p.FirstName, &p.MiddleName, &p.LastName, &p.Suffix,
		&p.DOB,
		&p.Email, &p.AltEmail,
		&p.Phone.Number, &p.Phone.Extension, &p.Phone.TypeCd,
		&p.AltPhone.Number, &p.AltPhone.Extension, &p.AltPhone.TypeCd,
		&p.GenderCd, &p.RaceCd, &p.EthnicityCd,
		&p.IncomeValue, &p.RealEstateValue,
	)
	if err != nil {
		return nil, classify("get profile", err)
	}
	return &p, nil
}
