// internal/rules/application.go
package rules

import (
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
)

// leadTypesWithText need a free-text explanation.
var leadTypesWithText = map[string]bool{
	"WEBSITE":      true,
	"NEWSPAPERART": true,
	"OTHER":        true,
}

// LeadNeedsText reports whether the lead type carries an explanation.
func LeadNeedsText(code string) bool { return leadTypesWithText[code] }

// ValidateApplicant checks the applicant info step.
func ValidateApplicant(p *models.Person, dict refdata.Dictionary, now time.Time) errors.ErrorCode {
	switch {
	case p.FirstName == "":
		return errors.ProfileFirstNameRequired
	case p.LastName == "":
		return errors.ProfileLastNameRequired
	}
	for _, n := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if n != "" && !validation.ValidateName(n) {
			return errors.ProfileNameInvalid
		}
	}
	if p.DOB.IsZero() || p.DOB.Before(MinDate) || p.DOB.After(now) {
		return errors.ProfileDOBInvalid
	}

	switch {
	case p.Email == "":
		return errors.ProfileEmailRequired
	case !validation.ValidateEmail(p.Email):
		return errors.ProfileEmailInvalid
	}
	if p.AltEmail != "" {
		if !validation.ValidateEmail(p.AltEmail) {
			return errors.ProfileAltEmailInvalid
		}
		if sameText(p.Email, p.AltEmail) {
			return errors.ProfileEmailsMatch
		}
	}

	if code := checkPhone(p.Phone, dict, errors.ProfilePhoneInvalid, errors.ProfilePhoneTypeInvalid); code != "" {
		return code
	}
	if code := checkPhone(p.AltPhone, dict, errors.ProfileAltPhoneInvalid, errors.ProfileAltPhoneTypeInvalid); code != "" {
		return code
	}

	// demographics are optional for the applicant but must resolve when answered
	switch {
	case p.GenderCd != "" && !dict.Has(refdata.Gender, p.GenderCd):
		return errors.ProfileGenderInvalid
	case p.RaceCd != "" && !dict.Has(refdata.Race, p.RaceCd):
		return errors.ProfileRaceInvalid
	case p.EthnicityCd != "" && !dict.Has(refdata.Ethnicity, p.EthnicityCd):
		return errors.ProfileEthnicityInvalid
	}
	return ""
}

// ValidateUnitSelection requires at least one unit type, each offered by the listing.
func ValidateUnitSelection(unitTypes []string, listing *models.Listing) errors.ErrorCode {
	if len(unitTypes) == 0 {
		return errors.ApplicationUnitTypeRequired
	}
	for _, u := range unitTypes {
		if !listing.OffersUnitType(u) {
			return errors.ApplicationUnitTypeInvalid
		}
	}
	return ""
}

// ValidateLeadSource checks where the applicant heard about the listing.
func ValidateLeadSource(code, other string, dict refdata.Dictionary) errors.ErrorCode {
	if !dict.Has(refdata.LeadType, code) {
		return errors.ApplicationLeadTypeInvalid
	}
	if LeadNeedsText(code) && other == "" {
		return errors.ApplicationLeadOtherRequired
	}
	return ""
}

// ValidateRegistration checks the account sign-up fields.
func ValidateRegistration(username, email, password, confirm string) errors.ErrorCode {
	switch {
	case !validation.ValidateUsername(username):
		return errors.RegistrationUsernameInvalid
	case !validation.ValidateEmail(email):
		return errors.RegistrationEmailInvalid
	case !validation.ValidatePassword(password):
		return errors.RegistrationPasswordInvalid
	case password != confirm:
		return errors.RegistrationPasswordMismatch
	}
	return ""
}
