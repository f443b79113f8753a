// internal/rules/household.go
package rules

import (
	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
)

const (
	RelationOther = "OTHER"
	VoucherOther  = "OTHER"
	AccountOther  = "OTHER"
)

// MinDate is the earliest accepted date of birth or ID issue date.
var MinDate = models.MustDate("1900-01-01")

// accountTypesWithNumber need an account number.
var accountTypesWithNumber = map[string]bool{
	"CHECKING":    true,
	"SAVINGS":     true,
	"BROKERAGE":   true,
	"CERTIFICATE": true,
	"MUTUAL_FUND": true,
	"RETIREMENT":  true,
}

// ValidateAddress checks the address answers. Unused blocks are cleared.
func ValidateAddress(h *models.HouseholdInfo) errors.ErrorCode {
	if !h.HasAddress {
		h.Address = models.Address{}
		h.DifferentMailingAddress = false
		h.MailingAddress = models.Address{}
		return ""
	}
	switch {
	case h.Address.Line1 == "":
		return errors.HouseholdAddressLine1Required
	case h.Address.City == "":
		return errors.HouseholdCityRequired
	case h.Address.State == "":
		return errors.HouseholdStateRequired
	case h.Address.Zip == "":
		return errors.HouseholdZipRequired
	}

	if !h.DifferentMailingAddress {
		h.MailingAddress = models.Address{}
		return ""
	}
	switch {
	case h.MailingAddress.Line1 == "":
		return errors.HouseholdMailingLine1Required
	case h.MailingAddress.City == "":
		return errors.HouseholdMailingCityRequired
	case h.MailingAddress.State == "":
		return errors.HouseholdMailingStateRequired
	case h.MailingAddress.Zip == "":
		return errors.HouseholdMailingZipRequired
	}
	return ""
}

// ValidateVoucher checks the housing voucher answers. Unused fields are cleared.
func ValidateVoucher(h *models.HouseholdInfo, dict refdata.Dictionary) errors.ErrorCode {
	if !h.HasVoucher {
		h.VoucherTypes = nil
		h.VoucherOther = ""
		h.VoucherAdmin = ""
		return ""
	}
	if len(h.VoucherTypes) == 0 {
		return errors.HouseholdVoucherTypeRequired
	}
	other := false
	for _, code := range h.VoucherTypes {
		if !dict.Has(refdata.VoucherType, code) {
			return errors.HouseholdVoucherTypeInvalid
		}
		if code == VoucherOther {
			other = true
		}
	}
	if other && h.VoucherOther == "" {
		return errors.HouseholdVoucherOtherRequired
	}
	if !other {
		h.VoucherOther = ""
	}
	if h.VoucherAdmin == "" {
		return errors.HouseholdVoucherAdminRequired
	}
	return ""
}

// ValidateMember checks a household member's fields. Duplicate detection is separate.
func ValidateMember(m *models.HouseholdMember, dict refdata.Dictionary) errors.ErrorCode {
	if !dict.Has(refdata.Relation, m.RelationTypeCd) {
		return errors.HouseholdRelationTypeInvalid
	}
	if m.RelationTypeCd == RelationOther {
		if m.RelationOther == "" {
			return errors.HouseholdRelationOtherRequired
		}
	} else {
		m.RelationOther = ""
	}

	switch {
	case m.FirstName == "":
		return errors.HouseholdMemberFirstNameRequired
	case m.LastName == "":
		return errors.HouseholdMemberLastNameRequired
	case m.Last4SSN == "":
		return errors.HouseholdMemberLast4SSNRequired
	case m.DOB.IsZero() || m.DOB.Before(MinDate):
		return errors.HouseholdMemberDOBInvalid
	}

	if m.IDTypeCd != "" {
		if !dict.Has(refdata.IDType, m.IDTypeCd) {
			return errors.HouseholdMemberIDTypeInvalid
		}
		if m.IDValue == "" {
			return errors.HouseholdMemberIDValueRequired
		}
		if !m.IDIssueDate.IsZero() && m.IDIssueDate.Before(MinDate) {
			return errors.HouseholdMemberIDIssueDateInvalid
		}
	}

	switch {
	case !dict.Has(refdata.Gender, m.GenderCd):
		return errors.HouseholdMemberGenderInvalid
	case !dict.Has(refdata.Race, m.RaceCd):
		return errors.HouseholdMemberRaceInvalid
	case !dict.Has(refdata.Ethnicity, m.EthnicityCd):
		return errors.HouseholdMemberEthnicityInvalid
	}

	if code := checkPhone(m.Phone, dict, errors.HouseholdMemberPhoneInvalid, errors.HouseholdMemberPhoneTypeInvalid); code != "" {
		return code
	}
	if code := checkPhone(m.AltPhone, dict, errors.HouseholdMemberAltPhoneInvalid, errors.HouseholdMemberAltPhoneTypeInvalid); code != "" {
		return code
	}

	if m.Email != "" && !validation.ValidateEmail(m.Email) {
		return errors.HouseholdMemberEmailInvalid
	}
	if m.AltEmail != "" {
		if !validation.ValidateEmail(m.AltEmail) {
			return errors.HouseholdMemberAltEmailInvalid
		}
		if sameText(m.Email, m.AltEmail) {
			return errors.HouseholdMemberEmailsMatch
		}
	}
	return ""
}

// checkPhone validates an optional phone: format first, then its type code.
func checkPhone(p models.Phone, dict refdata.Dictionary, invalid, badType errors.ErrorCode) errors.ErrorCode {
	if p.IsZero() {
		return ""
	}
	if !validation.ValidatePhone(p.Number, p.Extension) {
		return invalid
	}
	if !dict.Has(refdata.PhoneType, p.TypeCd) {
		return badType
	}
	return ""
}

// IsDuplicateMember reports whether m matches another member of members on relation,
// names, date of birth and last four of SSN. The member with m's id is skipped.
func IsDuplicateMember(m *models.HouseholdMember, members []models.HouseholdMember) bool {
	for i := range members {
		o := &members[i]
		if m.ID != 0 && o.ID == m.ID {
			continue
		}
		if sameText(o.RelationTypeCd, m.RelationTypeCd) &&
			sameText(o.FirstName, m.FirstName) &&
			sameText(o.MiddleName, m.MiddleName) &&
			sameText(o.LastName, m.LastName) &&
			sameText(o.Suffix, m.Suffix) &&
			o.DOB.Equal(m.DOB) &&
			sameText(o.Last4SSN, m.Last4SSN) {
			return true
		}
	}
	return false
}

// ValidateAccount checks a household account against the reference data and the household
// its primary holder must belong to. Duplicate detection is separate.
func ValidateAccount(a *models.HouseholdAccount, h *models.Household, dict refdata.Dictionary) errors.ErrorCode {
	if !dict.Has(refdata.AccountType, a.TypeCd) {
		return errors.HouseholdAccountTypeInvalid
	}
	if a.TypeCd == AccountOther {
		if a.TypeOther == "" {
			return errors.HouseholdAccountTypeOtherRequired
		}
	} else {
		a.TypeOther = ""
	}
	if accountTypesWithNumber[a.TypeCd] && a.AccountNumber == "" {
		return errors.HouseholdAccountNumberRequired
	}
	if a.InstitutionName == "" {
		return errors.HouseholdInstitutionNameRequired
	}
	if a.Value.IsNegative() {
		return errors.HouseholdAccountValueInvalid
	}
	if a.PrimaryHolderMemberID != models.ApplicantMemberID {
		if _, ok := h.Member(a.PrimaryHolderMemberID); !ok {
			return errors.HouseholdPrimaryHolderInvalid
		}
	}
	return ""
}

// IsDuplicateAccount reports whether a matches another account on type, type text,
// institution and, when a carries one, account number. The account with a's id is skipped.
func IsDuplicateAccount(a *models.HouseholdAccount, accounts []models.HouseholdAccount) bool {
	for i := range accounts {
		o := &accounts[i]
		if a.ID != 0 && o.ID == a.ID {
			continue
		}
		if !sameText(o.TypeCd, a.TypeCd) ||
			!sameText(o.TypeOther, a.TypeOther) ||
			!sameText(o.InstitutionName, a.InstitutionName) {
			continue
		}
		if a.AccountNumber != "" && !sameText(o.AccountNumber, a.AccountNumber) {
			continue
		}
		return true
	}
	return false
}
