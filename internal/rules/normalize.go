// Package rules holds the per-step validation and duplicate detection of the housing
// application. Validators return a result code; the empty code means the input passed.
package rules

import (
	"strings"

	"housing-workers/internal/common/validation"
	"housing-workers/internal/models"
)

// NormalizePerson trims every string field in place.
func NormalizePerson(p *models.Person) {
	p.FirstName = validation.Clean(p.FirstName)
	p.MiddleName = validation.Clean(p.MiddleName)
	p.LastName = validation.Clean(p.LastName)
	p.Suffix = validation.Clean(p.Suffix)
	p.Email = validation.Clean(p.Email)
	p.AltEmail = validation.Clean(p.AltEmail)
	normalizePhone(&p.Phone)
	normalizePhone(&p.AltPhone)
	p.GenderCd = validation.Clean(p.GenderCd)
	p.RaceCd = validation.Clean(p.RaceCd)
	p.EthnicityCd = validation.Clean(p.EthnicityCd)
}

func normalizePhone(p *models.Phone) {
	p.Number = validation.Clean(p.Number)
	p.Extension = validation.Clean(p.Extension)
	p.TypeCd = validation.Clean(p.TypeCd)
	if p.Number == "" {
		*p = models.Phone{}
	}
}

func normalizeAddress(a *models.Address) {
	a.Line1 = validation.Clean(a.Line1)
	a.Line2 = validation.Clean(a.Line2)
	a.City = validation.Clean(a.City)
	a.State = strings.ToUpper(validation.Clean(a.State))
	a.Zip = validation.Clean(a.Zip)
}

// NormalizeHouseholdInfo trims the address and voucher answers in place.
func NormalizeHouseholdInfo(h *models.HouseholdInfo) {
	normalizeAddress(&h.Address)
	normalizeAddress(&h.MailingAddress)
	h.VoucherTypes = validation.CleanAll(h.VoucherTypes)
	h.VoucherOther = validation.Clean(h.VoucherOther)
	h.VoucherAdmin = validation.Clean(h.VoucherAdmin)
}

// NormalizeMember trims every string field of m in place.
func NormalizeMember(m *models.HouseholdMember) {
	m.RelationTypeCd = validation.Clean(m.RelationTypeCd)
	m.RelationOther = validation.Clean(m.RelationOther)
	NormalizePerson(&m.Person)
	m.Last4SSN = validation.Clean(m.Last4SSN)
	m.IDTypeCd = validation.Clean(m.IDTypeCd)
	m.IDValue = validation.Clean(m.IDValue)
}

// NormalizeAccount trims every string field of a in place.
func NormalizeAccount(a *models.HouseholdAccount) {
	a.TypeCd = validation.Clean(a.TypeCd)
	a.TypeOther = validation.Clean(a.TypeOther)
	a.InstitutionName = validation.Clean(a.InstitutionName)
	a.AccountNumber = validation.Clean(a.AccountNumber)
}

// sameText compares two values case-insensitively, treating surrounding blanks as absent.
func sameText(a, b string) bool {
	return strings.EqualFold(validation.Clean(a), validation.Clean(b))
}
