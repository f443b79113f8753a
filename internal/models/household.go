// internal/models/household.go
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ApplicantMemberID denotes the primary applicant in member references. It is never a stored row.
const ApplicantMemberID int64 = 0

type Phone struct {
	Number    string `json:"number,omitempty"`
	Extension string `json:"extension,omitempty"`
	TypeCd    string `json:"typeCd,omitempty"`
}

func (p Phone) IsZero() bool { return p.Number == "" }

type Address struct {
	Line1 string `json:"line1,omitempty"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Zip   string `json:"zip,omitempty"`
}

func (a Address) IsZero() bool { return a == Address{} }

// Text renders the address on one line: "line1, line2, city, state zip".
func (a Address) Text() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Line1, a.Line2, a.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	tail := strings.TrimSpace(a.State + " " + a.Zip)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// Person holds identity, contact and demographic fields shared by the applicant and members.
type Person struct {
	FirstName   string `json:"firstName,omitempty"`
	MiddleName  string `json:"middleName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
	DOB         Date   `json:"dob"`
	Email       string `json:"email,omitempty"`
	AltEmail    string `json:"altEmail,omitempty"`
	Phone       Phone  `json:"phone"`
	AltPhone    Phone  `json:"altPhone"`
	GenderCd    string `json:"genderCd,omitempty"`
	RaceCd      string `json:"raceCd,omitempty"`
	EthnicityCd string `json:"ethnicityCd,omitempty"`
}

// FullName joins the non-empty name parts.
func (p Person) FullName() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName, p.Suffix} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ApplicantProfile is the registered user's own record, keyed by username.
type ApplicantProfile struct {
	Username string `json:"username"`
	Person
	IncomeValue     decimal.Decimal `json:"incomeValue"`
	RealEstateValue decimal.Decimal `json:"realEstateValue"`
}

// HouseholdInfo holds the shared address, voucher and live-in-aide answers.
type HouseholdInfo struct {
	HasAddress              bool     `json:"hasAddress"`
	Address                 Address  `json:"address"`
	DifferentMailingAddress bool     `json:"differentMailingAddress"`
	MailingAddress          Address  `json:"mailingAddress"`
	HasVoucher              bool     `json:"hasVoucher"`
	VoucherTypes            []string `json:"voucherTypes,omitempty"`
	VoucherOther            string   `json:"voucherOther,omitempty"`
	VoucherAdmin            string   `json:"voucherAdmin,omitempty"`
	LiveInAide              bool     `json:"liveInAide"`
}

type Household struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	HouseholdInfo
	Members  []HouseholdMember  `json:"members"`
	Accounts []HouseholdAccount `json:"accounts"`
}

// Member returns the stored member with id.
func (h *Household) Member(id int64) (*HouseholdMember, bool) {
	for i := range h.Members {
		if h.Members[i].ID == id {
			return &h.Members[i], true
		}
	}
	return nil, false
}

// Account returns the stored account with id.
func (h *Household) Account(id int64) (*HouseholdAccount, bool) {
	for i := range h.Accounts {
		if h.Accounts[i].ID == id {
			return &h.Accounts[i], true
		}
	}
	return nil, false
}

type HouseholdMember struct {
	ID             int64  `json:"id"`
	HouseholdID    int64  `json:"householdId"`
	RelationTypeCd string `json:"relationTypeCd"`
	RelationOther  string `json:"relationOther,omitempty"`
	Person
	Last4SSN        string          `json:"last4Ssn"`
	IDTypeCd        string          `json:"idTypeCd,omitempty"`
	IDValue         string          `json:"idValue,omitempty"`
	IDIssueDate     Date            `json:"idIssueDate"`
	IncomeValue     decimal.Decimal `json:"incomeValue"`
	RealEstateValue decimal.Decimal `json:"realEstateValue"`
}

type HouseholdAccount struct {
	ID                    int64           `json:"id"`
	HouseholdID           int64           `json:"householdId"`
	TypeCd                string          `json:"typeCd"`
	TypeOther             string          `json:"typeOther,omitempty"`
	InstitutionName       string          `json:"institutionName"`
	AccountNumber         string          `json:"accountNumber,omitempty"`
	Value                 decimal.Decimal `json:"value"`
	PrimaryHolderMemberID int64           `json:"primaryHolderMemberId"`
}
