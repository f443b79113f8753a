// internal/models/listing.go
package models

import "time"

// Window is an open interval of dates during which a listing accepts submissions.
// A window without a start date is not configured.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Open reports whether now falls within the window, inclusive at both ends.
func (w Window) Open(now time.Time) bool {
	if w.Start == nil || now.Before(*w.Start) {
		return false
	}
	return w.End == nil || !now.After(*w.End)
}

type Unit struct {
	ID                 int64  `json:"id"`
	UnitTypeCd         string `json:"unitTypeCd"`
	EstimatedPrice     int64  `json:"estimatedPrice"`
	Subsidy            int64  `json:"subsidy"`
	MonthlyTaxes       int64  `json:"monthlyTaxes"`
	MonthlyMaintenance int64  `json:"monthlyMaintenance"`
	MonthlyInsurance   int64  `json:"monthlyInsurance"`
}

// Listing is a housing opportunity. It is read-only to the application engine.
type Listing struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Address       Address  `json:"address"`
	UnitTypes     []string `json:"unitTypes"`
	Application   Window   `json:"applicationWindow"`
	Waitlist      Window   `json:"waitlistWindow"`
	DocumentTypes []string `json:"documentTypes,omitempty"`
	Units         []Unit   `json:"units,omitempty"`
}

// OffersUnitType reports whether code is one of the listing's unit types.
func (l *Listing) OffersUnitType(code string) bool {
	for _, u := range l.UnitTypes {
		if u == code {
			return true
		}
	}
	return false
}
