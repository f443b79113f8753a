// internal/workers/eligibility/calculate-ami-limits/models.go
package calculateamilimits

import "housing-workers/internal/eligibility"

type Input struct {
	Year           int   `json:"year"`
	HouseholdSizes []int `json:"householdSizes,omitempty"`
}

type Output struct {
	Year   int                    `json:"year"`
	Limits []eligibility.AmiLimit `json:"limits"`
}
