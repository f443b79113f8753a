// internal/workers/household/save-household-account/models.go
package savehouseholdaccount

import "housing-workers/internal/models"

type Input struct {
	Username string                  `json:"username"`
	Account  models.HouseholdAccount `json:"account"`
}

type Output struct {
	AccountID             int64  `json:"accountId"`
	HouseholdID           int64  `json:"householdId"`
	PrimaryHolderMemberID int64  `json:"primaryHolderMemberId"`
	Value                 string `json:"value"`
}
