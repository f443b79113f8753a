// internal/workers/household/save-household-member/models.go
package savehouseholdmember

import "housing-workers/internal/models"

// Input carries a member; member.id set means update.
type Input struct {
	Username string                 `json:"username"`
	Member   models.HouseholdMember `json:"member"`
}

type Output struct {
	MemberID    int64  `json:"memberId"`
	HouseholdID int64  `json:"householdId"`
	Name        string `json:"name"`
	Created     bool   `json:"created"`
}
