// internal/workers/household/remove-household-member/models.go
package removehouseholdmember

type Input struct {
	Username string `json:"username"`
	MemberID int64  `json:"memberId"`
}

type Output struct {
	MemberID int64 `json:"memberId"`
	Removed  bool  `json:"removed"`
}
