// internal/workers/household/remove-household-account/models.go
package removehouseholdaccount

type Input struct {
	Username  string `json:"username"`
	AccountID int64  `json:"accountId"`
}

type Output struct {
	AccountID int64 `json:"accountId"`
	Removed   bool  `json:"removed"`
}
