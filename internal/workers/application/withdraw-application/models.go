// internal/workers/application/withdraw-application/models.go
package withdrawapplication

type Input struct {
	Username      string `json:"username"`
	ApplicationID int64  `json:"applicationId"`
}

type Output struct {
	ApplicationID int64  `json:"applicationId"`
	StatusCd      string `json:"statusCd"`
	WithdrawnAt   string `json:"withdrawnAt"` // ISO 8601
}
