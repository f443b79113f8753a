// internal/workers/application/submit-application/models.go
package submitapplication

type Input struct {
	Username      string `json:"username"`
	ApplicationID int64  `json:"applicationId"`
}

type Output struct {
	ApplicationID  int64  `json:"applicationId"`
	StatusCd       string `json:"statusCd"` // SUBMITTED or WAITLISTED
	Waitlisted     bool   `json:"waitlisted"`
	SubmittedAt    string `json:"submittedAt"` // ISO 8601
	ListingAddress string `json:"listingAddress"`
}
