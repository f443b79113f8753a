// internal/workers/application/assemble-application-review/models.go
package assembleapplicationreview

import "housing-workers/internal/lifecycle"

type Input struct {
	Username      string `json:"username"`
	ApplicationID int64  `json:"applicationId"`
}

type Output struct {
	Review *lifecycle.ReviewView `json:"review"`
}
