// internal/workers/application/resolve-application-draft/models.go
package resolveapplicationdraft

import "housing-workers/internal/models"

type Input struct {
	Username      string `json:"username"`
	ListingID     int64  `json:"listingId"`
	ApplicationID int64  `json:"applicationId,omitempty"`
}

type Output struct {
	ApplicationID int64                      `json:"applicationId"` // 0 until the first step is saved
	StatusCd      string                     `json:"statusCd"`
	Existing      bool                       `json:"existing"`
	Application   *models.HousingApplication `json:"application"`
}
