// internal/workers/application/add-application-comment/models.go
package addapplicationcomment

type Input struct {
	Username      string `json:"username"`
	ApplicationID int64  `json:"applicationId"`
	Text          string `json:"text"`
}

type Output struct {
	CommentID int64  `json:"commentId"`
	CreatedAt string `json:"createdAt"` // ISO 8601
}
