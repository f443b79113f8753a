// internal/workers/application/attach-application-document/models.go
package attachapplicationdocument

// Input carries one upload. Content is base64 in the job variables.
type Input struct {
	Username       string `json:"username"`
	ApplicationID  int64  `json:"applicationId"`
	DocumentID     int64  `json:"documentId,omitempty"` // replaces that document when set
	DocumentTypeCd string `json:"documentTypeCd"`
	DocumentName   string `json:"documentName"`
	FileName       string `json:"fileName"`
	Content        []byte `json:"content"`
}

type Output struct {
	DocumentID  int64  `json:"documentId"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploadedAt"` // ISO 8601
}
