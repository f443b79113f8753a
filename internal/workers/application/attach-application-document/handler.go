// internal/workers/application/attach-application-document/handler.go
package attachapplicationdocument

import (
	"context"
	"time"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "attach-application-document"
)

// File name, type and size rules are result codes, so the schema only checks shape.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "applicationId"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"applicationId": {"type": "integer", "minimum": 1},
		"documentId": {"type": "integer", "minimum": 0},
		"documentTypeCd": {"type": "string"},
		"documentName": {"type": "string"},
		"fileName": {"type": "string"},
		"content": {"type": ["string", "null"]}
	}
}`)

type Attacher interface {
	AttachDocument(ctx context.Context, username string, applicationID int64, doc *models.ApplicationDocument) (*models.ApplicationDocument, error)
}

type Handler struct {
	config  *Config
	service Attacher
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service Attacher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		service: service,
		runner:  camunda.NewRunner(TaskType, config.Timeout, inputSchema, obs, log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context) (interface{}, error) {
		var input Input
		if err := h.runner.Decode(job.Variables, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc, err := h.service.AttachDocument(ctx, validation.Clean(input.Username), input.ApplicationID, &models.ApplicationDocument{
		ID:             input.DocumentID,
		DocumentTypeCd: input.DocumentTypeCd,
		DocumentName:   input.DocumentName,
		FileName:       input.FileName,
		Content:        input.Content,
	})
	if err != nil {
		return nil, err
	}
	out := &Output{
		DocumentID:  doc.ID,
		ContentType: doc.ContentType,
		Size:        doc.Size,
	}
	if !doc.CreatedAt.IsZero() {
		out.UploadedAt = doc.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}
