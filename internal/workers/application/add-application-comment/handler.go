// internal/workers/application/add-application-comment/handler.go
package addapplicationcomment

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
	TaskType = "add-application-comment"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "applicationId", "text"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"applicationId": {"type": "integer", "minimum": 1},
		"text": {"type": "string"}
	}
}`)

type Commenter interface {
	AddComment(ctx context.Context, username string, applicationID int64, text string) (*models.ApplicationComment, error)
}

type Handler struct {
	config  *Config
	service Commenter
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service Commenter, obs *observability.Observability, log logger.Logger) *Handler {
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
	c, err := h.service.AddComment(ctx, validation.Clean(input.Username), input.ApplicationID, input.Text)
	if err != nil {
		return nil, err
	}
	return &Output{
		CommentID: c.ID,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
