// internal/workers/application/assemble-application-review/handler.go
package assembleapplicationreview

import (
	"context"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/lifecycle"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assemble-application-review"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "applicationId"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"applicationId": {"type": "integer", "minimum": 1}
	}
}`)

type Reviewer interface {
	Review(ctx context.Context, username string, applicationID int64) (*lifecycle.ReviewView, error)
}

type Handler struct {
	config  *Config
	service Reviewer
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service Reviewer, obs *observability.Observability, log logger.Logger) *Handler {
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
	view, err := h.service.Review(ctx, validation.Clean(input.Username), input.ApplicationID)
	if err != nil {
		return nil, err
	}
	// Document bytes never travel in process variables; the view carries metadata only.
	for i := range view.Documents {
		view.Documents[i].Content = nil
	}
	return &Output{Review: view}, nil
}
