// internal/workers/application/submit-application/handler.go
package submitapplication

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
	TaskType = "submit-application"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "applicationId"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"applicationId": {"type": "integer", "minimum": 1}
	}
}`)

type Submitter interface {
	Submit(ctx context.Context, username string, applicationID int64) (*models.HousingApplication, error)
}

type Handler struct {
	config  *Config
	service Submitter
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service Submitter, obs *observability.Observability, log logger.Logger) *Handler {
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
	app, err := h.service.Submit(ctx, validation.Clean(input.Username), input.ApplicationID)
	if err != nil {
		return nil, err
	}

	out := &Output{
		ApplicationID: app.ID,
		StatusCd:      app.StatusCd,
		Waitlisted:    app.StatusCd == models.StatusWaitlisted,
	}
	if app.SubmittedAt != nil {
		out.SubmittedAt = app.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if app.ListingAddressSnapshot != nil {
		out.ListingAddress = app.ListingAddressSnapshot.Text()
	}
	return out, nil
}
