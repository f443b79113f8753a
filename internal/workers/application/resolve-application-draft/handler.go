// internal/workers/application/resolve-application-draft/handler.go
package resolveapplicationdraft

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
	TaskType = "resolve-application-draft"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "listingId"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"listingId": {"type": "integer", "minimum": 1},
		"applicationId": {"type": "integer", "minimum": 0}
	}
}`)

type Resolver interface {
	ResolveDraft(ctx context.Context, username string, listingID, applicationID int64) (*lifecycle.Draft, error)
}

type Handler struct {
	config  *Config
	service Resolver
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service Resolver, obs *observability.Observability, log logger.Logger) *Handler {
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

// Execute returns the application the user should continue: the one named by
// applicationId, the active one for the listing, or a new unsaved draft.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	draft, err := h.service.ResolveDraft(ctx, validation.Clean(input.Username), input.ListingID, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	return &Output{
		ApplicationID: draft.Application.ID,
		StatusCd:      draft.Application.StatusCd,
		Existing:      draft.Existing,
		Application:   draft.Application,
	}, nil
}
