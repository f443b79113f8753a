// internal/workers/household/remove-household-account/handler.go
package removehouseholdaccount

import (
	"context"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "remove-household-account"
)

// Account ids start at 1.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "accountId"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"accountId": {"type": "integer", "minimum": 1}
	}
}`)

type AccountRemover interface {
	DeleteAccount(ctx context.Context, username string, accountID int64) error
}

type Handler struct {
	config  *Config
	service AccountRemover
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service AccountRemover, obs *observability.Observability, log logger.Logger) *Handler {
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

// Execute removes one account from the household.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.service.DeleteAccount(ctx, validation.Clean(input.Username), input.AccountID); err != nil {
		return nil, err
	}
	h.logger.Info("household account removed", map[string]interface{}{"accountId": input.AccountID})
	return &Output{AccountID: input.AccountID, Removed: true}, nil
}
