// internal/workers/household/save-household-account/handler.go
package savehouseholdaccount

import (
	"context"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "save-household-account"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "account"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"account": {
			"type": "object",
			"properties": {
				"id": {"type": "integer", "minimum": 0},
				"primaryHolderMemberId": {"type": "integer", "minimum": 0},
				"value": {"type": ["string", "number"]}
			}
		}
	}
}`)

type AccountSaver interface {
	SaveAccount(ctx context.Context, username string, a *models.HouseholdAccount) (*models.HouseholdAccount, error)
}

type Handler struct {
	config  *Config
	service AccountSaver
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service AccountSaver, obs *observability.Observability, log logger.Logger) *Handler {
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
	a, err := h.service.SaveAccount(ctx, validation.Clean(input.Username), &input.Account)
	if err != nil {
		return nil, err
	}
	return &Output{
		AccountID:             a.ID,
		HouseholdID:           a.HouseholdID,
		PrimaryHolderMemberID: a.PrimaryHolderMemberID,
		Value:                 a.Value.StringFixed(2),
	}, nil
}
