// internal/workers/household/remove-household-member/handler.go
package removehouseholdmember

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
	TaskType = "remove-household-member"
)

// Member 0 is the applicant and cannot be removed.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "memberId"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"memberId": {"type": "integer", "minimum": 1}
	}
}`)

type MemberRemover interface {
	DeleteMember(ctx context.Context, username string, memberID int64) error
}

type Handler struct {
	config  *Config
	service MemberRemover
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service MemberRemover, obs *observability.Observability, log logger.Logger) *Handler {
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

// Execute removes the member and the accounts they are the primary holder of.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.service.DeleteMember(ctx, validation.Clean(input.Username), input.MemberID); err != nil {
		return nil, err
	}
	h.logger.Info("household member removed", map[string]interface{}{"memberId": input.MemberID})
	return &Output{MemberID: input.MemberID, Removed: true}, nil
}
