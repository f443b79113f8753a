// internal/workers/household/save-household-member/handler.go
package savehouseholdmember

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
	TaskType = "save-household-member"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "member"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"member": {
			"type": "object",
			"properties": {
				"id": {"type": "integer", "minimum": 0},
				"dob": {"type": ["string", "null"]},
				"idIssueDate": {"type": ["string", "null"]},
				"incomeValue": {"type": ["string", "number"]},
				"realEstateValue": {"type": ["string", "number"]}
			}
		}
	}
}`)

type MemberSaver interface {
	SaveMember(ctx context.Context, username string, m *models.HouseholdMember) (*models.HouseholdMember, error)
}

type Handler struct {
	config  *Config
	service MemberSaver
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service MemberSaver, obs *observability.Observability, log logger.Logger) *Handler {
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
	created := input.Member.ID == 0
	m, err := h.service.SaveMember(ctx, validation.Clean(input.Username), &input.Member)
	if err != nil {
		return nil, err
	}
	return &Output{
		MemberID:    m.ID,
		HouseholdID: m.HouseholdID,
		Name:        m.FullName(),
		Created:     created,
	}, nil
}
