// internal/workers/eligibility/calculate-ami-limits/handler.go
package calculateamilimits

import (
	"context"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-ami-limits"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["year"],
	"properties": {
		"year": {"type": "integer", "minimum": 2000},
		"householdSizes": {
			"type": "array",
			"items": {"type": "integer", "minimum": 1}
		}
	}
}`)

type LimitCalculator interface {
	AmiLimits(ctx context.Context, year int, sizes []int) ([]eligibility.AmiLimit, error)
}

type Handler struct {
	config  *Config
	service LimitCalculator
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service LimitCalculator, obs *observability.Observability, log logger.Logger) *Handler {
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

// Execute returns the limits for the requested sizes, or for every configured size when
// none are given. Sizes the year does not configure are left out.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	limits, err := h.service.AmiLimits(ctx, input.Year, input.HouseholdSizes)
	if err != nil {
		return nil, err
	}
	if limits == nil {
		limits = []eligibility.AmiLimit{}
	}
	return &Output{Year: input.Year, Limits: limits}, nil
}
