// internal/workers/eligibility/calculate-listing-affordability/handler.go
package calculatelistingaffordability

import (
	"context"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/shopspring/decimal"
)

const (
	TaskType = "calculate-listing-affordability"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["listingId"],
	"properties": {
		"listingId": {"type": "integer", "minimum": 1},
		"ratePct": {"type": ["string", "number"]},
		"termYears": {"type": "integer", "minimum": 0}
	}
}`)

type Calculator interface {
	Affordability(ctx context.Context, listingID int64, ratePct decimal.Decimal, termYears int) ([]eligibility.Affordability, error)
}

type Handler struct {
	config  *Config
	service Calculator
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service Calculator, obs *observability.Observability, log logger.Logger) *Handler {
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
	units, err := h.service.Affordability(ctx, input.ListingID, input.RatePct, input.TermYears)
	if err != nil {
		return nil, err
	}
	if units == nil {
		units = []eligibility.Affordability{}
	}
	h.logger.Debug("affordability calculated", map[string]interface{}{
		"listingId": input.ListingID,
		"units":     len(units),
	})
	return &Output{ListingID: input.ListingID, Units: units}, nil
}
