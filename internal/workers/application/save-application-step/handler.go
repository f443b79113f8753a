// internal/workers/application/save-application-step/handler.go
package saveapplicationstep

import (
	"context"
	"strings"
	"time"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/lifecycle"
	"housing-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "save-application-step"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "listingId", "step"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"listingId": {"type": "integer", "minimum": 1},
		"applicationId": {"type": "integer", "minimum": 0},
		"step": {"type": "string", "minLength": 1},
		"applicant": {"type": ["object", "null"]},
		"household": {"type": ["object", "null"]},
		"unitTypes": {"type": ["array", "null"], "items": {"type": "string"}},
		"memberIds": {"type": "string"}
	}
}`)

type StepSaver interface {
	SaveStep(ctx context.Context, req *lifecycle.StepRequest) (*models.HousingApplication, error)
}

type Handler struct {
	config  *Config
	service StepSaver
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, service StepSaver, obs *observability.Observability, log logger.Logger) *Handler {
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
	app, err := h.service.SaveStep(ctx, &lifecycle.StepRequest{
		Username:      validation.Clean(input.Username),
		ListingID:     input.ListingID,
		ApplicationID: input.ApplicationID,
		Step:          lifecycle.StepKind(strings.ToUpper(validation.Clean(input.Step))),
		Applicant:     input.Applicant,
		LeadTypeCd:    input.LeadTypeCd,
		LeadOther:     input.LeadOther,
		Household:     input.Household,
		UnitTypes:     input.UnitTypes,
		MemberIDs:     input.MemberIDs,
	})
	if err != nil {
		return nil, err
	}
	return &Output{
		ApplicationID:   app.ID,
		StatusCd:        app.StatusCd,
		MemberIDs:       app.MemberIDs,
		AccountIDs:      app.AccountIDs,
		TotalIncome:     app.TotalIncome,
		TotalAssets:     app.TotalAssets,
		TotalRealEstate: app.TotalRealEstate,
		UpdatedAt:       app.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}
