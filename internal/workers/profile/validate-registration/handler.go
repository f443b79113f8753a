// internal/workers/profile/validate-registration/handler.go
package validateregistration

import (
	"context"
	"strings"

	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"
	"housing-workers/internal/rules"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-registration"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "email", "password", "confirmPassword"],
	"properties": {
		"username": {"type": "string"},
		"email": {"type": "string"},
		"password": {"type": "string"},
		"confirmPassword": {"type": "string"}
	}
}`)

type Handler struct {
	config *Config
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		runner: camunda.NewRunner(TaskType, config.Timeout, inputSchema, obs, log),
		logger: log,
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

// Execute checks the sign-up fields in order and fails with the first violated rule.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	username := validation.Clean(input.Username)
	email := strings.ToLower(validation.Clean(input.Email))
	if code := rules.ValidateRegistration(username, email, input.Password, input.ConfirmPassword); code != "" {
		h.logger.Debug("registration rejected", map[string]interface{}{"code": code})
		return nil, errors.New(code, "")
	}
	return &Output{Valid: true, Username: username, Email: email}, nil
}
