// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/metrics"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "housing-workers/camunda"

// JobFunc executes one job and returns the variables to complete it with.
type JobFunc func(ctx context.Context) (interface{}, error)

// Runner holds the job plumbing shared by every worker: input schema check, timeout,
// completion, result-code reporting and metrics.
type Runner struct {
	taskType string
	timeout  time.Duration
	schema   *validation.Schema
	errs     *errors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

func NewRunner(taskType string, timeout time.Duration, schema *validation.Schema, obs *observability.Observability, log logger.Logger) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		taskType: taskType,
		timeout:  timeout,
		schema:   schema,
		errs:     errors.NewErrorHandler(log),
		obs:      obs,
		logger:   log,
	}
}

// Decode validates the job variables against the runner's schema and unmarshals them into v.
func (r *Runner) Decode(variables string, v interface{}) error {
	if r.schema != nil {
		if res := r.schema.Validate(variables); !res.Valid {
			return errors.New(errors.JobInputInvalid, res.Error().Error())
		}
	}
	if err := json.Unmarshal([]byte(variables), v); err != nil {
		return errors.New(errors.JobInputInvalid, err.Error())
	}
	return nil
}

// Run executes fn for job and reports the outcome to the broker.
func (r *Runner) Run(client worker.JobClient, job entities.Job, fn JobFunc) {
	start := time.Now()
	correlationID := uuid.NewString()
	log := r.logger.WithFields(map[string]interface{}{
		"jobKey":        job.Key,
		"workflowKey":   job.ProcessInstanceKey,
		"correlationId": correlationID,
	})
	log.Info("processing job", nil)

	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := otel.Tracer(tracerName).Start(ctx, r.taskType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.Int64("zeebe.job_key", job.Key),
			attribute.Int64("zeebe.process_instance_key", job.ProcessInstanceKey),
			attribute.String("correlation_id", correlationID),
		),
	)
	defer span.End()

	output, err := fn(ctx)
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())

	if err != nil {
		code := string(errors.CodeOf(err))
		span.SetAttributes(attribute.String("result_code", code))
		span.SetStatus(codes.Error, code)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, code).Inc()
		r.obs.RecordJob(ctx, r.taskType, code, elapsed)
		r.errs.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.obs.RecordJob(ctx, r.taskType, "completed", elapsed)

	sendErr := ExecuteWithRetry(ctx, DefaultRetryConfig, "complete-job", func(ctx context.Context) error {
		cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
		if err != nil {
			return err
		}
		_, err = cmd.Send(ctx)
		return err
	})
	if sendErr != nil {
		log.Error("failed to complete job", map[string]interface{}{"error": sendErr.Error()})
		return
	}
	log.Info("job completed", map[string]interface{}{"durationMs": elapsed.Milliseconds()})
}
