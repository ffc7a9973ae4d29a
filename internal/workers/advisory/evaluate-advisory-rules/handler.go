// internal/workers/advisory/evaluate-advisory-rules/handler.go
package evaluateadvisoryrules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"krishi-workers/internal/common/errors"
	"krishi-workers/internal/common/logger"
	"krishi-workers/internal/common/metrics"
	"krishi-workers/internal/common/observability"
	"krishi-workers/internal/common/validation"
	"krishi-workers/internal/rules"
	"krishi-workers/pkg/registry"
)

const TaskType = registry.TaskEvaluateAdvisoryRules

// Dependencies are the collaborators a Handler needs. Engine must be sealed.
type Dependencies struct {
	Engine        *rules.Engine
	Validator     *validation.Validator
	Observability *observability.Observability
}

type Handler struct {
	config    *Config
	engine    *rules.Engine
	validator *validation.Validator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	logger    logger.Logger
	newID     func() string
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("%s: rule engine is required", TaskType)
	}
	if !deps.Engine.Sealed() {
		return nil, fmt.Errorf("%s: rule engine must be sealed before serving jobs", TaskType)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		engine:    deps.Engine,
		validator: deps.Validator,
		obs:       deps.Observability,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
		newID:     func() string { return uuid.New().String() },
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.GetKey()))
	defer span.End()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			span.SetAttributes(attribute.Int("advisoryCount", output.AdvisoryCount))
			h.completeJob(ctx, client, job, output)
			timer.Completed()
			h.obs.RecordJobProcessed(ctx, TaskType, "completed")
			h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
			return
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	timer.Failed(errorCode(err))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errors.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	if h.validator != nil {
		result, err := h.validator.ValidateInput(TaskType, variables)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if !result.Valid {
			return nil, errors.NewInputValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

// Execute evaluates the sealed engine against the input facts. Rules that
// fire without producing a draft are reported, logged and counted but do not
// fail the evaluation.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	var report rules.Report
	if h.config.OrderByPriority {
		report = h.engine.EvaluateOrdered(input.Facts, rules.ByPriority)
	} else {
		report = h.engine.Evaluate(input.Facts)
	}

	output := &Output{
		EvaluationID:  h.newID(),
		Advisories:    report.Drafts,
		FiredRules:    report.Fired,
		AdvisoryCount: len(report.Drafts),
	}

	for _, defect := range report.Defects {
		metrics.RuleDefects.WithLabelValues(defect.Rule).Inc()
		output.DefectiveRules = append(output.DefectiveRules, defect.Rule)
		h.logger.Warn("rule fired without producing an advisory", map[string]interface{}{
			"rule":         defect.Rule,
			"farmerId":     input.FarmerID,
			"evaluationId": output.EvaluationID,
		})
	}
	for _, draft := range report.Drafts {
		metrics.AdvisoriesGenerated.WithLabelValues(string(draft.Source), string(draft.Severity)).Inc()
	}
	h.obs.RecordAdvisories(ctx, output.AdvisoryCount)

	h.logger.Info("rules evaluated", map[string]interface{}{
		"farmerId":      input.FarmerID,
		"evaluationId":  output.EvaluationID,
		"advisoryCount": output.AdvisoryCount,
		"firedRules":    output.FiredRules,
	})

	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func errorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return string(errors.ErrCodeInternal)
}
