// internal/workers/nlu/process-farmer-text/handler.go
package processfarmertext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"krishi-workers/internal/common/errors"
	"krishi-workers/internal/common/logger"
	"krishi-workers/internal/common/metrics"
	"krishi-workers/internal/common/observability"
	"krishi-workers/internal/common/validation"
	"krishi-workers/internal/models"
	"krishi-workers/internal/nlu"
	"krishi-workers/pkg/registry"
)

const (
	TaskType = registry.TaskProcessFarmerText

	cacheKeyPrefix = "nlu:v1:"
)

// Cache stores NLU results keyed by normalised text and hint.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Dependencies are the collaborators a Handler needs. Only Chain is required.
type Dependencies struct {
	Chain         *nlu.Chain
	Cache         Cache
	Validator     *validation.Validator
	Observability *observability.Observability
}

type Handler struct {
	config    *Config
	chain     *nlu.Chain
	cache     Cache
	validator *validation.Validator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if deps.Chain == nil {
		return nil, fmt.Errorf("%s: strategy chain is required", TaskType)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		chain:     deps.Chain,
		cache:     deps.Cache,
		validator: deps.Validator,
		obs:       deps.Observability,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
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

// Execute classifies the input text, consulting the cache first. Cache
// failures are logged and never fail the call.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	key := cacheKey(input.Text, input.LanguageHint)

	if cached, ok := h.lookup(ctx, key); ok {
		cached.SourceText = input.Text
		return &Output{NLU: cached, DetectedLanguage: cached.Language, Cached: true}, nil
	}

	result, attempts, err := h.chain.Run(ctx, input.Text, input.LanguageHint)
	for _, a := range attempts {
		metrics.NLUStrategyFailures.WithLabelValues(a.Strategy, string(a.Reason)).Inc()
		fields := map[string]interface{}{
			"strategy": a.Strategy,
			"reason":   string(a.Reason),
			"farmerId": input.FarmerID,
		}
		if a.Err != nil {
			fields["error"] = a.Err.Error()
		}
		h.logger.Warn("nlu strategy declined", fields)
	}
	if err != nil {
		if stderrors.Is(err, nlu.ErrChainExhausted) {
			return nil, errors.NewNLUChainExhaustedError(err)
		}
		return nil, errors.NewNLUStrategyFailedError(err)
	}

	metrics.NLUResults.WithLabelValues(result.Provider, string(result.Intent)).Inc()
	h.obs.RecordNLUResult(ctx, result.Provider, string(result.Intent), result.Confidence)

	h.store(ctx, key, result)

	h.logger.Info("text classified", map[string]interface{}{
		"farmerId":   input.FarmerID,
		"intent":     string(result.Intent),
		"confidence": result.Confidence,
		"language":   result.Language,
		"provider":   result.Provider,
	})

	return &Output{NLU: result, DetectedLanguage: result.Language}, nil
}

func (h *Handler) lookup(ctx context.Context, key string) (models.NLUResult, bool) {
	var cached models.NLUResult
	if !h.cacheActive() {
		return cached, false
	}

	found, err := h.cache.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.NLUCacheHits.WithLabelValues("error").Inc()
		h.logger.Warn("nlu cache read failed", map[string]interface{}{
			"error": errors.NewCacheUnavailableError(err).Details,
		})
		return cached, false
	case !found:
		metrics.NLUCacheHits.WithLabelValues("miss").Inc()
		return cached, false
	}

	metrics.NLUCacheHits.WithLabelValues("hit").Inc()
	if cached.Entities == nil {
		cached.Entities = models.Entities{}
	}
	return cached, true
}

func (h *Handler) store(ctx context.Context, key string, result models.NLUResult) {
	if !h.cacheActive() {
		return
	}
	if err := h.cache.SetJSON(ctx, key, result, h.config.CacheTTL); err != nil {
		h.logger.Warn("nlu cache write failed", map[string]interface{}{
			"error": errors.NewCacheUnavailableError(err).Details,
		})
	}
}

func (h *Handler) cacheActive() bool {
	return h.config.CacheEnabled && h.cache != nil
}

// cacheKey hashes the normalised text together with the hint, so the same
// utterance with a different hint is cached separately.
func cacheKey(text, languageHint string) string {
	sum := sha256.Sum256([]byte(nlu.NormalizeText(text) + "\x00" + strings.TrimSpace(languageHint)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
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
