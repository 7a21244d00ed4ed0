// internal/workers/buzz/score-post/handler.go
package scorepost

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/common/metrics"
	"buzz-workers/internal/common/observability"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/engine/rationale"
	"buzz-workers/internal/store"
)

const (
	TaskType = "score-post"
)

// ModelSource resolves the active calibration run of a scope.
type ModelSource interface {
	Active(ctx context.Context, scope string) (*store.CalibrationRun, error)
}

type Handler struct {
	config *Config
	engine *engine.Engine
	models ModelSource
	obs    *observability.Observability
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, eng *engine.Engine, models ModelSource, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: eng,
		models: models,
		obs:    obs,
		logger: log,
		errors: errors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	return h.completeJob(ctx, client, job, output)
}

func parseInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, errors.NewParseError(err)
	}
	result, err := inputSchema.Validate(raw)
	if err != nil {
		return nil, errors.NewParseError(err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	scope := input.Scope
	if scope == "" {
		scope = h.config.DefaultScope
	}

	run, err := h.models.Active(ctx, scope)
	if err != nil {
		return nil, err
	}

	sp, err := h.engine.ScoreText(run.WeightSet, input.Text, engine.MetadataFromMap(input.Metadata))
	if err != nil {
		if enginerr.IsConfiguration(err) {
			return nil, errors.NewConfigurationInvalidError(err)
		}
		return nil, errors.NewScoringFailedError(err)
	}

	output := &Output{
		Score:         sp.Score,
		Baseline:      sp.Baseline,
		Contributions: sp.Contributions,
		ModelStatus:   sp.ModelStatus,
		SentinelCount: sp.Features.SentinelCount(),
		Scope:         scope,
	}
	if run.ID != uuid.Nil {
		output.RunID = run.ID.String()
	}

	if input.IncludeRationale {
		limit := input.RationaleLimit
		if limit == 0 {
			limit = h.config.RationaleLimit
		}
		output.Rationale = h.engine.Explain(sp, rationale.Options{Limit: limit})
	}

	metrics.ObserveScore(scope, string(sp.ModelStatus), sp.Score)
	h.obs.RecordScore(ctx, scope, sp.Score)

	h.logger.Info("post scored", map[string]interface{}{
		"scope":       scope,
		"score":       sp.Score,
		"modelStatus": string(sp.ModelStatus),
	})
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return errors.NewInternalError(err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return errors.NewExternalServiceError("zeebe", err)
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
