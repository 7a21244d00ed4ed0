// internal/workers/buzz/extract-post-features/handler.go
package extractpostfeatures

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/models"
)

const (
	TaskType = "extract-post-features"
)

type Handler struct {
	config *Config
	engine *engine.Engine
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, eng *engine.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: eng,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	vector := h.engine.Extract(input.Text, engine.MetadataFromMap(input.Metadata))

	output := &Output{
		Features:      vector.Labels(),
		Vector:        vector.Entries(),
		SentinelCount: vector.SentinelCount(),
	}

	if input.Counts != nil {
		counts := make(models.Counts, len(input.Counts))
		for kind, n := range input.Counts {
			counts[models.InteractionKind(kind)] = n
		}
		value, err := h.engine.AlgorithmicValue(counts)
		if err != nil {
			return nil, errors.NewConfigurationInvalidError(err)
		}
		output.AlgorithmicValue = &value
	}

	h.logger.Debug("features extracted", map[string]interface{}{
		"sentinels": output.SentinelCount,
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
