// internal/workers/buzz/calibrate-score-model/handler.go
package calibratescoremodel

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"buzz-workers/internal/common/aws"
	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/common/metrics"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/models"
	"buzz-workers/internal/store"
)

const (
	TaskType = "calibrate-score-model"
)

type RunSaver interface {
	Save(ctx context.Context, run *store.CalibrationRun) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event aws.CalibrationEvent) error
}

type Dependencies struct {
	Engine    *engine.Engine
	Posts     store.PostReader
	Runs      RunSaver
	Publisher EventPublisher // nil disables events
	Logger    logger.Logger
}

type Handler struct {
	config    *Config
	engine    *engine.Engine
	posts     store.PostReader
	runs      RunSaver
	publisher EventPublisher
	logger    logger.Logger
	errors    *errors.ErrorHandler
}

func NewHandler(config *Config, deps Dependencies) *Handler {
	log := deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		engine:    deps.Engine,
		posts:     deps.Posts,
		runs:      deps.Runs,
		publisher: deps.Publisher,
		logger:    log,
		errors:    errors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
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
	if !input.From.IsZero() && !input.To.IsZero() && input.From.After(input.To) {
		return nil, errors.NewInvalidInputError("from must not be after to")
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	scope := input.Scope
	if scope == "" {
		scope = h.config.DefaultScope
	}

	filter := models.PostFilter{Account: input.Account, From: input.From, To: input.To}
	posts, err := store.LoadCorpus(ctx, h.posts, filter, store.FilterOptions{
		ExcludeGiveaways: h.config.ExcludeGiveaways,
		DedupePerAccount: h.config.DedupePerAccount,
		Rank: func(p models.Post) float64 {
			v, _ := h.engine.AlgorithmicValue(p.Counts)
			return v
		},
	})
	if err != nil {
		return nil, err
	}

	outcome := h.engine.Outcome()
	if input.Outcome != "" {
		outcome = engine.Outcome(input.Outcome)
	}

	ws, err := h.engine.CalibrateFor(posts, outcome)
	if err != nil {
		return nil, errors.NewConfigurationInvalidError(err)
	}
	evaluation, err := h.engine.EvaluateFor(ws, posts, outcome)
	if err != nil {
		return nil, errors.NewCalibrationFailedError(err)
	}

	tableVersion := h.engine.Table().Version()
	output := &Output{
		Scope:        scope,
		Outcome:      string(outcome),
		Status:       ws.Status,
		SampleSize:   ws.SampleSize,
		CorpusSize:   len(posts),
		Correlation:  evaluation.Correlation,
		MeanScore:    evaluation.MeanScore,
		TableVersion: tableVersion,
	}
	metrics.ObserveCalibration(scope, string(ws.Status), ws.SampleSize, evaluation.Correlation)

	// A fallback set never replaces the scope's last calibrated run.
	if ws.BelowThreshold() {
		if input.RequireCalibrated {
			return nil, errors.NewInsufficientDataError(ws.SampleSize, h.engine.MinSamples())
		}
		h.logger.Warn("calibration below sample threshold, keeping active model", map[string]interface{}{
			"scope":      scope,
			"sampleSize": ws.SampleSize,
		})
		return output, nil
	}

	run := store.NewCalibrationRun(scope, tableVersion, ws, evaluation.Correlation)
	run.Notes = runNotes(input.Account, outcome)
	if err := h.runs.Save(ctx, run); err != nil {
		return nil, err
	}
	output.RunID = run.ID.String()
	output.Persisted = true

	if h.publisher != nil {
		err := h.publisher.Publish(ctx, aws.CalibrationEvent{
			RunID:        output.RunID,
			Scope:        scope,
			Status:       string(ws.Status),
			SampleSize:   ws.SampleSize,
			Correlation:  evaluation.Correlation,
			TableVersion: tableVersion,
			CreatedAt:    run.CreatedAt,
		})
		if err != nil {
			// The run is stored; a retry would calibrate again.
			h.logger.WithError(err).Error("calibration event not published", map[string]interface{}{
				"runId": output.RunID,
			})
		} else {
			output.Published = true
		}
	}

	h.logger.Info("score model calibrated", map[string]interface{}{
		"scope":       scope,
		"runId":       output.RunID,
		"sampleSize":  ws.SampleSize,
		"correlation": evaluation.Correlation,
	})
	return output, nil
}

// runNotes records what a run was fitted on beyond its scope.
func runNotes(account string, outcome engine.Outcome) string {
	var notes []string
	if account != "" {
		notes = append(notes, "account="+account)
	}
	if outcome != engine.OutcomeAlgorithmicValue {
		notes = append(notes, "outcome="+string(outcome))
	}
	return strings.Join(notes, " ")
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
