// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler turns a worker failure into either a retried job or a BPMN
// error the process can catch.
type ErrorHandler struct {
	logger     Logger
	maxRetries int
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WithMaxRetries caps the retries granted to any failed job. Zero keeps the
// per-code retry counts.
func (h *ErrorHandler) WithMaxRetries(n int) *ErrorHandler {
	h.maxRetries = n
	return h
}

func (h *ErrorHandler) retryLimit(bpmnErr *BPMNError) int {
	if h.maxRetries > 0 && h.maxRetries < bpmnErr.Retries {
		return h.maxRetries
	}
	return bpmnErr.Retries
}

// RetryBackoff is how long the broker waits before handing a failed job out
// again. Store and model writes get longer pauses than cache hiccups.
func RetryBackoff(code ErrorCode) time.Duration {
	switch code {
	case ErrCodeStoreReadFailed, ErrCodeStoreTimeout, ErrCodeModelStoreFailed:
		return 5 * time.Second
	case ErrCodeEventPublishFailed, ErrCodeExternalService:
		return 10 * time.Second
	case ErrCodeCacheFailed:
		return time.Second
	default:
		return 2 * time.Second
	}
}

// HandleJobError fails the job with retries left when the error is
// retryable, and throws a BPMN error otherwise.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	h.logError(job, stdErr, bpmnErr)

	var sendErr error
	if bpmnErr.Retries > 0 && job.Retries > 1 {
		sendErr = h.failJob(ctx, client, job, stdErr.Code, bpmnErr)
	} else {
		sendErr = h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	if sendErr != nil {
		h.logger.Error("failed to report job error to zeebe", map[string]interface{}{
			"jobKey":    job.Key,
			"errorCode": bpmnErr.Code,
			"error":     sendErr.Error(),
		})
	}
}

// remainingRetries never raises what the broker has left for the job;
// job.Retries counts the current attempt.
func remainingRetries(job entities.Job, limit int) int32 {
	if remaining := int(job.Retries) - 1; remaining < limit {
		return int32(remaining)
	}
	return int32(limit)
}

func errorVariables(bpmnErr *BPMNError) (string, bool) {
	vars := bpmnErr.ToErrorVariables()
	if len(vars) == 0 {
		return "", false
	}
	data, err := json.Marshal(vars)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, code ErrorCode, bpmnErr *BPMNError) error {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(remainingRetries(job, h.retryLimit(bpmnErr))).
		RetryBackoff(RetryBackoff(code)).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := errorVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := errorVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":          job.Key,
		"jobType":         job.Type,
		"errorCode":       string(stdErr.Code),
		"bpmnErrorCode":   bpmnErr.Code,
		"message":         bpmnErr.Message,
		"details":         stdErr.Details,
		"retryable":       stdErr.Retryable,
		"retries":         h.retryLimit(bpmnErr),
		"retryBackoff":    RetryBackoff(stdErr.Code).String(),
		"errorCategory":   GetErrorCategory(stdErr.Code),
		"processInstance": job.ProcessInstanceKey,
		"elementId":       job.ElementId,
	})
}
