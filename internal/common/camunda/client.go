// internal/common/camunda/client.go
package camunda

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"buzz-workers/internal/common/errors"
)

// Client owns the gateway connection shared by the buzz workers, process
// deployment and the readiness probe.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig bounds the exponential backoff of idempotent gateway calls.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig is used when ClientConfig.RetryConfig is nil.
var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  time.Second,
	MaxDelay:   10 * time.Second,
}

// NewClientWithConfig dials the gateway and fails unless the broker topology
// answers within ConnectionTimeout.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("create zeebe client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectionTimeout)
	defer cancel()
	if _, err := zeebeClient.NewTopologyCommand().Send(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("zeebe broker at %s: %w", config.GatewayAddress, err)
	}

	return &Client{client: zeebeClient, config: config}, nil
}

// GetClient returns the raw client for job workers and commands not covered here.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs an idempotent gateway command, retrying transient
// failures with exponential backoff. The final error is a StandardError.
func (c *Client) ExecuteWithRetry(
	ctx context.Context,
	commandFunc func(context.Context) (interface{}, error),
	operationName string,
) (interface{}, error) {
	rc := c.config.RetryConfig
	for attempt := 0; ; attempt++ {
		result, err := commandFunc(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) || attempt == rc.MaxRetries {
			return nil, c.mapZeebeError(err, operationName, attempt)
		}

		select {
		case <-time.After(rc.delay(attempt)):
		case <-ctx.Done():
			return nil, fmt.Errorf("zeebe %s cancelled after %d attempts: %w", operationName, attempt+1, ctx.Err())
		}
	}
}

func (rc *RetryConfig) delay(attempt int) time.Duration {
	d := rc.BaseDelay << attempt
	if d <= 0 || d > rc.MaxDelay {
		return rc.MaxDelay
	}
	return d
}

var transientPhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

// retryable classifies gRPC status codes first and falls back to the error
// text for transport errors that carry no status.
func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	case codes.Unknown:
	default:
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range transientPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func (c *Client) mapZeebeError(err error, operation string, attempt int) error {
	msg := fmt.Sprintf("zeebe %s failed", operation)
	if attempt > 0 {
		msg += fmt.Sprintf(" after %d attempts", attempt+1)
	}
	wrapped := fmt.Errorf("%s: %w", msg, err)

	lower := strings.ToLower(err.Error())
	if status.Code(err) == codes.DeadlineExceeded ||
		strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout") {
		return errors.NewTimeoutError("zeebe", wrapped)
	}
	return errors.NewExternalServiceError("zeebe", wrapped)
}

// HealthCheck asks the broker for its topology.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return c.client.NewTopologyCommand().Send(ctx)
	}, "topology")
	if err != nil {
		return fmt.Errorf("zeebe health check: %w", err)
	}
	return nil
}

// bpmnFiles lists the process definitions in dir, sorted by name.
func bpmnFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read process dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".bpmn") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .bpmn files in %s", dir)
	}
	return files, nil
}

// DeployProcesses deploys every .bpmn file in dir and returns the deployed
// BPMN process IDs. Redeploying an unchanged file is a no-op on the broker.
func (c *Client) DeployProcesses(ctx context.Context, dir string) ([]string, error) {
	files, err := bpmnFiles(dir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, path := range files {
		definition, err := os.ReadFile(path)
		if err != nil {
			return ids, fmt.Errorf("read %s: %w", path, err)
		}
		name := filepath.Base(path)
		res, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
			return c.client.NewDeployResourceCommand().AddResource(definition, name).Send(ctx)
		}, "deploy "+name)
		if err != nil {
			return ids, err
		}
		for _, d := range res.(*pb.DeployResourceResponse).GetDeployments() {
			if p := d.GetProcess(); p != nil {
				ids = append(ids, p.GetBpmnProcessId())
			}
		}
	}
	return ids, nil
}

// RunProcess starts the latest version of processID and waits for its final
// variables. Instance creation is not retried.
func (c *Client) RunProcess(ctx context.Context, processID string, vars map[string]interface{}) (map[string]interface{}, error) {
	cmd, err := c.client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(vars)
	if err != nil {
		return nil, fmt.Errorf("encode %s variables: %w", processID, err)
	}

	res, err := cmd.WithResult().Send(ctx)
	if err != nil {
		return nil, c.mapZeebeError(err, "run "+processID, 0)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(res.GetVariables()), &out); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", processID, err)
	}
	return out, nil
}
