package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_SpansAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	reg := promclient.NewRegistry()

	obs, err := New("buzz-test", WithRegisterer(reg), WithSpanProcessor(recorder))
	require.NoError(t, err)

	ctx, span := obs.StartSpan(context.Background(), "score-post", attribute.String("scope", "global"))
	obs.RecordJobProcessed(ctx, "score-post", "completed")
	obs.RecordJobDuration(ctx, "score-post", 12*time.Millisecond, "completed")
	obs.RecordScore(ctx, "global", 64)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "score-post", ended[0].Name())

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["jobs_processed_total"], "families: %v", names)
	assert.True(t, names["jobs_duration_milliseconds"], "families: %v", names)
	assert.True(t, names["buzz_score"], "families: %v", names)
	assert.False(t, names["jobs.processed_total"])

	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestObservability_NilReceiver(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartSpan(context.Background(), "noop")
	obs.RecordJobProcessed(ctx, "x", "failed")
	obs.RecordScore(ctx, "global", 1)
	span.End()
	assert.NoError(t, obs.Shutdown(context.Background()))
}
