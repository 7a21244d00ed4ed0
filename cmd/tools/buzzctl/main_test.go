package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/database"
	"buzz-workers/internal/engine/scoring"
	"buzz-workers/internal/engine/weights"
)

// ==========================
// Test Helper Functions
// ==========================

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const tableYAML = `
version: test-1
weights:
  reply: 10
  like: 1
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

var notes = []string{
	"Shipped the new pricing page this morning.",
	"Rewrote the onboarding flow over the weekend.",
	"Moved our whole stack to a single server.",
	"Dropped the trial plan after three months.",
	"Cut the landing page copy in half today.",
	"Switched the newsletter to a weekly cadence.",
	"Deleted half the features from the roadmap.",
	"Started writing docs before writing code.",
	"Raised prices for the first cohort today.",
	"Paused paid ads and kept the organic channel.",
}

// writeArchive builds a sqlite post archive and a config that reads it.
func writeArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	archive := filepath.Join(dir, "posts.db")

	client, err := database.NewSQLite(config.SQLiteConfig{Path: archive})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, client.Migrate(ctx))
	for i, n := range notes {
		date := time.Date(2026, 3, 3, 10, i, 0, 0, time.UTC).Format("2006-01-02 15:04:05")
		_, err := client.DB.ExecContext(ctx,
			`INSERT INTO posts (account, text, likes, retweets, replies, impressions, date) VALUES (?, ?, 0, 0, 30, 1000, ?)`,
			fmt.Sprintf("a%02d", 2*i), "Honestly, "+n, date)
		require.NoError(t, err)
		_, err = client.DB.ExecContext(ctx,
			`INSERT INTO posts (account, text, likes, retweets, replies, impressions, date) VALUES (?, ?, 10, 0, 0, 1000, ?)`,
			fmt.Sprintf("a%02d", 2*i+1), n, date)
		require.NoError(t, err)
	}
	require.NoError(t, client.Close())

	return writeFile(t, "config.yaml", fmt.Sprintf(`
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: buzz
    user: scorer
  sqlite:
    path: %s
  redis:
    address: localhost:6379
store:
  driver: sqlite
`, archive))
}

// ==========================
// weights
// ==========================

func TestWeights_DefaultTable(t *testing.T) {
	out, err := run(t, "weights", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Weight table "+weights.DefaultVersion)
	assert.Contains(t, out, "author_reply")
	assert.Less(t, bytes.Index([]byte(out), []byte("author_reply")), bytes.Index([]byte(out), []byte("report")))
}

func TestWeights_FromFileAsJSON(t *testing.T) {
	out, err := run(t, "weights", "--table", writeFile(t, "weights.yaml", tableYAML), "--output", "json")
	require.NoError(t, err)

	var res weightsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "test-1", res.Version)
	assert.Equal(t, 10.0, res.Weights["reply"])
}

func TestWeights_YAMLRoundTrips(t *testing.T) {
	out, err := run(t, "weights", "--table", writeFile(t, "weights.yaml", tableYAML), "--yaml")
	require.NoError(t, err)

	table, err := weights.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "test-1", table.Version())
}

func TestWeights_ListsUnweightedKinds(t *testing.T) {
	out, err := run(t, "weights", "--table", writeFile(t, "weights.yaml", tableYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Not weighted:")
	assert.Contains(t, out, "author_reply")
	assert.NotContains(t, out, "Not weighted: [reply")
}

func TestWeights_BadTable(t *testing.T) {
	_, err := run(t, "weights", "--table", writeFile(t, "weights.yaml", "version: x\nweights: {}\n"))
	assert.Error(t, err)
}

// ==========================
// score
// ==========================

func TestScore_TextOutput(t *testing.T) {
	out, err := run(t, "score", "--text", "Honestly, I almost quit last month. What kept you going?", "--hour", "19")
	require.NoError(t, err)
	assert.Contains(t, out, "Score:")
	assert.Contains(t, out, "Model:    default")
	assert.Contains(t, out, "Why:")
}

func TestScore_JSONWithFeatures(t *testing.T) {
	out, err := run(t, "score", "--text", "3 mistakes I made in my first year", "--features", "--limit", "2", "--output", "json")
	require.NoError(t, err)

	var res scoreResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, scoring.StatusDefault, res.ModelStatus)
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, scoring.MaxScore)
	assert.LessOrEqual(t, len(res.Rationale), 2)
	assert.Len(t, res.Features, 35)
}

func TestScore_RequiresText(t *testing.T) {
	_, err := run(t, "score")
	assert.Error(t, err)
}

func TestScore_BadPublished(t *testing.T) {
	_, err := run(t, "score", "--text", "hi", "--published", "tuesday")
	assert.ErrorContains(t, err, "--published")
}

// ==========================
// calibrate
// ==========================

func TestCalibrate_SQLiteArchive(t *testing.T) {
	cfgPath := writeArchive(t)

	out, err := run(t, "calibrate", "--config", cfgPath, "--scope", "founder", "--top", "3", "--output", "json")
	require.NoError(t, err)

	var res calibrateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "founder", res.Scope)
	assert.Equal(t, scoring.StatusCalibrated, res.Status)
	assert.Equal(t, 20, res.SampleSize)
	assert.Equal(t, 20, res.CorpusSize)
	assert.Greater(t, res.Correlation, 0.0)
	assert.Empty(t, res.RunID)

	require.NotEmpty(t, res.TopWeights)
	assert.LessOrEqual(t, len(res.TopWeights), 3)
	listed := map[string]float64{}
	for _, w := range res.TopWeights {
		assert.GreaterOrEqual(t, math.Abs(w.Weight), 1e-9, w.Bucket)
		listed[w.Bucket] = w.Weight
	}
	assert.InDelta(t, 1.0, listed["self_disclosure_marker=true"], 1e-9)
	// Both twins tell the same story, so it never ranks.
	assert.NotContains(t, listed, "has_story=true")
}

func TestCalibrate_EngagementRateOutcome(t *testing.T) {
	out, err := run(t, "calibrate", "--config", writeArchive(t), "--outcome", "engagement_rate", "--top", "0", "--output", "json")
	require.NoError(t, err)

	var res calibrateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "engagement_rate", res.Outcome)
	assert.Equal(t, scoring.StatusCalibrated, res.Status)
	assert.Equal(t, 20, res.SampleSize)
	listed := map[string]float64{}
	for _, w := range res.TopWeights {
		listed[w.Bucket] = w.Weight
	}
	assert.InDelta(t, 1.0, listed["self_disclosure_marker=true"], 1e-9)
}

func TestCalibrate_BadOutcome(t *testing.T) {
	_, err := run(t, "calibrate", "--config", writeArchive(t), "--outcome", "clicks")
	assert.ErrorContains(t, err, "--outcome")
}

func TestCalibrate_AccountFilter(t *testing.T) {
	cfgPath := writeArchive(t)

	out, err := run(t, "calibrate", "--config", cfgPath, "--account", "a00", "--from", "2026-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Outcome:      algorithmic_value")
	assert.Contains(t, out, "Status:       insufficient_data")
	assert.Contains(t, out, "Samples:      1 of 1 posts")
}

func TestCalibrate_BadDate(t *testing.T) {
	_, err := run(t, "calibrate", "--config", writeArchive(t), "--to", "03/04/2026")
	assert.ErrorContains(t, err, "--to")
}

func TestTopWeights(t *testing.T) {
	ws := scoring.NewWeightSet(map[string]float64{
		"a=1": 0.2,
		"b=1": -0.9,
		"c=1": 0.5,
		"d=1": 0,
		"e=1": -0.5,
	}, scoring.StatusCalibrated, 30)

	got := topWeights(ws, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "b=1", got[0].Bucket)
	assert.Equal(t, "c=1", got[1].Bucket)
	assert.Equal(t, "e=1", got[2].Bucket)

	assert.Len(t, topWeights(ws, 0), 4)
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDay("2026-03-04T05:06:07Z")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Hour())

	d, err = parseDay("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

// ==========================
// rescore
// ==========================

func TestRescore_SQLiteArchive(t *testing.T) {
	cfgPath := writeArchive(t)

	out, err := run(t, "rescore", "--config", cfgPath, "--top", "3", "--output", "json")
	require.NoError(t, err)

	var res rescoreResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, scoring.StatusDefault, res.ModelStatus)
	assert.Empty(t, res.RunID)
	assert.Equal(t, 20, res.Posts)
	require.Len(t, res.Top, 3)
	for i := 1; i < len(res.Top); i++ {
		assert.GreaterOrEqual(t, res.Top[i-1].Score, res.Top[i].Score)
	}
	for _, p := range res.Top {
		assert.NotEmpty(t, p.Key)
		assert.Greater(t, p.AlgorithmicValue, 0.0)
	}
}

func TestRescore_TextOutput(t *testing.T) {
	out, err := run(t, "rescore", "--config", writeArchive(t), "--account", "a01")
	require.NoError(t, err)
	assert.Contains(t, out, "Posts:        1")
	assert.Contains(t, out, "a01@")
}

func TestRankScored(t *testing.T) {
	value := 3.0
	scored := []*scoring.ScoredPost{
		{Score: 10, Text: "low"},
		{Score: 40, Text: strings.Repeat("x", 80), AlgorithmicValue: &value},
		{Score: 40, Text: "tie"},
	}

	got := rankScored(scored, 0)
	require.Len(t, got, 3)
	assert.Equal(t, 3.0, got[0].AlgorithmicValue)
	assert.Len(t, []rune(got[0].Text), 60)
	assert.Equal(t, "tie", got[1].Text)
	assert.Equal(t, "low", got[2].Text)

	assert.Len(t, rankScored(scored, 1), 1)
}

// ==========================
// activities
// ==========================

func TestActivities_ValidateShipped(t *testing.T) {
	out, err := run(t, "activities", "validate", "--registry", filepath.Join("..", "..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 activities")
}

func TestActivities_SetAndList(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	path := writeFile(t, "registry.json", string(src))

	_, err = run(t, "activities", "set", "score-post", "status", "verified", "--registry", path)
	require.NoError(t, err)

	out, err := run(t, "activities", "list", "--registry", path)
	require.NoError(t, err)
	assert.Regexp(t, `score-post\s+verified`, out)
	assert.Regexp(t, `calibrate-score-model\s+completed`, out)

	_, err = run(t, "activities", "set", "score-post", "owner", "me", "--registry", path)
	assert.ErrorContains(t, err, "unknown field")
}
