package rationale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/engine/scoring"
)

// ==========================
// Test Helper Functions
// ==========================

func scored(points map[features.Name]float64) *scoring.ScoredPost {
	var cs []scoring.Contribution
	for _, d := range features.Schema() {
		c := scoring.Contribution{Feature: d.Name, Group: d.Group, Value: features.Sentinel(d.Kind)}
		if p, ok := points[d.Name]; ok {
			c.Points = p
			c.Value = features.Boolean(true)
		}
		cs = append(cs, c)
	}
	return &scoring.ScoredPost{Contributions: cs, Score: 50, Baseline: 50}
}

// ==========================
// Explain
// ==========================

func TestExplain_OrderedByMagnitude(t *testing.T) {
	sp := scored(map[features.Name]float64{
		features.HasCTA:               4,
		features.HasExternalLink:      -9,
		features.SelfDisclosureMarker: 6,
		features.HasMediaHint:         0.2,
	})

	got := Collect(sp, Options{})
	require.Len(t, got, 3)
	assert.Equal(t, features.HasExternalLink, got[0].Feature)
	assert.Equal(t, Lowers, got[0].Direction)
	assert.Equal(t, 9.0, got[0].Magnitude)
	assert.Equal(t, features.SelfDisclosureMarker, got[1].Feature)
	assert.Equal(t, Raises, got[1].Direction)
	assert.Equal(t, features.HasCTA, got[2].Feature)
}

func TestExplain_TiesFollowDeclarationOrder(t *testing.T) {
	sp := scored(map[features.Name]float64{
		features.IsWeekend:            3,
		features.SelfDisclosureMarker: -3,
		features.CharLength:           3,
	})

	got := Collect(sp, Options{})
	require.Len(t, got, 3)
	assert.Equal(t, features.CharLength, got[0].Feature)
	assert.Equal(t, features.SelfDisclosureMarker, got[1].Feature)
	assert.Equal(t, features.IsWeekend, got[2].Feature)
}

func TestExplain_NoDominantFactor(t *testing.T) {
	sp := scored(map[features.Name]float64{features.HasCTA: 0.49})

	got := Collect(sp, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, None, got[0].Direction)
	assert.Empty(t, got[0].Feature)
	assert.Contains(t, got[0].Text, "No dominant factor")
}

func TestExplain_NilScoredPost(t *testing.T) {
	got := Collect(nil, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, None, got[0].Direction)
}

func TestExplain_Restartable(t *testing.T) {
	sp := scored(map[features.Name]float64{features.HasCTA: 2, features.HasStory: 1})
	seq := Explain(sp, Options{})

	var first, second []Statement
	for s := range seq {
		first = append(first, s)
	}
	for s := range seq {
		second = append(second, s)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestExplain_EarlyBreak(t *testing.T) {
	sp := scored(map[features.Name]float64{features.HasCTA: 2, features.HasStory: 1, features.IsThread: 5})

	count := 0
	for range Explain(sp, Options{}) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestExplain_LimitAndThreshold(t *testing.T) {
	sp := scored(map[features.Name]float64{features.HasCTA: 2, features.HasStory: 1, features.IsThread: 5})

	assert.Len(t, Collect(sp, Options{Limit: 2}), 2)
	assert.Len(t, Collect(sp, Options{Threshold: 1.5}), 2)

	got := Collect(sp, Options{Threshold: 10})
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "10.0 points")
}

func TestExplain_Hints(t *testing.T) {
	sp := scored(map[features.Name]float64{features.SelfDisclosureMarker: 6, features.HasExternalLink: -4})

	got := Collect(sp, Options{})
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Hint, "admit weakness")
	assert.Contains(t, got[1].Hint, "Off-platform links")
	assert.Contains(t, got[0].String(), got[0].Hint)

	for _, s := range Collect(sp, Options{NoHints: true}) {
		assert.Empty(t, s.Hint)
		assert.Equal(t, s.Text, s.String())
	}
}

func TestExplain_Text(t *testing.T) {
	sp := scored(map[features.Name]float64{features.SelfDisclosureMarker: 6.25})

	got := Collect(sp, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "Confession or self-disclosure phrase (true) raises the score by 6.2 points.", got[0].Text)
}

// ==========================
// Round trip
// ==========================

func TestExplain_RoundTripNeverEmpty(t *testing.T) {
	texts := []string{"", "?", "🔥", "Honestly, I shipped it.", "月収100万円を達成した方法を3つ紹介します"}
	sets := []*scoring.WeightSet{
		scoring.DefaultWeightSet(scoring.StatusDefault, 0),
		scoring.NewWeightSet(nil, scoring.StatusCalibrated, 12),
	}

	for _, ws := range sets {
		for _, text := range texts {
			sp, err := scoring.Score(ws, features.Extract(text, features.Metadata{}))
			require.NoError(t, err)
			assert.NotEmpty(t, Collect(sp, Options{}), "text %q", text)
		}
	}
}
