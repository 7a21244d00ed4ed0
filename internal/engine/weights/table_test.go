package weights

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func scenarioTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("scenario", map[models.InteractionKind]float64{
		models.InteractionAuthorReply: 75.0,
		models.InteractionReply:       13.5,
		models.InteractionBookmark:    10.0,
		models.InteractionRepost:      1.0,
		models.InteractionLike:        0.5,
		models.InteractionNegative:    -74.0,
		models.InteractionReport:      -369.0,
	})
	require.NoError(t, err)
	return table
}

// ==========================
// AlgorithmicValue
// ==========================

func TestAlgorithmicValue_Scenario(t *testing.T) {
	table := scenarioTable(t)

	value, err := table.AlgorithmicValue(models.Counts{
		models.InteractionLike:     100,
		models.InteractionRepost:   10,
		models.InteractionReply:    5,
		models.InteractionBookmark: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 147.5, value)
}

func TestAlgorithmicValue_Linear(t *testing.T) {
	table := Default()
	a := models.Counts{models.InteractionLike: 40, models.InteractionReply: 3, models.InteractionReport: 1}
	b := models.Counts{models.InteractionLike: 7, models.InteractionBookmark: 9, models.InteractionNegative: 2}

	va, err := table.AlgorithmicValue(a)
	require.NoError(t, err)
	vb, err := table.AlgorithmicValue(b)
	require.NoError(t, err)
	merged, err := table.AlgorithmicValue(models.Merge(a, b))
	require.NoError(t, err)

	assert.InDelta(t, va+vb, merged, 1e-9)
}

func TestAlgorithmicValue_IgnoresUnknownKinds(t *testing.T) {
	table := Default()
	value, err := table.AlgorithmicValue(models.Counts{
		models.InteractionLike: 10,
		"quote_post":           50,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, value)
}

func TestAlgorithmicValue_NegativeCount(t *testing.T) {
	_, err := Default().AlgorithmicValue(models.Counts{models.InteractionLike: -1})

	require.Error(t, err)
	assert.True(t, enginerr.IsConfiguration(err))
	assert.Contains(t, err.Error(), "like")
}

func TestAlgorithmicValue_Empty(t *testing.T) {
	value, err := Default().AlgorithmicValue(nil)
	require.NoError(t, err)
	assert.Zero(t, value)
}

// ==========================
// Table construction
// ==========================

func TestNewTable_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name    string
		version string
		weights map[models.InteractionKind]float64
	}{
		{"nan", "v1", map[models.InteractionKind]float64{models.InteractionLike: math.NaN()}},
		{"inf", "v1", map[models.InteractionKind]float64{models.InteractionLike: math.Inf(1)}},
		{"empty", "v1", map[models.InteractionKind]float64{}},
		{"no version", "", map[models.InteractionKind]float64{models.InteractionLike: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.version, tt.weights)
			require.Error(t, err)
			assert.True(t, enginerr.IsConfiguration(err))
		})
	}
}

func TestNewTable_CopiesInput(t *testing.T) {
	w := map[models.InteractionKind]float64{models.InteractionLike: 1}
	table, err := NewTable("v1", w)
	require.NoError(t, err)

	w[models.InteractionLike] = 99
	got, _ := table.Weight(models.InteractionLike)
	assert.Equal(t, 1.0, got)

	copied := table.Weights()
	copied[models.InteractionLike] = 42
	got, _ = table.Weight(models.InteractionLike)
	assert.Equal(t, 1.0, got)
}

func TestDefault_Kinds(t *testing.T) {
	kinds := Default().Kinds()
	require.Len(t, kinds, len(models.AllInteractionKinds()))
	assert.Equal(t, models.InteractionAuthorReply, kinds[0])
	assert.Equal(t, models.InteractionReport, kinds[len(kinds)-1])
}

// ==========================
// File loading
// ==========================

func TestLoadFile_EmptyPathFallsBackToDefault(t *testing.T) {
	table, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, table.Version())
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: test-2026
description: trimmed table
weights:
  reply: 13.5
  like: 0.5
  report: -369
`), 0o600))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test-2026", table.Version())

	value, err := table.AlgorithmicValue(models.Counts{models.InteractionLike: 4, models.InteractionReply: 2})
	require.NoError(t, err)
	assert.Equal(t, 29.0, value)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"non numeric weight", "version: v1\nweights:\n  like: lots\n"},
		{"missing version", "weights:\n  like: 1\n"},
		{"no weights", "version: v1\nweights: {}\n"},
		{"bad kind name", "version: v1\nweights:\n  Like-Count: 1\n"},
		{"unknown top-level key", "version: v1\nweights:\n  like: 1\nextra: true\n"},
		{"not yaml", "version: [v1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, enginerr.IsConfiguration(err))
		})
	}
}

func TestParse_NamesInvalidField(t *testing.T) {
	tests := []struct {
		doc   string
		field string
	}{
		{"weights:\n  like: 1\n", "version"},
		{"version: v1\nweights:\n  like: lots\n", "weights"},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.doc))
		var ce *enginerr.ConfigurationError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, tt.field, ce.Field)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	table, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Weights(), table.Weights())
}
