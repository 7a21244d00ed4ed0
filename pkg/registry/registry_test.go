package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calibratescoremodel "buzz-workers/internal/workers/buzz/calibrate-score-model"
	extractpostfeatures "buzz-workers/internal/workers/buzz/extract-post-features"
	scorepost "buzz-workers/internal/workers/buzz/score-post"
)

func loadShipped(t *testing.T) *ActivityRegistry {
	t.Helper()
	reg, err := LoadRegistry(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	return reg
}

func validActivity(id string) Activity {
	return Activity{
		ID:                   id,
		DisplayName:          "Activity " + id,
		Category:             "buzz",
		TaskType:             id,
		ImplementationStatus: StatusPlanned,
		Timeout:              "10s",
	}
}

// ==========================
// Shipped registry
// ==========================

func TestShippedRegistry_IsValid(t *testing.T) {
	assert.NoError(t, loadShipped(t).Validate())
}

func TestShippedRegistry_ListsEveryWorker(t *testing.T) {
	reg := loadShipped(t)
	for _, taskType := range []string{
		extractpostfeatures.TaskType,
		scorepost.TaskType,
		calibratescoremodel.TaskType,
	} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, StatusCompleted, a.ImplementationStatus)
	}
	assert.Len(t, reg.Activities, 3)
}

// ==========================
// Validation
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"valid", func(r *ActivityRegistry) {}, ""},
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities[1].ID = "a" }, "duplicate activity ID"},
		{"duplicate task type", func(r *ActivityRegistry) { r.Activities[1].TaskType = "a" }, "duplicate task type"},
		{"missing category", func(r *ActivityRegistry) { r.Activities[0].Category = "" }, "Category"},
		{"bad status", func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" }, "unknown status"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "timeout"},
		{"unknown error code", func(r *ActivityRegistry) { r.Activities[0].ErrorCodes = []string{"NOPE"} }, "unknown error code"},
		{"broken schema", func(r *ActivityRegistry) {
			r.Activities[0].InputSchema = map[string]interface{}{"type": 12}
		}, "input schema"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{validActivity("a"), validActivity("b")}}
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// ==========================
// Update / Save
// ==========================

func TestUpdateAndSave(t *testing.T) {
	reg := &ActivityRegistry{Version: "1", Activities: []Activity{validActivity("a")}}

	require.NoError(t, reg.Update("a", "status", StatusVerified))
	require.NoError(t, reg.Update("a", "retries", "4"))
	require.NoError(t, reg.Update("a", "timeout", "30s"))
	assert.Error(t, reg.Update("a", "status", "shipped"))
	assert.Error(t, reg.Update("a", "retries", "many"))
	assert.Error(t, reg.Update("a", "owner", "x"))
	assert.ErrorContains(t, reg.Update("z", "status", StatusPlanned), "not found")

	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.LastUpdated)
	a, ok := loaded.Find("a")
	require.True(t, ok)
	assert.Equal(t, StatusVerified, a.ImplementationStatus)
	assert.Equal(t, 4, a.Retries)
	assert.Equal(t, "30s", a.Timeout)
}
