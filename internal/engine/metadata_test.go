package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/engine/features"
)

func TestMetadataFromMap(t *testing.T) {
	meta := MetadataFromMap(map[string]interface{}{
		"publishedAt": "2026-03-03T19:30:00+09:00",
		"postHour":    float64(21),
		"isThread":    "true",
		"account":     "founder",
	})

	assert.True(t, meta.PublishedAt.Equal(time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)))
	require.NotNil(t, meta.PostHour)
	assert.Equal(t, 21, *meta.PostHour)
	require.NotNil(t, meta.IsThread)
	assert.True(t, *meta.IsThread)
	assert.Equal(t, "founder", meta.Account)
}

func TestMetadataFromMap_Malformed(t *testing.T) {
	meta := MetadataFromMap(map[string]interface{}{
		"publishedAt": "last tuesday",
		"postHour":    19.5,
		"isThread":    "maybe",
		"account":     42,
	})
	assert.True(t, meta.PublishedAt.IsZero())
	assert.Nil(t, meta.PostHour)
	assert.Nil(t, meta.IsThread)
	assert.Empty(t, meta.Account)

	assert.Equal(t, features.Metadata{}, MetadataFromMap(nil))
	assert.Nil(t, MetadataFromMap(map[string]interface{}{"postHour": math.Inf(1)}).PostHour)
}

func TestMetadataFromMap_OutOfRangeHourIsKept(t *testing.T) {
	meta := MetadataFromMap(map[string]interface{}{"postHour": "27"})
	require.NotNil(t, meta.PostHour)
	_, err := meta.Hour()
	assert.Error(t, err, "the extractor turns this into a sentinel")
}
