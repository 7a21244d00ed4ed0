// internal/workers/buzz/extract-post-features/models.go
package extractpostfeatures

import (
	"buzz-workers/internal/common/validation"
	"buzz-workers/internal/engine/features"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["text"],
	"properties": {
		"text": {"type": "string"},
		"metadata": {"type": "object"},
		"counts": {
			"type": "object",
			"additionalProperties": {"type": "integer"}
		}
	}
}`)

type Input struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Counts   map[string]int64       `json:"counts,omitempty"`
}

type Output struct {
	Features         map[string]string `json:"features"`
	Vector           []features.Entry  `json:"vector"`
	SentinelCount    int               `json:"sentinelCount"`
	AlgorithmicValue *float64          `json:"algorithmicValue,omitempty"`
}
