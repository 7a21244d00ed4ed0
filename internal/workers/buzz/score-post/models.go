// internal/workers/buzz/score-post/models.go
package scorepost

import (
	"buzz-workers/internal/common/validation"
	"buzz-workers/internal/engine/rationale"
	"buzz-workers/internal/engine/scoring"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["text"],
	"properties": {
		"text": {"type": "string"},
		"metadata": {"type": "object"},
		"scope": {"type": "string"},
		"includeRationale": {"type": "boolean"},
		"rationaleLimit": {"type": "integer", "minimum": 0, "maximum": 50}
	}
}`)

type Input struct {
	Text             string                 `json:"text"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	Scope            string                 `json:"scope,omitempty"`
	IncludeRationale bool                   `json:"includeRationale"`
	RationaleLimit   int                    `json:"rationaleLimit,omitempty"`
}

type Output struct {
	Score         float64                `json:"score"`
	Baseline      float64                `json:"baseline"`
	Contributions []scoring.Contribution `json:"contributions"`
	Rationale     []rationale.Statement  `json:"rationale,omitempty"`
	ModelStatus   scoring.Status         `json:"modelStatus"`
	SentinelCount int                    `json:"sentinelCount"`
	Scope         string                 `json:"scope"`
	RunID         string                 `json:"runId,omitempty"`
}
