// internal/workers/buzz/calibrate-score-model/models.go
package calibratescoremodel

import (
	"time"

	"buzz-workers/internal/common/validation"
	"buzz-workers/internal/engine/scoring"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"scope": {"type": "string"},
		"account": {"type": "string"},
		"from": {"type": "string", "format": "date-time"},
		"to": {"type": "string", "format": "date-time"},
		"requireCalibrated": {"type": "boolean"},
		"outcome": {"type": "string", "enum": ["algorithmic_value", "engagement_rate"]}
	}
}`)

type Input struct {
	Scope   string    `json:"scope,omitempty"`
	Account string    `json:"account,omitempty"`
	From    time.Time `json:"from,omitempty"`
	To      time.Time `json:"to,omitempty"`
	// RequireCalibrated turns a fallback result into INSUFFICIENT_DATA.
	RequireCalibrated bool `json:"requireCalibrated,omitempty"`
	// Outcome overrides the engine's calibration outcome.
	Outcome string `json:"outcome,omitempty"`
}

type Output struct {
	RunID        string         `json:"runId,omitempty"`
	Scope        string         `json:"scope"`
	Outcome      string         `json:"outcome"`
	Status       scoring.Status `json:"status"`
	SampleSize   int            `json:"sampleSize"`
	CorpusSize   int            `json:"corpusSize"`
	Correlation  float64        `json:"correlation"`
	MeanScore    float64        `json:"meanScore"`
	TableVersion string         `json:"tableVersion"`
	Persisted    bool           `json:"persisted"`
	Published    bool           `json:"published"`
}
