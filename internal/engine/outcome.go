// internal/engine/outcome.go
package engine

import (
	"fmt"
	"math"

	"buzz-workers/internal/models"
)

// Outcome selects the engagement metric calibration learns to predict.
type Outcome string

const (
	// OutcomeAlgorithmicValue is the weighted interaction sum of a post.
	OutcomeAlgorithmicValue Outcome = "algorithmic_value"
	// OutcomeEngagementRate is algorithmic value per impression. Posts
	// without impressions have no rate and are left out.
	OutcomeEngagementRate Outcome = "engagement_rate"
)

// ParseOutcome maps a config or job value to an Outcome. Empty means
// algorithmic value.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case "":
		return OutcomeAlgorithmicValue, nil
	case OutcomeAlgorithmicValue, OutcomeEngagementRate:
		return o, nil
	default:
		return "", fmt.Errorf("unknown outcome %q", s)
	}
}

func (o Outcome) orDefault() Outcome {
	if o == "" {
		return OutcomeAlgorithmicValue
	}
	return o
}

// measure turns a post's algorithmic value into the selected outcome. NaN
// marks a post the outcome cannot be computed for.
func (o Outcome) measure(value float64, p models.Post) float64 {
	if o.orDefault() != OutcomeEngagementRate {
		return value
	}
	if p.Impressions <= 0 {
		return math.NaN()
	}
	return value / float64(p.Impressions)
}
