// Package scoring calibrates per-bucket feature weights against historical
// outcomes and turns feature vectors into normalized buzz scores.
package scoring

import (
	"fmt"
	"math"

	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/models"
)

// Status tells callers how a WeightSet was produced.
type Status string

const (
	StatusCalibrated       Status = "calibrated"
	StatusInsufficientData Status = "insufficient_data"
	StatusEmptyCorpus      Status = "empty_corpus"
	StatusDefault          Status = "default"
)

// DefaultMinSamples is the smallest corpus calibrated from data.
const DefaultMinSamples = 10

// MaxScore is the top of the score range; the bottom is 0.
const MaxScore = 100.0

// WeightSet is an immutable calibrated model: bucket key → weight plus the
// normalization range reachable with those weights.
type WeightSet struct {
	Weights    map[string]float64 `json:"weights"`
	Low        float64            `json:"low"`
	High       float64            `json:"high"`
	Status     Status             `json:"status"`
	SampleSize int                `json:"sampleSize"`
}

// NewWeightSet copies weights and derives the normalization range.
func NewWeightSet(weights map[string]float64, status Status, sampleSize int) *WeightSet {
	copied := make(map[string]float64, len(weights))
	for k, w := range weights {
		copied[k] = w
	}
	low, high := reachableRange(copied)
	return &WeightSet{
		Weights:    copied,
		Low:        low,
		High:       high,
		Status:     status,
		SampleSize: sampleSize,
	}
}

// Weight returns the weight of a bucket key, 0 when absent.
func (ws *WeightSet) Weight(key string) float64 {
	return ws.Weights[key]
}

// BelowThreshold reports whether the set fell back to default weights.
func (ws *WeightSet) BelowThreshold() bool {
	return ws.Status == StatusInsufficientData || ws.Status == StatusEmptyCorpus
}

// Baseline is the score of a vector with no active bucket.
func (ws *WeightSet) Baseline() float64 {
	return ws.normalize(0)
}

func (ws *WeightSet) span() float64 { return ws.High - ws.Low }

func (ws *WeightSet) normalize(raw float64) float64 {
	if ws.span() <= 0 {
		return MaxScore / 2
	}
	return clamp(MaxScore*(raw-ws.Low)/ws.span(), 0, MaxScore)
}

// points converts a raw weight into score points.
func (ws *WeightSet) points(w float64) float64 {
	if ws.span() <= 0 {
		return 0
	}
	return MaxScore * w / ws.span()
}

// reachableRange sums, per feature, the smallest and largest contribution
// any single value can make. "No active bucket" contributes 0.
func reachableRange(weights map[string]float64) (low, high float64) {
	for _, d := range features.Schema() {
		fmin, fmax := 0.0, 0.0
		for _, key := range d.BucketKeys() {
			w := weights[key]
			fmin = math.Min(fmin, w)
			fmax = math.Max(fmax, w)
		}
		low += fmin
		high += fmax
	}
	return low, high
}

var knownKeys = func() map[string]bool {
	keys := map[string]bool{}
	for _, d := range features.Schema() {
		for _, k := range d.BucketKeys() {
			keys[k] = true
		}
	}
	return keys
}()

// Validate rejects sets that would produce meaningless scores.
func Validate(ws *WeightSet) error {
	if ws == nil {
		return enginerr.NewConfigurationError("weight set", "", "missing")
	}
	for key, w := range ws.Weights {
		if !knownKeys[key] {
			return enginerr.NewConfigurationError("weight set", key, "unknown feature bucket")
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return enginerr.NewConfigurationError("weight set", key, fmt.Sprintf("weight %v is not a finite number", w))
		}
	}
	if math.IsNaN(ws.Low) || math.IsNaN(ws.High) || math.IsInf(ws.Low, 0) || math.IsInf(ws.High, 0) {
		return enginerr.NewConfigurationError("weight set", "range", "normalization bounds must be finite")
	}
	if ws.Low > ws.High {
		return enginerr.NewConfigurationError("weight set", "range", fmt.Sprintf("low %v above high %v", ws.Low, ws.High))
	}
	return nil
}

// Contribution is one feature's share of a score, in score points.
type Contribution struct {
	Feature features.Name  `json:"feature"`
	Group   features.Group `json:"group"`
	Bucket  string         `json:"bucket,omitempty"`
	Value   features.Value `json:"value"`
	Weight  float64        `json:"weight"`
	Points  float64        `json:"points"`
}

// ScoredPost is the output of scoring one vector.
type ScoredPost struct {
	Post             *models.Post    `json:"post,omitempty"`
	Text             string          `json:"text,omitempty"`
	Features         features.Vector `json:"features"`
	Score            float64         `json:"score"`
	Baseline         float64         `json:"baseline"`
	Contributions    []Contribution  `json:"contributions"`
	AlgorithmicValue *float64        `json:"algorithmicValue,omitempty"`
	ModelStatus      Status          `json:"modelStatus"`
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
