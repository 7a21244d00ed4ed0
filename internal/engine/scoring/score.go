package scoring

import (
	"math"
	"sort"

	"buzz-workers/internal/engine/features"
)

// Score applies ws to v. Every schema feature gets a Contribution; they are
// sorted by absolute points, ties in declaration order. A vector with no
// active bucket scores the baseline. Only an invalid ws is an error.
func Score(ws *WeightSet, v features.Vector) (*ScoredPost, error) {
	if err := Validate(ws); err != nil {
		return nil, err
	}

	raw := 0.0
	contributions := make([]Contribution, 0, len(features.Schema()))
	for _, d := range features.Schema() {
		val, ok := v[d.Name]
		if !ok || val.Kind != d.Kind {
			val = features.Sentinel(d.Kind)
		}
		c := Contribution{Feature: d.Name, Group: d.Group, Value: val}
		if key, ok := activeBucket(d, v); ok {
			c.Bucket = key
			c.Weight = ws.Weight(key)
			c.Points = ws.points(c.Weight)
			raw += c.Weight
		}
		contributions = append(contributions, c)
	}
	SortContributions(contributions)

	return &ScoredPost{
		Features:      v,
		Score:         ws.normalize(raw),
		Baseline:      ws.Baseline(),
		Contributions: contributions,
		ModelStatus:   ws.Status,
	}, nil
}

// SortContributions orders by |points| descending, then declaration order.
func SortContributions(cs []Contribution) {
	sort.SliceStable(cs, func(i, j int) bool {
		ai, aj := math.Abs(cs[i].Points), math.Abs(cs[j].Points)
		if ai != aj {
			return ai > aj
		}
		return features.Position(cs[i].Feature) < features.Position(cs[j].Feature)
	})
}
