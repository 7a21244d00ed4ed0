// Package rationale turns a scored post into ranked, human-readable reasons.
package rationale

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/engine/scoring"
)

// DefaultThreshold is the smallest contribution, in score points, worth
// explaining.
const DefaultThreshold = 0.5

// Direction says which way a feature moved the score.
type Direction string

const (
	Raises Direction = "raises"
	Lowers Direction = "lowers"
	None   Direction = "none"
)

// Statement is one explanation line.
type Statement struct {
	Feature   features.Name  `json:"feature,omitempty"`
	Group     features.Group `json:"group,omitempty"`
	Value     string         `json:"value,omitempty"`
	Direction Direction      `json:"direction"`
	Magnitude float64        `json:"magnitude"`
	Text      string         `json:"text"`
	Hint      string         `json:"hint,omitempty"`
}

func (s Statement) String() string {
	if s.Hint == "" {
		return s.Text
	}
	return s.Text + " " + s.Hint
}

// Options tunes Explain. Zero values take the defaults.
type Options struct {
	Threshold float64
	Limit     int
	NoHints   bool
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

// Explain yields statements for every contribution above the threshold,
// largest first, ties in feature declaration order. When nothing qualifies
// it yields a single "no dominant factor" statement. The sequence is
// computed on each iteration, so it can be ranged over repeatedly.
func Explain(sp *scoring.ScoredPost, opts Options) iter.Seq[Statement] {
	return func(yield func(Statement) bool) {
		var contributions []scoring.Contribution
		if sp != nil {
			contributions = slices.Clone(sp.Contributions)
		}
		scoring.SortContributions(contributions)

		emitted := 0
		for _, c := range contributions {
			if math.Abs(c.Points) < opts.threshold() {
				break
			}
			if opts.Limit > 0 && emitted >= opts.Limit {
				return
			}
			if !yield(statementFor(c, opts)) {
				return
			}
			emitted++
		}
		if emitted == 0 {
			yield(noDominantFactor(opts.threshold()))
		}
	}
}

// Collect is a convenience for callers that want a slice.
func Collect(sp *scoring.ScoredPost, opts Options) []Statement {
	return slices.Collect(Explain(sp, opts))
}

func statementFor(c scoring.Contribution, opts Options) Statement {
	dir := Raises
	if c.Points < 0 {
		dir = Lowers
	}
	label := describe(c.Feature)
	value := c.Value.String()

	s := Statement{
		Feature:   c.Feature,
		Group:     c.Group,
		Value:     value,
		Direction: dir,
		Magnitude: math.Abs(c.Points),
		Text:      fmt.Sprintf("%s (%s) %s the score by %.1f points.", label, value, dir, math.Abs(c.Points)),
	}
	if !opts.NoHints {
		s.Hint = hintFor(c.Feature, dir)
	}
	return s
}

func noDominantFactor(threshold float64) Statement {
	return Statement{
		Direction: None,
		Text:      fmt.Sprintf("No dominant factor: no feature moved the score by %.1f points or more.", threshold),
	}
}

func describe(name features.Name) string {
	if d, ok := features.Lookup(name); ok && d.Description != "" {
		return capitalize(d.Description)
	}
	return string(name)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
