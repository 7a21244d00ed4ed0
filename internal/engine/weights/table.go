// Package weights holds the platform engagement weight table and turns raw
// interaction counts into a single algorithmic value.
package weights

import (
	"fmt"
	"math"
	"sort"

	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/models"
)

// DefaultVersion labels the built-in table.
const DefaultVersion = "x-2026-02"

// Table is an immutable interaction kind → weight mapping. Replace it
// wholesale; it has no mutators.
type Table struct {
	version string
	weights map[models.InteractionKind]float64
}

// NewTable validates and copies weights into a Table.
func NewTable(version string, w map[models.InteractionKind]float64) (*Table, error) {
	if version == "" {
		return nil, enginerr.NewConfigurationError("weight table", "version", "must not be empty")
	}
	if len(w) == 0 {
		return nil, enginerr.NewConfigurationError("weight table", "weights", "must not be empty")
	}
	copied := make(map[models.InteractionKind]float64, len(w))
	for kind, weight := range w {
		if kind == "" {
			return nil, enginerr.NewConfigurationError("weight table", "weights", "empty interaction kind")
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, enginerr.NewConfigurationError("weight table", string(kind), fmt.Sprintf("weight %v is not a finite number", weight))
		}
		copied[kind] = weight
	}
	return &Table{version: version, weights: copied}, nil
}

// Default returns the built-in platform weighting.
func Default() *Table {
	return &Table{
		version: DefaultVersion,
		weights: map[models.InteractionKind]float64{
			models.InteractionAuthorReply:       75.0,
			models.InteractionReply:             13.5,
			models.InteractionProfileClick:      12.0,
			models.InteractionConversationClick: 11.0,
			models.InteractionBookmark:          10.0,
			models.InteractionRepost:            1.0,
			models.InteractionLike:              0.5,
			models.InteractionDwell:             10.0,
			models.InteractionNegative:          -74.0,
			models.InteractionReport:            -369.0,
		},
	}
}

func (t *Table) Version() string { return t.version }

// Weight returns the weight for kind and whether the table knows it.
func (t *Table) Weight(kind models.InteractionKind) (float64, bool) {
	w, ok := t.weights[kind]
	return w, ok
}

// Weights returns a copy of the table contents.
func (t *Table) Weights() map[models.InteractionKind]float64 {
	out := make(map[models.InteractionKind]float64, len(t.weights))
	for k, v := range t.weights {
		out[k] = v
	}
	return out
}

// Kinds returns the table's interaction kinds sorted by weight, heaviest first.
func (t *Table) Kinds() []models.InteractionKind {
	kinds := make([]models.InteractionKind, 0, len(t.weights))
	for k := range t.weights {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		wi, wj := t.weights[kinds[i]], t.weights[kinds[j]]
		if wi != wj {
			return wi > wj
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// AlgorithmicValue is the weighted sum of counts. Kinds the table does not
// know are ignored; a negative count is a configuration error.
func (t *Table) AlgorithmicValue(counts models.Counts) (float64, error) {
	// Sum in a fixed order so equal inputs give bit-identical results.
	kinds := make([]models.InteractionKind, 0, len(counts))
	for kind, n := range counts {
		if n < 0 {
			return 0, enginerr.NewConfigurationError("interaction counts", string(kind), fmt.Sprintf("negative count %d", n))
		}
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	total := 0.0
	for _, kind := range kinds {
		if w, ok := t.weights[kind]; ok {
			total += w * float64(counts[kind])
		}
	}
	return total, nil
}
