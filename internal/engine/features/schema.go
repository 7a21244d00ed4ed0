// Package features turns post text and metadata into a fixed, enumerated
// feature vector. Every feature is an independent pure function; the schema
// is closed and declared in a stable order that downstream ranking relies on.
package features

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the value type a feature produces.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
	KindNumeric     Kind = "numeric"
)

// Group is the signal family a feature belongs to.
type Group string

const (
	GroupStructural Group = "structural"
	GroupRhetorical Group = "rhetorical"
	GroupTopical    Group = "topical"
	GroupAffective  Group = "affective"
	GroupTemporal   Group = "temporal"
)

// None is the label carried by sentinel values.
const None = "none"

// Value is one typed feature value. Unknown marks the sentinel.
type Value struct {
	Kind    Kind    `json:"kind"`
	Label   string  `json:"label,omitempty"`
	Flag    bool    `json:"flag,omitempty"`
	Number  float64 `json:"number,omitempty"`
	Unknown bool    `json:"unknown,omitempty"`
}

func Categorical(label string) Value { return Value{Kind: KindCategorical, Label: label} }
func Boolean(b bool) Value           { return Value{Kind: KindBoolean, Flag: b} }
func Numeric(n float64) Value        { return Value{Kind: KindNumeric, Number: n} }

// Sentinel returns the explicit "unknown/none" value for a kind.
func Sentinel(kind Kind) Value {
	return Value{Kind: kind, Label: None, Unknown: true}
}

func (v Value) String() string {
	if v.Unknown {
		return None
	}
	switch v.Kind {
	case KindCategorical:
		return v.Label
	case KindBoolean:
		return strconv.FormatBool(v.Flag)
	default:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
}

// Bucket is a half-open numeric range [previous Max, Max).
type Bucket struct {
	Label string
	Max   float64
}

// Definition declares one feature of the closed schema.
type Definition struct {
	Name        Name
	Kind        Kind
	Group       Group
	Description string
	Labels      []string
	Buckets     []Bucket

	extract func(in *Input) (Value, error)
}

// BucketKey is the calibration key for one feature bucket, e.g. "category=howto".
func BucketKey(name Name, label string) string {
	return string(name) + "=" + label
}

// BucketLabel returns the bucket a value falls into. Sentinels and false
// booleans fall into no bucket.
func (d Definition) BucketLabel(v Value) (string, bool) {
	if v.Unknown {
		return "", false
	}
	switch d.Kind {
	case KindBoolean:
		if v.Flag {
			return "true", true
		}
		return "", false
	case KindCategorical:
		for _, l := range d.Labels {
			if l == v.Label {
				return l, true
			}
		}
		return "", false
	case KindNumeric:
		if math.IsNaN(v.Number) {
			return "", false
		}
		for _, b := range d.Buckets {
			if v.Number < b.Max {
				return b.Label, true
			}
		}
		return "", false
	}
	return "", false
}

// BucketKeys lists every bucket key the feature can activate.
func (d Definition) BucketKeys() []string {
	switch d.Kind {
	case KindBoolean:
		return []string{BucketKey(d.Name, "true")}
	case KindCategorical:
		keys := make([]string, 0, len(d.Labels))
		for _, l := range d.Labels {
			keys = append(keys, BucketKey(d.Name, l))
		}
		return keys
	default:
		keys := make([]string, 0, len(d.Buckets))
		for _, b := range d.Buckets {
			keys = append(keys, BucketKey(d.Name, b.Label))
		}
		return keys
	}
}

// Schema returns the feature definitions in declaration order.
func Schema() []Definition {
	return schema
}

// Lookup returns the definition for name.
func Lookup(name Name) (Definition, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return Definition{}, false
	}
	return schema[i], true
}

// Position returns the declaration index of name, or -1.
func Position(name Name) int {
	if i, ok := schemaIndex[name]; ok {
		return i
	}
	return -1
}

var schemaIndex = func() map[Name]int {
	idx := make(map[Name]int, len(schema))
	for i, d := range schema {
		if _, dup := idx[d.Name]; dup {
			panic(fmt.Sprintf("features: duplicate feature %q", d.Name))
		}
		idx[d.Name] = i
	}
	return idx
}()

var inf = math.Inf(1)

func countBuckets(labels ...string) []Bucket {
	// none / some / many style buckets for small counts: 0, 1..n-1, n+
	switch len(labels) {
	case 3:
		return []Bucket{{labels[0], 1}, {labels[1], 3}, {labels[2], inf}}
	case 2:
		return []Bucket{{labels[0], 1}, {labels[1], inf}}
	}
	return nil
}
