package scoring

import (
	"math"
	"sort"
	"strings"

	"buzz-workers/internal/engine/features"
)

// Sample is one historical (features, outcome) pair.
type Sample struct {
	Features features.Vector
	Outcome  float64
}

// Options tunes calibration.
type Options struct {
	MinSamples int
}

func (o Options) minSamples() int {
	if o.MinSamples <= 0 {
		return DefaultMinSamples
	}
	return o.MinSamples
}

// Calibrate fits one weight per feature bucket: the Pearson correlation
// between the bucket's 0/1 indicator and the signed-log outcome. Buckets
// with no variance in either series get 0. Below the sample threshold the
// prior model is returned, flagged by status. Calibrate never fails.
func Calibrate(samples []Sample, opts Options) *WeightSet {
	usable := make([]prepared, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.Outcome) || math.IsInf(s.Outcome, 0) {
			continue
		}
		usable = append(usable, prepare(s))
	}

	switch n := len(usable); {
	case n == 0:
		return DefaultWeightSet(StatusEmptyCorpus, 0)
	case n < opts.minSamples():
		return DefaultWeightSet(StatusInsufficientData, n)
	}

	// A canonical order makes the float sums, and so the weights,
	// independent of the order the corpus arrived in.
	sort.Slice(usable, func(i, j int) bool {
		if usable[i].y != usable[j].y {
			return usable[i].y < usable[j].y
		}
		return usable[i].fingerprint < usable[j].fingerprint
	})

	n := float64(len(usable))
	var sumY, sumYY float64
	for _, p := range usable {
		sumY += p.y
		sumYY += p.y * p.y
	}
	meanY := sumY / n
	varY := sumYY/n - meanY*meanY

	weights := make(map[string]float64)
	for _, d := range features.Schema() {
		for _, key := range d.BucketKeys() {
			var active, sumXY float64
			for _, p := range usable {
				if p.buckets[d.Name] == key {
					active++
					sumXY += p.y
				}
			}
			weights[key] = pearsonIndicator(active, sumXY, n, meanY, varY)
		}
	}
	return NewWeightSet(weights, StatusCalibrated, len(usable))
}

const (
	varianceEpsilon = 1e-12
	// Correlations this small are rounding residue of a zero covariance.
	correlationEpsilon = 1e-9
)

// pearsonIndicator is the correlation between a 0/1 series with `active`
// ones and an outcome series, given sum of outcomes where the indicator is 1.
func pearsonIndicator(active, sumXY, n, meanY, varY float64) float64 {
	p := active / n
	varX := p - p*p
	if varX < varianceEpsilon || varY < varianceEpsilon {
		return 0
	}
	cov := sumXY/n - p*meanY
	r := cov / math.Sqrt(varX*varY)
	if math.Abs(r) < correlationEpsilon {
		return 0
	}
	return clamp(r, -1, 1)
}

// SignedLog compresses heavy-tailed engagement values while keeping sign.
func SignedLog(v float64) float64 {
	if v < 0 {
		return -math.Log1p(-v)
	}
	return math.Log1p(v)
}

type prepared struct {
	y           float64
	buckets     map[features.Name]string
	fingerprint string
}

func prepare(s Sample) prepared {
	p := prepared{
		y:       SignedLog(s.Outcome),
		buckets: make(map[features.Name]string, len(features.Schema())),
	}
	var b strings.Builder
	for _, d := range features.Schema() {
		if key, ok := activeBucket(d, s.Features); ok {
			p.buckets[d.Name] = key
			b.WriteString(key)
		}
		b.WriteByte('|')
	}
	p.fingerprint = b.String()
	return p
}

// activeBucket returns the bucket key a vector activates for d. Missing or
// mistyped values activate nothing.
func activeBucket(d features.Definition, v features.Vector) (string, bool) {
	val, ok := v[d.Name]
	if !ok || val.Kind != d.Kind {
		return "", false
	}
	label, ok := d.BucketLabel(val)
	if !ok {
		return "", false
	}
	return features.BucketKey(d.Name, label), true
}
