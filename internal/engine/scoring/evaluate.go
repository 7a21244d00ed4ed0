package scoring

import "math"

// Evaluation summarises how well a WeightSet ranks a labelled corpus.
type Evaluation struct {
	SampleSize  int     `json:"sampleSize"`
	Correlation float64 `json:"correlation"`
	MeanScore   float64 `json:"meanScore"`
}

// Evaluate scores every sample and correlates score with the signed-log
// outcome. Fewer than two samples, or a constant series, gives correlation 0.
func Evaluate(ws *WeightSet, samples []Sample) (Evaluation, error) {
	if err := Validate(ws); err != nil {
		return Evaluation{}, err
	}

	var scores, outcomes []float64
	for _, s := range samples {
		if math.IsNaN(s.Outcome) || math.IsInf(s.Outcome, 0) {
			continue
		}
		sp, err := Score(ws, s.Features)
		if err != nil {
			return Evaluation{}, err
		}
		scores = append(scores, sp.Score)
		outcomes = append(outcomes, SignedLog(s.Outcome))
	}

	ev := Evaluation{SampleSize: len(scores)}
	if len(scores) == 0 {
		return ev, nil
	}
	ev.MeanScore = mean(scores)
	ev.Correlation = pearson(scores, outcomes)
	return ev, nil
}

func mean(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx < varianceEpsilon || vy < varianceEpsilon {
		return 0
	}
	return clamp(cov/math.Sqrt(vx*vy), -1, 1)
}
