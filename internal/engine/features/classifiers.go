package features

import (
	"regexp"
	"time"
)

func firstMatch(patterns []labeledPattern, text string) (string, bool) {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return p.label, true
		}
	}
	return "", false
}

func countMatching(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

func countLabeled(patterns []labeledPattern, text string) int {
	n := 0
	for _, p := range patterns {
		if p.re.MatchString(text) {
			n++
		}
	}
	return n
}

func openingPattern(in *Input) (Value, error) {
	if in.belowWindow() {
		return Sentinel(KindCategorical), nil
	}
	if label, ok := firstMatch(openingPatterns, in.FirstLine); ok {
		return Categorical(label), nil
	}
	return Categorical("other"), nil
}

func secretPhraseCount(in *Input) (Value, error) {
	return Numeric(float64(countMatching(secretPhrases, in.Text))), nil
}

func powerWordCount(in *Input) (Value, error) {
	return Numeric(float64(countLabeled(powerWords, in.Text))), nil
}

func invitesReply(in *Input) (Value, error) {
	return Boolean(reEndsQuery.MatchString(in.Trimmed) || reInvitesReply.MatchString(in.Text)), nil
}

func endsWithQuestion(in *Input) (Value, error) {
	return Boolean(reEndsQuery.MatchString(in.Trimmed)), nil
}

func category(in *Input) (Value, error) {
	if in.belowWindow() {
		return Sentinel(KindCategorical), nil
	}
	if label, ok := firstMatch(categoryPatterns, in.Text); ok {
		return Categorical(label), nil
	}
	return Categorical("other"), nil
}

func emotionTone(in *Input) (Value, error) {
	if in.belowWindow() {
		return Sentinel(KindCategorical), nil
	}
	return Categorical(classifyTone(in.Text)), nil
}

// classifyTone picks the strongest tone family. Ties resolve in the order
// positive, constructive, negative, aggressive. A negative post that also
// offers something constructive is a provocation with a payoff.
func classifyTone(text string) string {
	scores := []struct {
		label string
		n     int
	}{
		{"positive", countMatching(tonePositive, text)},
		{"constructive", countMatching(toneConstructive, text)},
		{"negative", countMatching(toneNegative, text)},
		{"aggressive", countMatching(toneAggressive, text)},
	}
	best := 0
	for i := range scores {
		if scores[i].n > scores[best].n {
			best = i
		}
	}
	switch {
	case scores[best].n == 0:
		return "neutral"
	case scores[best].label == "negative" && scores[1].n > 0:
		return "provocative_constructive"
	default:
		return scores[best].label
	}
}

func emotionTriggerCount(in *Input) (Value, error) {
	return Numeric(float64(countLabeled(emotionTriggers, in.Text))), nil
}

func postHour(in *Input) (Value, error) {
	h, err := in.Meta.Hour()
	if err != nil {
		return Value{}, err
	}
	return Numeric(float64(h)), nil
}

func isWeekend(in *Input) (Value, error) {
	if in.Meta.PublishedAt.IsZero() {
		return Value{}, &InputShapeError{Field: "publishedAt", Reason: "no publish date"}
	}
	d := in.Meta.PublishedAt.Weekday()
	return Boolean(d == time.Saturday || d == time.Sunday), nil
}
