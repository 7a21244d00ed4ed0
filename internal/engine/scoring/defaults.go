package scoring

import "buzz-workers/internal/engine/features"

// defaultPriors is the hand-tuned point table used when there is not enough
// history to calibrate. Points come from an earlier review of high-performing
// posts.
var defaultPriors = map[features.Name]map[string]float64{
	features.OpeningPattern: {
		"number_lead": 25, "empathy": 18, "question": 12, "other": 10,
		"assertion": 8, "provocation": 6, "direct_address": 5,
	},
	features.CharLength: {
		"short": 20, "compact": 13, "medium": 17, "long": 10, "very_long": 4, "essay": 2,
	},
	features.Category: {
		"experience": 15, "problem": 15, "tool": 10, "howto": 8,
		"achievement": 7, "news": 5, "other": 5,
	},
	features.NumberCount:        {"few": 10, "many": 10},
	features.HasMoneyExpression: {"true": 5},
	features.LineCount: {
		"dense": 10, "structured": 7, "airy": 4, "sprawling": 1,
	},
	features.EmojiCount:      {"zero": 10, "few": 6, "many": 2},
	features.HasStory:        {"true": 5},
	features.IsThread:        {"true": 15},
	features.HasExternalLink: {"true": -15},
	features.EmotionTone: {
		"constructive": 15, "positive": 12, "provocative_constructive": 10,
		"neutral": 8, "negative": 3, "aggressive": 0,
	},
}

// DefaultWeightSet returns the prior model tagged with status.
func DefaultWeightSet(status Status, sampleSize int) *WeightSet {
	w := make(map[string]float64)
	for name, buckets := range defaultPriors {
		for label, points := range buckets {
			w[features.BucketKey(name, label)] = points
		}
	}
	return NewWeightSet(w, status, sampleSize)
}
