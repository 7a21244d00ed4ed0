package features

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Name identifies one feature of the closed schema.
type Name string

const (
	CharLength          Name = "char_length"
	LineCount           Name = "line_count"
	WordCount           Name = "word_count"
	FirstLineLength     Name = "first_line_length"
	PunctuationDensity  Name = "punctuation_density"
	ExclamationCount    Name = "exclamation_count"
	QuestionCount       Name = "question_count"
	HashtagCount        Name = "hashtag_count"
	MentionCount        Name = "mention_count"
	EmojiCount          Name = "emoji_count"
	URLCount            Name = "url_count"
	HasExternalLink     Name = "has_external_link"
	HasBullets          Name = "has_bullets"
	NumberCount         Name = "number_count"
	HasMoneyExpression  Name = "has_money_expression"
	UppercaseRatio      Name = "uppercase_ratio"
	IsThread            Name = "is_thread"
	HasContinuationHint Name = "has_continuation_hint"
	HasMediaHint        Name = "has_media_hint"

	OpeningPattern       Name = "opening_pattern"
	HasCTA               Name = "has_cta"
	SelfDisclosureMarker Name = "self_disclosure_marker"
	SecretPhraseCount    Name = "secret_phrase_count"
	HasStory             Name = "has_story"
	InvitesReply         Name = "invites_reply"
	BookmarkTrigger      Name = "bookmark_trigger"
	ProfileTrigger       Name = "profile_trigger"
	PowerWordCount       Name = "power_word_count"
	EndsWithQuestion     Name = "ends_with_question"

	Category        Name = "category"
	MentionsAITopic Name = "mentions_ai_topic"

	EmotionTone         Name = "emotion_tone"
	EmotionTriggerCount Name = "emotion_trigger_count"

	PostHour  Name = "post_hour"
	IsWeekend Name = "is_weekend"
)

// MinPatternWindow is the shortest trimmed text, in runes, that the
// pattern classifiers will label. Shorter text yields the sentinel.
const MinPatternWindow = 3

// Metadata is the optional context that accompanies post text.
type Metadata struct {
	PublishedAt time.Time `json:"publishedAt,omitempty"`
	PostHour    *int      `json:"postHour,omitempty"`
	IsThread    *bool     `json:"isThread,omitempty"`
	Account     string    `json:"account,omitempty"`
}

// Hour resolves the publish hour from the explicit hour or the timestamp.
func (m Metadata) Hour() (int, error) {
	if m.PostHour != nil {
		h := *m.PostHour
		if h < 0 || h > 23 {
			return 0, &InputShapeError{Field: "postHour", Reason: fmt.Sprintf("hour %d out of range", h)}
		}
		return h, nil
	}
	if m.PublishedAt.IsZero() {
		return 0, &InputShapeError{Field: "postHour", Reason: "no hour or timestamp"}
	}
	return m.PublishedAt.Hour(), nil
}

// InputShapeError marks metadata a feature needs but cannot use. Extraction
// recovers it into the feature's sentinel.
type InputShapeError struct {
	Field  string
	Reason string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("input shape: %s: %s", e.Field, e.Reason)
}

// Input is the pre-split view of a post handed to every extractor.
type Input struct {
	Text      string
	Trimmed   string
	FirstLine string
	Lines     []string
	Meta      Metadata
}

func newInput(text string, meta Metadata) *Input {
	first, _, _ := strings.Cut(text, "\n")
	return &Input{
		Text:      text,
		Trimmed:   strings.TrimSpace(text),
		FirstLine: strings.TrimSpace(first),
		Lines:     strings.Split(text, "\n"),
		Meta:      meta,
	}
}

// belowWindow reports whether the text is too short for pattern classifiers.
func (in *Input) belowWindow() bool {
	return utf8.RuneCountInString(in.Trimmed) < MinPatternWindow ||
		utf8.RuneCountInString(in.FirstLine) < MinPatternWindow
}

// Vector maps every schema feature to its value.
type Vector map[Name]Value

// Entry is one (name, value) pair in declaration order.
type Entry struct {
	Name  Name  `json:"name"`
	Value Value `json:"value"`
}

// Entries returns the vector in schema declaration order.
func (v Vector) Entries() []Entry {
	out := make([]Entry, 0, len(schema))
	for _, d := range schema {
		out = append(out, Entry{Name: d.Name, Value: v[d.Name]})
	}
	return out
}

// Labels renders the vector as name → display string.
func (v Vector) Labels() map[string]string {
	out := make(map[string]string, len(v))
	for name, val := range v {
		out[string(name)] = val.String()
	}
	return out
}

// SentinelCount is the number of features that fell back to their sentinel.
func (v Vector) SentinelCount() int {
	n := 0
	for _, val := range v {
		if val.Unknown {
			n++
		}
	}
	return n
}

// SentinelVector returns a vector holding only sentinel values.
func SentinelVector() Vector {
	v := make(Vector, len(schema))
	for _, d := range schema {
		v[d.Name] = Sentinel(d.Kind)
	}
	return v
}

// Extract computes every schema feature for text and metadata. It never
// fails: a feature whose extractor errors or panics gets its sentinel.
func Extract(text string, meta Metadata) Vector {
	in := newInput(text, meta)
	v := make(Vector, len(schema))
	for _, d := range schema {
		v[d.Name] = extractOne(d, in)
	}
	return v
}

func extractOne(d Definition, in *Input) (val Value) {
	defer func() {
		if r := recover(); r != nil {
			val = Sentinel(d.Kind)
		}
	}()
	out, err := d.extract(in)
	if err != nil || out.Kind != d.Kind {
		return Sentinel(d.Kind)
	}
	return out
}
