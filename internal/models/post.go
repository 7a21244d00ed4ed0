// internal/models/post.go
package models

import "time"

// InteractionKind names one kind of audience interaction a platform counts.
type InteractionKind string

const (
	InteractionAuthorReply       InteractionKind = "author_reply"
	InteractionReply             InteractionKind = "reply"
	InteractionProfileClick      InteractionKind = "profile_click"
	InteractionConversationClick InteractionKind = "conversation_click"
	InteractionBookmark          InteractionKind = "bookmark"
	InteractionRepost            InteractionKind = "repost"
	InteractionLike              InteractionKind = "like"
	InteractionDwell             InteractionKind = "dwell"
	InteractionNegative          InteractionKind = "negative"
	InteractionReport            InteractionKind = "report"
)

// AllInteractionKinds returns every known interaction kind in canonical order.
func AllInteractionKinds() []InteractionKind {
	return []InteractionKind{
		InteractionAuthorReply,
		InteractionReply,
		InteractionProfileClick,
		InteractionConversationClick,
		InteractionBookmark,
		InteractionRepost,
		InteractionLike,
		InteractionDwell,
		InteractionNegative,
		InteractionReport,
	}
}

// Counts maps interaction kinds to raw counts.
type Counts map[InteractionKind]int64

// Merge returns a new Counts holding the per-kind sum of a and b.
func Merge(a, b Counts) Counts {
	out := make(Counts, len(a)+len(b))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}

// Post is one authored message with its engagement outcome.
// Identity is Account + PublishedAt.
type Post struct {
	Account     string    `json:"account"`
	Text        string    `json:"text"`
	PublishedAt time.Time `json:"publishedAt"`
	Counts      Counts    `json:"counts"`
	Impressions int64     `json:"impressions,omitempty"`
	IsThread    *bool     `json:"isThread,omitempty"`
}

// Key returns the natural key of the post.
func (p Post) Key() string {
	return p.Account + "@" + p.PublishedAt.UTC().Format(time.RFC3339)
}

// PostFilter narrows a corpus read. Zero values mean "no bound".
type PostFilter struct {
	Account string    `json:"account,omitempty"`
	From    time.Time `json:"from,omitempty"`
	To      time.Time `json:"to,omitempty"`
	Limit   int       `json:"limit,omitempty"`
}

// Matches reports whether p falls inside the filter bounds.
func (f PostFilter) Matches(p Post) bool {
	if f.Account != "" && p.Account != f.Account {
		return false
	}
	if !f.From.IsZero() && p.PublishedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && p.PublishedAt.After(f.To) {
		return false
	}
	return true
}
