package rationale

import "buzz-workers/internal/engine/features"

// hint is the reader-side reason a feature matters, split by direction.
type hint struct {
	raises string
	lowers string
}

var hints = map[features.Name]hint{
	features.OpeningPattern: {
		raises: "The first line decides whether anyone reads the second.",
		lowers: "This opening gives readers little reason to keep going.",
	},
	features.CharLength: {
		raises: "Posts this long tend to be read in full.",
		lowers: "At this length readers drop off before the end.",
	},
	features.LineCount: {
		raises: "The layout is easy to scan.",
		lowers: "The line structure makes the post harder to scan.",
	},
	features.EmojiCount: {
		raises: "Emoji use is restrained enough to read as sincere.",
		lowers: "Heavy emoji use reads as noise to this audience.",
	},
	features.NumberCount: {
		raises: "Concrete figures are quotable and get bookmarked as evidence.",
		lowers: "These figures did not land with past readers.",
	},
	features.HasMoneyExpression: {
		raises: "Income figures read as proof and draw admiration.",
		lowers: "Money talk invites skepticism here.",
	},
	features.HasExternalLink: {
		raises: "Readers here follow links willingly.",
		lowers: "Off-platform links pull readers away and reach drops with them.",
	},
	features.IsThread: {
		raises: "Threads earn conversation clicks to expand the rest.",
		lowers: "Readers rarely expand threads on this account.",
	},
	features.HasCTA: {
		raises: "An explicit ask lowers the effort of reacting.",
		lowers: "Readers push back on being told what to do.",
	},
	features.SelfDisclosureMarker: {
		raises: "Readers root for authors who admit weakness, and candour earns follows.",
		lowers: "The confession reads as a hook rather than sincere.",
	},
	features.SecretPhraseCount: {
		raises: "Insider framing makes readers curious about what else the author knows.",
		lowers: "Secret-reveal framing reads as clickbait.",
	},
	features.HasStory: {
		raises: "A narrative arc keeps readers to the end and lengthens dwell time.",
		lowers: "The story slows down the point.",
	},
	features.InvitesReply: {
		raises: "A direct question triggers the urge to share an opinion.",
		lowers: "The question goes unanswered and stalls the post.",
	},
	features.BookmarkTrigger: {
		raises: "Practical reference material gets saved to use later.",
		lowers: "Checklists alone did not earn saves here.",
	},
	features.ProfileTrigger: {
		raises: "Hints of expertise or hidden context send readers to the profile.",
		lowers: "Self-promotion cues cost goodwill.",
	},
	features.PowerWordCount: {
		raises: "Persuasive vocabulary signals value at a glance.",
		lowers: "Hype vocabulary erodes trust.",
	},
	features.Category: {
		raises: "This topic is reliably shared by this audience.",
		lowers: "This topic underperforms with this audience.",
	},
	features.MentionsAITopic: {
		raises: "Trend topics let reposters show they are ahead of the curve.",
		lowers: "The topic is saturated and readers scroll past.",
	},
	features.EmotionTone: {
		raises: "This tone spreads; readers pass it on.",
		lowers: "This tone gets suppressed and draws negative feedback.",
	},
	features.EmotionTriggerCount: {
		raises: "Strong emotion makes readers react before they think.",
		lowers: "Stacked emotional hooks feel manipulative.",
	},
	features.PostHour: {
		raises: "The audience is online at this hour, which front-loads early engagement.",
		lowers: "Few readers are online at this hour.",
	},
}

func hintFor(name features.Name, dir Direction) string {
	h, ok := hints[name]
	if !ok {
		return ""
	}
	if dir == Lowers {
		return h.lowers
	}
	return h.raises
}
