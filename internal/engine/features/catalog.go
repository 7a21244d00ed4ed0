package features

// schema is the closed feature set in declaration order. Declaration order
// breaks ties wherever features are ranked.
var schema = []Definition{
	// structural
	{
		Name: CharLength, Kind: KindNumeric, Group: GroupStructural,
		Description: "post length in characters",
		Buckets: []Bucket{
			{"short", 81}, {"compact", 131}, {"medium", 171},
			{"long", 221}, {"very_long", 301}, {"essay", inf},
		},
		extract: charLength,
	},
	{
		Name: LineCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "number of line breaks",
		Buckets:     []Bucket{{"dense", 4}, {"structured", 8}, {"airy", 13}, {"sprawling", inf}},
		extract:     lineCount,
	},
	{
		Name: WordCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "whitespace-separated words",
		Buckets:     []Bucket{{"terse", 10}, {"short", 30}, {"medium", 60}, {"long", inf}},
		extract:     wordCount,
	},
	{
		Name: FirstLineLength, Kind: KindNumeric, Group: GroupStructural,
		Description: "length of the opening line",
		Buckets:     []Bucket{{"punchy", 31}, {"standard", 61}, {"long", inf}},
		extract:     firstLineLength,
	},
	{
		Name: PunctuationDensity, Kind: KindNumeric, Group: GroupStructural,
		Description: "share of visible characters that are punctuation",
		Buckets:     []Bucket{{"sparse", 0.02}, {"moderate", 0.06}, {"heavy", inf}},
		extract:     punctuationDensity,
	},
	{
		Name: ExclamationCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "exclamation marks",
		Buckets:     countBuckets("zero", "few", "many"),
		extract:     countOf(reExclaim),
	},
	{
		Name: QuestionCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "question marks",
		Buckets:     countBuckets("zero", "few", "many"),
		extract:     countOf(reQuestion),
	},
	{
		Name: HashtagCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "hashtags",
		Buckets:     countBuckets("zero", "few", "many"),
		extract:     countOf(reHashtag),
	},
	{
		Name: MentionCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "account mentions",
		Buckets:     countBuckets("zero", "few", "many"),
		extract:     countOf(reMention),
	},
	{
		Name: EmojiCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "emoji",
		Buckets:     countBuckets("zero", "few", "many"),
		extract:     countOf(reEmoji),
	},
	{
		Name: URLCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "links",
		Buckets:     []Bucket{{"zero", 1}, {"one", 2}, {"many", inf}},
		extract:     countOf(reURL),
	},
	{
		Name: HasExternalLink, Kind: KindBoolean, Group: GroupStructural,
		Description: "links off the platform",
		extract:     hasExternalLink,
	},
	{
		Name: HasBullets, Kind: KindBoolean, Group: GroupStructural,
		Description: "bulleted or numbered list lines",
		extract:     matchOf(reBullet),
	},
	{
		Name: NumberCount, Kind: KindNumeric, Group: GroupStructural,
		Description: "concrete quantities with units",
		Buckets:     countBuckets("zero", "few", "many"),
		extract:     countOf(reQuantity),
	},
	{
		Name: HasMoneyExpression, Kind: KindBoolean, Group: GroupStructural,
		Description: "income, price or revenue figures",
		extract:     matchOf(reMoney),
	},
	{
		Name: UppercaseRatio, Kind: KindNumeric, Group: GroupStructural,
		Description: "share of cased letters in upper case",
		Buckets:     []Bucket{{"calm", 0.2}, {"mixed", 0.5}, {"shouting", inf}},
		extract:     uppercaseRatio,
	},
	{
		Name: IsThread, Kind: KindBoolean, Group: GroupStructural,
		Description: "thread opener",
		extract:     isThread,
	},
	{
		Name: HasContinuationHint, Kind: KindBoolean, Group: GroupStructural,
		Description: "promises more to come",
		extract:     hasContinuationHint,
	},
	{
		Name: HasMediaHint, Kind: KindBoolean, Group: GroupStructural,
		Description: "refers to attached media",
		extract:     matchOf(reMediaHint),
	},

	// rhetorical
	{
		Name: OpeningPattern, Kind: KindCategorical, Group: GroupRhetorical,
		Description: "shape of the opening line",
		Labels:      []string{"number_lead", "question", "provocation", "empathy", "assertion", "direct_address", "other"},
		extract:     openingPattern,
	},
	{
		Name: HasCTA, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "call to action",
		extract:     matchOf(reCTA),
	},
	{
		Name: SelfDisclosureMarker, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "confession or self-disclosure phrase",
		extract:     matchOf(reDisclosure),
	},
	{
		Name: SecretPhraseCount, Kind: KindNumeric, Group: GroupRhetorical,
		Description: "insider or secret-reveal phrases",
		Buckets:     []Bucket{{"zero", 1}, {"one", 2}, {"several", inf}},
		extract:     secretPhraseCount,
	},
	{
		Name: HasStory, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "narrative or before/after arc",
		extract:     matchOf(reStory),
	},
	{
		Name: InvitesReply, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "asks readers to respond",
		extract:     invitesReply,
	},
	{
		Name: BookmarkTrigger, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "reference material worth saving",
		extract:     matchOf(reBookmark),
	},
	{
		Name: ProfileTrigger, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "makes readers curious about the author",
		extract:     matchOf(reProfile),
	},
	{
		Name: PowerWordCount, Kind: KindNumeric, Group: GroupRhetorical,
		Description: "persuasive vocabulary families",
		Buckets:     []Bucket{{"zero", 1}, {"one", 2}, {"several", inf}},
		extract:     powerWordCount,
	},
	{
		Name: EndsWithQuestion, Kind: KindBoolean, Group: GroupRhetorical,
		Description: "closes on a question",
		extract:     endsWithQuestion,
	},

	// topical
	{
		Name: Category, Kind: KindCategorical, Group: GroupTopical,
		Description: "content category",
		Labels:      []string{"achievement", "howto", "experience", "problem", "tool", "news", "other"},
		extract:     category,
	},
	{
		Name: MentionsAITopic, Kind: KindBoolean, Group: GroupTopical,
		Description: "talks about AI products or models",
		extract:     matchOf(reAITopic),
	},

	// affective
	{
		Name: EmotionTone, Kind: KindCategorical, Group: GroupAffective,
		Description: "overall tone",
		Labels:      []string{"constructive", "positive", "provocative_constructive", "neutral", "negative", "aggressive"},
		extract:     emotionTone,
	},
	{
		Name: EmotionTriggerCount, Kind: KindNumeric, Group: GroupAffective,
		Description: "reader emotion families triggered",
		Buckets:     []Bucket{{"zero", 1}, {"one", 2}, {"several", inf}},
		extract:     emotionTriggerCount,
	},

	// temporal
	{
		Name: PostHour, Kind: KindNumeric, Group: GroupTemporal,
		Description: "hour of publication",
		Buckets: []Bucket{
			{"late_night", 5}, {"morning", 10}, {"daytime", 18},
			{"evening", 22}, {"night", 24},
		},
		extract: postHour,
	},
	{
		Name: IsWeekend, Kind: KindBoolean, Group: GroupTemporal,
		Description: "published on Saturday or Sunday",
		extract:     isWeekend,
	},
}
