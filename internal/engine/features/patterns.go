package features

import "regexp"

// Pattern tables cover Japanese and English phrasing. English alternations
// are wrapped in (?i:...) with word boundaries; Japanese has no word breaks.

type labeledPattern struct {
	label string
	re    *regexp.Regexp
}

var (
	reURL       = regexp.MustCompile(`https?://[^\s　]+`)
	reHashtag   = regexp.MustCompile(`[#＃][\p{L}\p{N}_]+`)
	reMention   = regexp.MustCompile(`@[A-Za-z0-9_]{1,15}`)
	reEmoji     = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{1F1E6}-\x{1F1FF}]`)
	reBullet    = regexp.MustCompile(`(?m)^\s*(?:[・\-\*•▶▸✅☑✓◆■●]|[①-⑳]|\d+[\.\)）])\s*`)
	reQuantity  = regexp.MustCompile(`[0-9０-９]+(?:万|円|個|件|つ|選|ステップ|ヶ月|日|時間|分|秒|%|％|倍)|(?i:\b\d+(?:%|x\b|k\b|\s?(?:steps|tips|ways|days|hours|minutes|weeks|months|years|followers|people)\b))`)
	reMoney     = regexp.MustCompile(`[0-9０-９]+万|[0-9０-９]+円|月収|年収|売上|[$€£¥]\s?\d|(?i:\b(?:revenue|salary|income|mrr|arr|\d+\s?(?:usd|dollars|bucks))\b)`)
	reQuestion  = regexp.MustCompile(`[?？]`)
	reExclaim   = regexp.MustCompile(`[!！]`)
	reEndsQuery = regexp.MustCompile(`[?？]$`)

	reThreadStart = regexp.MustCompile(`🧵|スレッド|(?:^|\s)1/\d|①|(?m:^1\.)|以下|↓|👇|⬇|長くなるので|連投します|スレにします|(?i:\b(?:thread|a thread|long post below)\b)`)
	reContinues   = regexp.MustCompile(`続く|つづく|続きは|次は|まず|最初に|第一に|\.{3,}$|…$|(?i:\b(?:to be continued|more below|part 1|first off)\b)`)
	reMediaHint   = regexp.MustCompile(`pic\.twitter\.com|pbs\.twimg\.com|画像|動画|写真|スクショ|📷|📸|🎥|(?i:\b(?:screenshot|video|photo|image|watch this)\b)`)

	reCTA            = regexp.MustCompile(`いいね|👍|保存|ブックマーク|ブクマ|フォロー|リポスト|リツイート|拡散|シェア|コメント|返信|教えて|プロフ|固ツイ|DM|👇|↓|⬇|\bRT\b|(?i:\b(?:follow|like this|retweet|repost|share this|bookmark|save this|comment below|reply below|dm me|link in bio|subscribe)\b)`)
	reDisclosure     = regexp.MustCompile(`正直|実は|ぶっちゃけ|告白|本音|恥ずかしい|ド素人|初めて言う|(?i:\b(?:honestly|confession|to be honest|truth is|i have to admit|i'll admit|full disclosure|tbh|i was wrong|embarrassing)\b)`)
	reStory          = regexp.MustCompile(`まず|次に|そして|最後に|→|昔|以前|最初|今では|現在|私|僕|自分|実際に|やってみた|(?i:\b(?:before|after|years ago|last year|first time|back then|now i|i used to)\b)`)
	reInvitesReply   = regexp.MustCompile(`どう思|教えて|みんなは|皆さんは|意見|あなたは|君は|同じ人|経験ある|わかる人|(?i:\b(?:what do you think|let me know|how about you|what's your|which one|agree or disagree|anyone else)\b)`)
	reBookmark       = regexp.MustCompile(`保存|ブクマ|ブックマーク|メモ|後で|見返|\d+選|つのコツ|つの方法|ステップ|手順|まとめ|一覧|チェックリスト|テンプレ|フレームワーク|フォーマット|雛形|(?i:\b(?:save this|bookmark|checklist|template|framework|cheat ?sheet|step[- ]by[- ]step)\b)`)
	reProfile        = regexp.MustCompile(`プロフ|固ツイ|固定ツイート|自己紹介|年目|ヶ月目|万フォロワー|経歴|専門|秘密|内緒|ここだけ|非公開|(?:僕|私|俺).{0,10}(?:実は|正直|ぶっちゃけ)|(?i:\b(?:link in bio|check my profile|pinned|years of experience|founder of)\b)`)
	reAITopic        = regexp.MustCompile(`ChatGPT|Claude|GPT|Grok|Gemini|LLM|生成AI|\bAI\b|(?i:\b(?:openai|anthropic|copilot|machine learning|prompt engineering)\b)`)
	reExclusion      = regexp.MustCompile(`著作権|版権|海賊版|収益化停止|収益化が停止|剥奪|侵害|インプレゾンビ|(?i:\b(?:copyright|piracy|demonetized)\b)`)
	reGiveaway       = regexp.MustCompile(`プレゼント企画|プレゼントキャンペーン|抽選で|当選|フォロー&RT|フォロー＆RT|フォロー&リポスト|(?i:\b(?:giveaway|raffle|win a|follow and rt|follow & rt)\b)`)
)

// secretPhrases are counted once each.
var secretPhrases = []*regexp.Regexp{
	regexp.MustCompile(`知らないと`),
	regexp.MustCompile(`正直`),
	regexp.MustCompile(`マジで`),
	regexp.MustCompile(`ぶっちゃけ`),
	regexp.MustCompile(`本当は`),
	regexp.MustCompile(`実は`),
	regexp.MustCompile(`こっそり`),
	regexp.MustCompile(`秘密`),
	regexp.MustCompile(`裏技`),
	regexp.MustCompile(`内緒`),
	regexp.MustCompile(`ここだけ`),
	regexp.MustCompile(`言いにくい`),
	regexp.MustCompile(`素人`),
	regexp.MustCompile(`(?i:\bsecret\b)`),
	regexp.MustCompile(`(?i:\bnobody tells you\b|\bno one talks about\b)`),
	regexp.MustCompile(`(?i:\blittle[- ]known\b)`),
	regexp.MustCompile(`(?i:\binsider\b)`),
	regexp.MustCompile(`(?i:\bhidden\b)`),
}

// powerWords groups persuasive vocabulary; each group counts once.
var powerWords = []labeledPattern{
	{"urgency", regexp.MustCompile(`今すぐ|急いで|今だけ|期間限定|(?i:\b(?:right now|today only|last chance|urgent|don't miss)\b)`)},
	{"exclusivity", regexp.MustCompile(`秘密|裏技|内緒|ここだけ|非公開|限定|(?i:\b(?:secret|exclusive|insider|hidden)\b)`)},
	{"ease", regexp.MustCompile(`簡単|誰でも|初心者でも|すぐできる|ゼロから|スキル不要|(?i:\b(?:easy|simple|anyone can|beginner|effortless)\b)`)},
	{"proof", regexp.MustCompile(`実績|証明|データ|統計|調査|(?i:\b(?:proven|data|research|study|results)\b)`)},
	{"superlative", regexp.MustCompile(`最強|最高|神|衝撃|圧倒的|(?i:\b(?:best|ultimate|insane|game[- ]changer|mind[- ]blowing)\b)`)},
	{"free", regexp.MustCompile(`無料|0円|タダ|プレゼント|(?i:\b(?:free|bonus)\b)`)},
}

// openingPatterns are tried in order against the first line.
var openingPatterns = []labeledPattern{
	{"question", reQuestion},
	{"number_lead", regexp.MustCompile(`^[0-9０-９①-⑳]|[0-9０-９]+(?:つ|個|選)|(?i:\b\d+\s+(?:ways|tips|things|steps|lessons|reasons|tools|mistakes|habits)\b)`)},
	{"provocation", regexp.MustCompile(`は？|まじで|マジで|やばい|ヤバい|最悪|ありえない|(?i:\b(?:unpopular opinion|hot take|stop doing|nobody|you're wrong|insane|crazy)\b)`)},
	{"empathy", regexp.MustCompile(`わかる|共感|同じ|あるある|(?i:\b(?:relatable|me too|we all|been there)\b)`)},
	{"assertion", regexp.MustCompile(`です|ます|である|だ。|(?i:\b(?:always|never|must|the truth is|the key is|here's why)\b)`)},
	{"direct_address", regexp.MustCompile(`みなさん|あなた|皆さん|(?i:\b(?:you|your|everyone|folks)\b)`)},
}

// categoryPatterns are tried in priority order against the whole text.
var categoryPatterns = []labeledPattern{
	{"achievement", regexp.MustCompile(`達成|収益|稼げた|稼いだ|成功|実績|儲かった|万円|月収|年収|売上|報酬|利益|(?i:\b(?:achieved|milestone|revenue|earned|profit|mrr|arr)\b)`)},
	{"howto", regexp.MustCompile(`方法|やり方|コツ|手順|ステップ|テクニック|攻略|マニュアル|ガイド|(?i:\b(?:how to|step by step|tips|guide|tutorial|playbook)\b)`)},
	{"experience", regexp.MustCompile(`私が|僕が|自分が|実際に|やってみた|試してみた|体験|経験|(?i:\b(?:i tried|i spent|my experience|i learned|when i)\b)`)},
	{"problem", regexp.MustCompile(`は？|問題|危険|注意|警告|【悲報】|すぎる|ヤバい|おかしい|(?i:\b(?:problem|warning|danger|beware|broken|mistake)\b)`)},
	{"tool", regexp.MustCompile(`ツール|アプリ|サービス|プラグイン|拡張機能|おすすめ|紹介|Claude|ChatGPT|GPT|\bAI\b|(?i:\b(?:tool|app|plugin|extension|recommend)\b)`)},
	{"news", regexp.MustCompile(`発表|リリース|開始|開催|速報|最新|ニュース|公開|(?i:\b(?:announced|released|launched|breaking|just dropped|new version)\b)`)},
}

// emotionTriggers are coarse reader emotion families; each counts once.
var emotionTriggers = []labeledPattern{
	{"empathy", regexp.MustCompile(`わかる|そうそう|あるある|共感|同じ|僕も|私も|俺も|(?i:\b(?:me too|relatable|same here)\b)`)},
	{"surprise", regexp.MustCompile(`ヤバい|やばい|マジで|ガチで|すごい|凄い|衝撃|びっくり|ビックリ|えぐい|エグい|知らなかった|(?i:\b(?:wow|shocking|insane|mind[- ]blowing|unbelievable)\b)`)},
	{"fear", regexp.MustCompile(`危険|注意|ダメ|禁止|やめ|気をつけ|知らないと|損|失敗|後悔|怖い|(?i:\b(?:danger|careful|mistake|regret|scary|lose)\b)`)},
	{"expectation", regexp.MustCompile(`無料|0円|プレゼント|簡単|すぐ|今すぐ|稼げる|儲かる|最強|神|便利|おすすめ|(?i:\b(?:free|easy|opportunity|chance|best)\b)`)},
	{"curiosity", regexp.MustCompile(`知ってる|知らない|実は|本当は|意外|秘密|裏技|コツ|方法|やり方|(?i:\b(?:secret|surprising|did you know|turns out)\b)`)},
	{"anger", regexp.MustCompile(`ひどい|酷い|最悪|許せない|ムカつく|腹立つ|イライラ|(?i:\b(?:terrible|furious|outrageous|unacceptable)\b)`)},
}

// Tone families; each matching pattern adds one to its family score.
var (
	tonePositive = []*regexp.Regexp{
		regexp.MustCompile(`嬉しい|楽しい|幸せ|最高|素晴らしい|感謝|ありがとう|(?i:\b(?:happy|grateful|thank you|thanks|amazing|wonderful)\b)`),
		regexp.MustCompile(`おすすめ|良い|好き|素敵|神|便利|助かる|(?i:\b(?:love|great|helpful|recommend)\b)`),
		regexp.MustCompile(`成功|達成|実現|できた|やった|頑張|(?i:\b(?:success|achieved|did it|finally)\b)`),
		regexp.MustCompile(`ワクワク|期待|楽しみ|面白い|(?i:\b(?:excited|fun|can't wait)\b)`),
	}
	toneConstructive = []*regexp.Regexp{
		regexp.MustCompile(`方法|やり方|コツ|ステップ|手順|始め方|(?i:\b(?:how to|steps|tips)\b)`),
		regexp.MustCompile(`解決|改善|対策|提案|アドバイス|(?i:\b(?:solution|improve|fix|advice)\b)`),
		regexp.MustCompile(`学んだ|気づいた|発見|わかった|理解|(?i:\b(?:learned|realized|discovered|lesson)\b)`),
		regexp.MustCompile(`共有|シェア|紹介|まとめ|レビュー|(?i:\b(?:sharing|summary|review)\b)`),
		regexp.MustCompile(`経験|体験|実践|試し|チャレンジ|(?i:\b(?:experience|tried|experiment|challenge)\b)`),
	}
	toneNegative = []*regexp.Regexp{
		regexp.MustCompile(`最悪|ひどい|つらい|辛い|苦しい|悲しい|(?i:\b(?:terrible|awful|sad|painful)\b)`),
		regexp.MustCompile(`失敗|後悔|損|無駄|意味ない|(?i:\b(?:failed|failure|regret|waste|pointless)\b)`),
		regexp.MustCompile(`不安|怖い|心配|恐ろしい|(?i:\b(?:anxious|scared|worried|afraid)\b)`),
	}
	toneAggressive = []*regexp.Regexp{
		regexp.MustCompile(`バカ|アホ|クソ|死ね|消えろ|うざい|(?i:\b(?:idiot|stupid|moron|shut up)\b)`),
		regexp.MustCompile(`炎上|叩[かき]|批判|攻撃|許さない|ふざけるな|(?i:\b(?:destroy|attack|never forgive)\b)`),
		regexp.MustCompile(`嘘つき|詐欺|騙[しさ]|裏切り|(?i:\b(?:liar|scam|fraud|betrayed)\b)`),
	}
)

// internalHosts are platform-owned link targets that do not count as external.
var internalHosts = []string{"x.com", "twitter.com", "t.co", "pbs.twimg.com"}

// MatchesExclusion reports whether text is flame or copyright-dispute content
// that should be kept out of a calibration corpus.
func MatchesExclusion(text string) bool { return reExclusion.MatchString(text) }

// MatchesGiveaway reports whether text is a giveaway/campaign post.
func MatchesGiveaway(text string) bool { return reGiveaway.MatchString(text) }
