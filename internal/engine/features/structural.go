package features

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

func charLength(in *Input) (Value, error) {
	return Numeric(float64(utf8.RuneCountInString(in.Text))), nil
}

// lineCount counts line breaks, so a single-line post is 0.
func lineCount(in *Input) (Value, error) {
	return Numeric(float64(strings.Count(in.Text, "\n"))), nil
}

func wordCount(in *Input) (Value, error) {
	return Numeric(float64(len(strings.Fields(in.Text)))), nil
}

func firstLineLength(in *Input) (Value, error) {
	return Numeric(float64(utf8.RuneCountInString(in.FirstLine))), nil
}

func punctuationDensity(in *Input) (Value, error) {
	total, punct := 0, 0
	for _, r := range in.Text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsPunct(r) {
			punct++
		}
	}
	if total == 0 {
		return Value{}, &InputShapeError{Field: "text", Reason: "no visible characters"}
	}
	return Numeric(float64(punct) / float64(total)), nil
}

func countOf(re interface{ FindAllStringIndex(string, int) [][]int }) func(*Input) (Value, error) {
	return func(in *Input) (Value, error) {
		return Numeric(float64(len(re.FindAllStringIndex(in.Text, -1)))), nil
	}
}

func matchOf(re interface{ MatchString(string) bool }) func(*Input) (Value, error) {
	return func(in *Input) (Value, error) {
		return Boolean(re.MatchString(in.Text)), nil
	}
}

func hasExternalLink(in *Input) (Value, error) {
	for _, raw := range reURL.FindAllString(in.Text, -1) {
		u, err := url.Parse(strings.TrimRight(raw, ".,)）」"))
		if err != nil || u.Host == "" {
			continue
		}
		if !isInternalHost(u.Hostname()) {
			return Boolean(true), nil
		}
	}
	return Boolean(false), nil
}

func isInternalHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range internalHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func uppercaseRatio(in *Input) (Value, error) {
	upper, cased := 0, 0
	for _, r := range in.Text {
		switch {
		case unicode.IsUpper(r):
			upper++
			cased++
		case unicode.IsLower(r):
			cased++
		}
	}
	if cased == 0 {
		return Value{}, &InputShapeError{Field: "text", Reason: "no cased letters"}
	}
	return Numeric(float64(upper) / float64(cased)), nil
}

// isThread prefers the caller's thread flag over text signals.
func isThread(in *Input) (Value, error) {
	if in.Meta.IsThread != nil {
		return Boolean(*in.Meta.IsThread), nil
	}
	return Boolean(reThreadStart.MatchString(in.Text)), nil
}

func hasContinuationHint(in *Input) (Value, error) {
	return Boolean(reContinues.MatchString(in.Trimmed)), nil
}
