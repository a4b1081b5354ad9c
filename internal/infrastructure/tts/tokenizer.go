package tts

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTokenChars 单次请求允许的最大字符数
const MaxTokenChars = 100

const (
	toneMarks        = "?!？！"
	otherPunctuation = "¡()[]¿…‥،;—。，、：\n"
	allPunctuation   = toneMarks + ".,:" + otherPunctuation
)

var abbreviations = regexp.MustCompile(`(?i)\b(dr|jr|mr|mrs|ms|msgr|prof|sr|st)\.`)

// Tokenize 把文本切成不超过 maxChars 个字符的片段
// 在语气符号、句读、冒号和其他标点处断开；小数点和时间里的冒号保留。
func Tokenize(text string, maxChars int) []string {
	text = strings.ReplaceAll(text, "-\n", "")
	text = abbreviations.ReplaceAllString(text, "$1")

	var tokens []string
	for _, tok := range split(text) {
		tokens = append(tokens, minimize(strings.TrimSpace(tok), maxChars)...)
	}

	out := tokens[:0]
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || isPunctuationOnly(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func split(text string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		next, hasNext := rune(0), i+1 < len(runes)
		if hasNext {
			next = runes[i+1]
		}

		switch {
		case strings.ContainsRune(toneMarks, r):
			cur.WriteRune(r)
			flush()
		case r == '.' || r == ',':
			if !hasNext || unicode.IsSpace(next) {
				flush()
			} else {
				cur.WriteRune(r)
			}
		case r == ':':
			if hasNext && unicode.IsDigit(next) {
				cur.WriteRune(r)
			} else {
				flush()
			}
		case strings.ContainsRune(otherPunctuation, r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// minimize 在最后一个空格处递归切分超长片段，找不到空格时硬切
func minimize(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) <= maxChars {
		return []string{s}
	}

	runes := []rune(s)
	idx := -1
	for i := maxChars - 1; i > 0; i-- {
		if runes[i] == ' ' {
			idx = i
			break
		}
	}
	if idx <= 0 {
		idx = maxChars
	}
	head := strings.TrimSpace(string(runes[:idx]))
	tail := strings.TrimSpace(string(runes[idx:]))

	out := []string{}
	if head != "" {
		out = append(out, head)
	}
	return append(out, minimize(tail, maxChars)...)
}

func isPunctuationOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && !strings.ContainsRune(allPunctuation, r) {
			return false
		}
	}
	return true
}
