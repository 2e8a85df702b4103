package features

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/tokenize"
	"golang.org/x/text/unicode/norm"
)

var wordTokenizer = tokenize.NewTreebankWordTokenizer()

// Tokenize splits raw tweet text into lower-cased tokens.
func Tokenize(text string) []string {
	tokens := wordTokenizer.Tokenize(norm.NFKC.String(text))
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return tokens
}

// letterWords returns the lower-cased runs of letters in
// content, in order.
func letterWords(content string) []string {
	var res []string
	wordStart := 0
	runes := []rune(content)
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			if i > wordStart {
				res = append(res, strings.ToLower(string(runes[wordStart:i])))
			}
			wordStart = i + 1
		}
	}
	if wordStart < len(runes) {
		res = append(res, strings.ToLower(string(runes[wordStart:])))
	}
	return res
}

// normalizeToken lower-cases a token and drops a leading
// hashtag, so "#Headache" matches lexicon entry "headache".
func normalizeToken(t string) string {
	return strings.ToLower(strings.TrimPrefix(t, "#"))
}

func countTokens(docs [][]string) map[string]int {
	counts := map[string]int{}
	for _, doc := range docs {
		for _, t := range doc {
			counts[t]++
		}
	}
	return counts
}
