package textfeatures

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// A token is a maximal run of at least two letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize normalizes text (NFKC, lowercase) and splits it into word tokens.
// Stop words are not removed here.
func Tokenize(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))
	return tokenPattern.FindAllString(text, -1)
}

// Analyze tokenizes text and drops English stop words when stopWords is set.
func Analyze(text string, stopWords bool) []string {
	tokens := Tokenize(text)
	if !stopWords {
		return tokens
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if IsStopWord(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}
