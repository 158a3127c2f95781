package features

import (
	"regexp"
	"strings"
)

// tokenRegex matches runs of two or more letters, digits or underscores
var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// analyzer turns text into the terms counted by the vectorizer
type analyzer struct {
	minN, maxN int
	stopWords  map[string]struct{}
}

func newAnalyzer(cfg Config) *analyzer {
	a := &analyzer{minN: cfg.MinN, maxN: cfg.MaxN}
	if cfg.StopWords {
		a.stopWords = englishStopWords
	}
	return a
}

// tokenize lower-cases text and drops stop words
func (a *analyzer) tokenize(text string) []string {
	raw := tokenRegex.FindAllString(strings.ToLower(text), -1)
	if a.stopWords == nil {
		return raw
	}
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := a.stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// terms returns the n-grams of text for every n in [minN, maxN].
// N-grams are built over the tokens that survive stop-word removal.
func (a *analyzer) terms(text string) []string {
	tokens := a.tokenize(text)
	if a.minN == 1 && a.maxN == 1 {
		return tokens
	}

	var out []string
	if a.minN <= 1 {
		out = append(out, tokens...)
	}
	start := a.minN
	if start < 2 {
		start = 2
	}
	for n := start; n <= a.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
