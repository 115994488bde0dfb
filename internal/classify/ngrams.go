package classify

import (
	"sort"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
)

// english stopwords, trimmed to the terms that actually show up in
// fire-service incident detail text.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "by": true, "for": true, "from": true,
	"had": true, "has": true, "have": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "of": true, "on": true, "or": true,
	"out": true, "over": true, "the": true, "to": true, "under": true,
	"up": true, "was": true, "were": true, "with": true,
}

// NgramCount is one n-gram and how often it occurred.
type NgramCount struct {
	Ngram string `json:"ngram"`
	Count int    `json:"count"`
}

// Tokenize segments text into lowercase word tokens, dropping punctuation,
// whitespace and stopwords.
func Tokenize(text string) []string {
	var tokens []string

	segments := words.FromString(strings.ToLower(text))
	for segments.Next() {
		token := strings.TrimSpace(segments.Value())
		if token == "" || !isWord(token) || stopwords[token] {
			continue
		}

		tokens = append(tokens, token)
	}

	return tokens
}

func isWord(token string) bool {
	for _, r := range token {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return true
		}
	}

	return false
}

// Ngrams returns the n-grams of a token sequence joined with single spaces.
func Ngrams(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return nil
	}

	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}

	return grams
}

// NgramCounts tokenizes every text, extracts n-grams and returns the counts
// sorted by frequency then alphabetically. Used by the report layer to show
// what the calls are about.
func NgramCounts(texts []string, n int) []NgramCount {
	counts := make(map[string]int)

	for _, text := range texts {
		for _, gram := range Ngrams(Tokenize(text), n) {
			counts[gram]++
		}
	}

	out := make([]NgramCount, 0, len(counts))
	for gram, count := range counts {
		out = append(out, NgramCount{Ngram: gram, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Ngram < out[j].Ngram
	})

	return out
}
