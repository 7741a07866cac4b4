package evaluation

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordPattern tokenizes text into alphanumeric words.
var wordPattern = regexp.MustCompile(`\w+`)

// faithfulnessStopWords are dropped before checking grounding. The set and
// the minimum word length (>3 characters) are fixed; changing either changes
// reported scores.
var faithfulnessStopWords = stopWordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "can", "this", "that", "these", "those",
)

// relevancyStopWords additionally drop interrogative and instruction words,
// which carry no topical content in a query.
var relevancyStopWords = stopWordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "is", "are", "was", "were", "be", "been", "being",
	"what", "how", "why", "when", "where", "who", "which", "explain",
	"describe", "discuss", "provide",
)

func stopWordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// contentWords returns the lower-cased words of text longer than three
// characters that are not in the stop set.
func contentWords(text string, stop map[string]struct{}) []string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 3 {
			continue
		}
		if _, skip := stop[w]; skip {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Faithfulness measures how much of the response vocabulary is grounded in
// the supplied context passages. It is a bag-of-words proxy, not semantic
// entailment: a word counts as grounded when it appears as a substring
// anywhere in the concatenated context, so coincidental matches inside
// unrelated longer words are overcounted.
//
// Returns 0 for an empty response or empty context, and 0.5 (a neutral
// placeholder) when the response has no content words after filtering.
func Faithfulness(response string, context []string) float64 {
	if response == "" || len(context) == 0 {
		return 0
	}

	contextText := strings.ToLower(strings.Join(context, " "))

	words := contentWords(response, faithfulnessStopWords)
	if len(words) == 0 {
		return 0.5
	}

	grounded := 0
	for _, w := range words {
		if strings.Contains(contextText, w) {
			grounded++
		}
	}

	return math.Min(float64(grounded)/float64(len(words)), 1.0)
}

// Relevancy measures how much of the query vocabulary reappears in the
// response, with a penalty for responses that are very short (<50 chars,
// x0.7) or very long (>1000 chars, x0.9).
//
// Returns 0 for an empty query or response, and 0.5 when the query has no
// content words after filtering.
func Relevancy(query, response string) float64 {
	if query == "" || response == "" {
		return 0
	}

	responseLower := strings.ToLower(response)

	terms := contentWords(query, relevancyStopWords)
	if len(terms) == 0 {
		return 0.5
	}

	matching := 0
	for _, term := range terms {
		if strings.Contains(responseLower, term) {
			matching++
		}
	}
	score := float64(matching) / float64(len(terms))

	// Length thresholds are in characters, not bytes.
	lengthPenalty := 1.0
	switch n := utf8.RuneCountInString(response); {
	case n < 50:
		lengthPenalty = 0.7
	case n > 1000:
		lengthPenalty = 0.9
	}

	return math.Min(score*lengthPenalty, 1.0)
}

// ResponseLength counts whitespace-delimited words.
func ResponseLength(response string) int {
	return len(strings.Fields(response))
}
