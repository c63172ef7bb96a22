// Package ai provides lightweight content analysis for pages: tag
// suggestions, sentiment scoring, entity extraction and extractive
// summaries. Everything here is heuristic - word frequency and
// capitalization - and runs locally with no model downloads.
package ai

import (
	"errors"
	"sort"
	"strings"
	"unicode"
)

// ErrUnavailable is returned for analysis features that require a local
// model which is not installed (currently audio transcription).
var ErrUnavailable = errors.New("analysis feature unavailable")

// Analyzer is the content-analysis surface the rest of the application
// talks to.
type Analyzer interface {
	SuggestTags(content string) []string
	Sentiment(text string) float64
	ExtractEntities(text string) []string
	Summarize(text string) string
	Transcribe(audio []byte) (string, error)
}

// Heuristic implements Analyzer with purely local, deterministic rules.
type Heuristic struct{}

// NewHeuristic returns the default local analyzer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// SuggestTags proposes up to five tags: words appearing more than once
// (stop words excluded) plus capitalized words, lowercased, sorted and
// deduplicated.
func (h *Heuristic) SuggestTags(content string) []string {
	freq := make(map[string]int)
	for _, word := range strings.Fields(content) {
		if len(word) <= 3 || isCommonWord(word) {
			continue
		}
		clean := strings.ToLower(trimNonAlnum(word))
		if clean != "" {
			freq[clean]++
		}
	}

	var suggestions []string
	for word, count := range freq {
		if count > 1 {
			suggestions = append(suggestions, word)
		}
	}
	for _, word := range strings.Fields(content) {
		clean := trimNonAlnum(word)
		if len(clean) > 2 && startsUpper(clean) {
			suggestions = append(suggestions, strings.ToLower(clean))
		}
	}

	sort.Strings(suggestions)
	suggestions = dedupe(suggestions)
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

// Sentiment scores text in [-1, 1] as the signed ratio of positive to
// negative word hits. Text with no hits scores 0.
func (h *Heuristic) Sentiment(text string) float64 {
	var positive, negative int
	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		case positiveWords[lower]:
			positive++
		case negativeWords[lower]:
			negative++
		}
	}
	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

// ExtractEntities returns up to ten capitalized words, original casing
// preserved, sorted and deduplicated.
func (h *Heuristic) ExtractEntities(text string) []string {
	var entities []string
	for _, word := range strings.Fields(text) {
		clean := trimNonAlnum(word)
		if len(clean) > 2 && startsUpper(clean) {
			entities = append(entities, clean)
		}
	}
	sort.Strings(entities)
	entities = dedupe(entities)
	if len(entities) > 10 {
		entities = entities[:10]
	}
	return entities
}

// Summarize produces an extractive summary: sentences are scored by the
// mean document frequency of their words and the top third (at least
// one, at most three) are returned in original order. Empty text yields
// an empty summary.
func (h *Heuristic) Summarize(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	freq := make(map[string]int)
	for _, sentence := range sentences {
		for _, word := range strings.Fields(sentence) {
			clean := strings.ToLower(trimNonAlnum(word))
			if clean != "" && !isCommonWord(clean) {
				freq[clean]++
			}
		}
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sentence := range sentences {
		words := strings.Fields(sentence)
		var sum float64
		for _, word := range words {
			sum += float64(freq[strings.ToLower(trimNonAlnum(word))])
		}
		score := 0.0
		if len(words) > 0 {
			score = sum / float64(len(words))
		}
		scores[i] = scored{index: i, score: score}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	n := len(sentences) / 3
	if n < 1 {
		n = 1
	}
	if n > 3 {
		n = 3
	}
	picked := make([]int, 0, n)
	for _, s := range scores[:n] {
		picked = append(picked, s.index)
	}
	sort.Ints(picked)

	parts := make([]string, len(picked))
	for i, idx := range picked {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, ". ") + "."
}

// Transcribe is not supported by the heuristic analyzer; it always
// returns ErrUnavailable.
func (h *Heuristic) Transcribe(_ []byte) (string, error) {
	return "", ErrUnavailable
}

// Snippet returns a window of content around the first case-insensitive
// occurrence of query, ellipsized, or the leading 100 characters when
// the query does not occur.
func Snippet(content, query string) string {
	pos := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if pos < 0 {
		r := []rune(content)
		if len(r) > 100 {
			r = r[:100]
		}
		return string(r) + "..."
	}
	start := pos - 50
	if start < 0 {
		start = 0
	}
	end := pos + len(query) + 50
	if end > len(content) {
		end = len(content)
	}
	if start > 0 {
		return "..." + content[start:end] + "..."
	}
	return content[start:end] + "..."
}

// MatchedTerms returns the query words that occur in content,
// case-insensitive, in query order.
func MatchedTerms(content, query string) []string {
	lower := strings.ToLower(content)
	var matched []string
	for _, word := range strings.Fields(query) {
		if strings.Contains(lower, strings.ToLower(word)) {
			matched = append(matched, word)
		}
	}
	return matched
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences
}

func trimNonAlnum(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
