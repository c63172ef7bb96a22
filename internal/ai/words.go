package ai

import "strings"

// Word lists for the heuristic analyzer. Membership maps are built once
// at init so the hot paths stay allocation-free.

var commonWords = wordSet(
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "from", "up", "about", "into", "through", "during", "before",
	"after", "above", "below", "between", "among", "within", "without",
	"this", "that", "these", "those", "is", "are", "was", "were", "be",
	"been", "being", "have", "has", "had", "do", "does", "did", "will",
	"would", "could", "should", "may", "might", "can", "shall", "must",
	"not", "no", "yes", "if", "then", "else", "when", "where", "why",
	"how", "what", "who", "which", "whose", "whom", "all", "any", "both",
	"each", "few", "more", "most", "other", "some", "such", "only", "own",
	"same", "so", "than", "too", "very", "just",
)

var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"love", "like", "enjoy", "happy", "joy", "success", "win", "best",
	"awesome", "brilliant", "perfect", "outstanding", "superb", "marvelous",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "horrible", "hate", "dislike", "sad",
	"angry", "frustrated", "fail", "lose", "worst", "problem", "issue",
	"difficult", "hard", "challenging", "disappointing", "poor", "weak",
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isCommonWord(word string) bool {
	return commonWords[strings.ToLower(word)]
}
