package matching

import (
	"regexp"
	"sort"
	"strings"
)

var keywordWordRe = regexp.MustCompile(`\b[a-z]{4,}\b`)

// keywordStopwords are frequent filler words excluded from extraction.
var keywordStopwords = map[string]struct{}{
	"with": {}, "that": {}, "this": {}, "from": {}, "will": {}, "have": {},
	"been": {}, "were": {}, "your": {}, "their": {}, "would": {}, "could": {},
	"should": {}, "about": {}, "which": {},
}

// ExtractKeywords pulls the top 20 words from text by frequency, ties broken
// by first appearance so repeated calls return the same list.
func ExtractKeywords(text string) []string {
	words := keywordWordRe.FindAllString(strings.ToLower(text), -1)

	freq := map[string]int{}
	firstSeen := map[string]int{}
	for i, word := range words {
		if _, stop := keywordStopwords[word]; stop {
			continue
		}
		if _, ok := freq[word]; !ok {
			firstSeen[word] = i
		}
		freq[word]++
	}

	ranked := make([]string, 0, len(freq))
	for word := range freq {
		ranked = append(ranked, word)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if freq[ranked[i]] != freq[ranked[j]] {
			return freq[ranked[i]] > freq[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})

	if len(ranked) > 20 {
		ranked = ranked[:20]
	}
	return ranked
}
