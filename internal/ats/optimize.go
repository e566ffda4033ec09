package ats

import (
	"fmt"
	"strings"

	"resumescreen/internal/types"
)

// Optimize suggests text-level improvements and applies the safe automatic
// ones (whitespace normalization, bullet spacing). The original text is never
// rewritten beyond those.
func (a *Analyzer) Optimize(text string, jobKeywords []string) *types.OptimizeResult {
	suggestions := []string{}
	keywordAdditions := []string{}

	if len(jobKeywords) > 0 {
		analysis := a.Analyze(text, jobKeywords)
		missing := analysis.Keywords.MissingKeywords
		if len(missing) > 5 {
			missing = missing[:5]
		}
		if len(missing) > 0 {
			keywordAdditions = missing
			suggestions = append(suggestions, fmt.Sprintf(
				"Naturally incorporate these keywords into your experience descriptions: %s",
				strings.Join(missing, ", ")))
		}
	}

	textLower := strings.ToLower(text)
	for _, weak := range weakPhraseOrder {
		if strings.Contains(textLower, weak) {
			suggestions = append(suggestions, fmt.Sprintf(
				"Replace '%s' with '%s' for stronger impact", weak, weakPhrases[weak]))
		}
	}

	return &types.OptimizeResult{
		OptimizedText:    autoOptimize(text),
		Suggestions:      suggestions,
		KeywordAdditions: keywordAdditions,
	}
}

func autoOptimize(text string) string {
	optimized := multiBlankRe.ReplaceAllString(text, "\n\n")
	optimized = multiSpaceRe.ReplaceAllString(optimized, " ")
	optimized = tightBulletRe.ReplaceAllString(optimized, "$1 $2")
	return optimized
}
