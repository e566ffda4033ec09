// Package parser turns raw resume text plus NER entities into a
// StructuredResume. Extraction is heuristic and never fails: any field the
// heuristics cannot find degrades to its empty sentinel instead of returning
// an error.
package parser

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"resumescreen/internal/taxonomy"
	"resumescreen/internal/types"
)

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)

	// Phone patterns are tried in order; the first match wins.
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
	}
)

// Parser extracts structured resume data. Safe for concurrent use; it keeps
// no per-call state.
type Parser struct {
	now func() time.Time
}

// New returns a Parser using the wall clock.
func New() *Parser {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Parser with an injected clock. The clock resolves
// "present" end dates and stamps parse metadata, so tests can pin it.
func NewWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Structure parses raw resume text and NER entities into the canonical
// record. It never returns an error; every extraction degrades independently.
func (p *Parser) Structure(rawText string, entities []types.Entity) types.StructuredResume {
	return types.StructuredResume{
		PersonalInfo: p.extractPersonalInfo(rawText, entities),
		Skills:       p.extractSkills(rawText),
		Experience:   p.extractExperience(rawText),
		Education:    p.extractEducation(rawText, entities),
		Summary:      p.extractSummary(rawText),
		Keywords:     extractKeywords(entities),
		Metadata: types.ResumeMetadata{
			TextLength: len(rawText),
			WordCount:  len(strings.Fields(rawText)),
			ParsedAt:   p.now().UTC(),
		},
	}
}

func (p *Parser) extractPersonalInfo(text string, entities []types.Entity) types.PersonalInfo {
	info := types.PersonalInfo{}

	if m := emailRe.FindString(text); m != "" {
		info.Email = m
	}
	for _, re := range phoneRes {
		if m := re.FindString(text); m != "" {
			info.Phone = m
			break
		}
	}

	info.Name = extractName(text, entities)

	for _, ent := range entities {
		if ent.Label == "GPE" || ent.Label == "LOC" {
			info.Location = ent.Text
			break
		}
	}

	if m := linkedinRe.FindString(text); m != "" {
		info.LinkedIn = m
	}
	if m := githubRe.FindString(text); m != "" {
		info.GitHub = m
	}

	return info
}

// extractName scans the first five non-empty lines for a plausible name
// (2 to 4 words, no digits, no '@', every word capitalized, not a section
// heading), then falls back to the first PERSON entity, then to "Unknown".
func extractName(text string, entities []types.Entity) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > 5 {
			break
		}
		if isPlausibleName(line) {
			return line
		}
	}

	for _, ent := range entities {
		if ent.Label == "PERSON" {
			return ent.Text
		}
	}

	return "Unknown"
}

func isPlausibleName(line string) bool {
	if strings.ContainsAny(line, "@0123456789") {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	lower := strings.ToLower(line)
	for _, heading := range commonHeadings {
		if strings.Contains(lower, heading) {
			return false
		}
	}
	return true
}

// termRes holds one compiled whole-word matcher per vocabulary term, built
// once at startup.
var termRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp)
	for _, category := range taxonomy.VocabularyCategories() {
		for _, term := range taxonomy.VocabularyTerms(category) {
			res[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		}
	}
	return res
}()

// extractSkills tests every taxonomy vocabulary term for whole-word
// containment. Presence is binary, no fuzzy matching.
func (p *Parser) extractSkills(text string) types.SkillSet {
	textLower := strings.ToLower(text)

	categorized := make(map[string][]string)
	seen := make(map[string]bool)
	var all []string

	for _, category := range taxonomy.VocabularyCategories() {
		var found []string
		for _, term := range taxonomy.VocabularyTerms(category) {
			if termRes[term].MatchString(textLower) {
				display := titleCase(term)
				found = append(found, display)
				if !seen[display] {
					seen[display] = true
					all = append(all, display)
				}
			}
		}
		if len(found) > 0 {
			categorized[category] = found
		}
	}

	sort.Strings(all)
	return types.SkillSet{
		Categorized: categorized,
		All:         all,
		Count:       len(all),
	}
}

func (p *Parser) extractSummary(text string) string {
	section := extractSection(text, summaryHeadings)
	if section == "" {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 30 {
			kept = append(kept, line)
		}
		if len(kept) == 3 {
			break
		}
	}
	summary := strings.Join(kept, " ")
	if len(summary) > maxSummaryLen {
		summary = summary[:maxSummaryLen]
	}
	return summary
}

const maxSummaryLen = 1000

var keywordLabels = map[string]bool{
	"ORG":         true,
	"PRODUCT":     true,
	"GPE":         true,
	"WORK_OF_ART": true,
}

// extractKeywords takes entity texts with notable labels, deduplicated in
// first-seen order, capped at 30.
func extractKeywords(entities []types.Entity) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, ent := range entities {
		if !keywordLabels[ent.Label] || seen[ent.Text] {
			continue
		}
		seen[ent.Text] = true
		keywords = append(keywords, ent.Text)
		if len(keywords) == 30 {
			break
		}
	}
	return keywords
}

// titleCase capitalizes the letter following every non-letter boundary, so
// "node.js" becomes "Node.Js" and "machine learning" becomes
// "Machine Learning".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

