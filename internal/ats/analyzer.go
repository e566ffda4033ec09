// Package ats scores raw resume text for applicant-tracking-system
// compatibility. It works on the raw text directly and does not depend on
// the structured parse.
package ats

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// Category weights for the overall score.
const (
	formatWeight    = 0.25
	keywordWeight   = 0.35
	structureWeight = 0.20
	contentWeight   = 0.20
)

// genericKeywords stand in when the caller supplies no job keywords.
var genericKeywords = []string{
	"experience", "skills", "education", "project", "team",
	"developed", "managed", "implemented", "achieved",
}

var actionVerbs = []string{
	"achieved", "implemented", "developed", "created", "designed",
	"built", "improved", "increased", "reduced", "managed",
	"led", "directed", "coordinated", "executed", "delivered",
	"optimized", "streamlined", "launched", "established", "spearheaded",
}

var recommendedFonts = []string{
	"Arial", "Calibri", "Georgia", "Helvetica",
	"Times New Roman", "Verdana", "Cambria",
}

// problematicElements are markup fragments that commonly break ATS parsers.
// Evaluated in order so issue lists are stable.
var problematicElements = []struct {
	name string
	re   *regexp.Regexp
}{
	{"tables", regexp.MustCompile(`(?i)<table|<td|<tr`)},
	{"images", regexp.MustCompile(`(?i)<img|!\[.*\]\(`)},
	{"graphics", regexp.MustCompile(`(?i)<svg|<canvas`)},
	{"text_boxes", regexp.MustCompile(`(?i)<div.*position.*absolute`)},
	{"columns", regexp.MustCompile(`(?i)column-count|display.*flex.*column`)},
}

var (
	specialCharRe   = regexp.MustCompile(`[^\w\s\-.,;:()\[\]@/]`)
	paragraphRe     = regexp.MustCompile(`\n\n`)
	emailRe         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe         = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	dateTokenRe     = regexp.MustCompile(`\b\d{4}\b|\b\w+\s+\d{4}\b`)
	quantifiableRe  = regexp.MustCompile(`\b\d+%|\b\d+\+|\$\d+|\b\d+x\b`)
	bulletMarkRe    = regexp.MustCompile(`[•\-\*]\s`)
	verbRes         = compileWordRes(actionVerbs)
	multiBlankRe    = regexp.MustCompile(`\n\n\n+`)
	multiSpaceRe    = regexp.MustCompile(`  +`)
	tightBulletRe   = regexp.MustCompile(`([•\-\*])(\w)`)
	weakPhraseOrder = []string{"responsible for", "helped with", "worked on", "duties included"}
	weakPhrases     = map[string]string{
		"responsible for": "managed",
		"helped with":     "contributed to",
		"worked on":       "developed",
		"duties included": "key achievements include",
	}
)

func compileWordRes(words []string) map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(words))
	for _, w := range words {
		res[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return res
}

// Analyzer scores resumes for ATS friendliness. Stateless and safe for
// concurrent use.
type Analyzer struct {
	logger *errors.Logger
}

func New(logger *errors.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze runs all four category analyses and combines them into a report.
// jobKeywords may be empty; a generic keyword list is used instead.
func (a *Analyzer) Analyze(resumeText string, jobKeywords []string) *types.ATSReport {
	format := analyzeFormat(resumeText)
	keywords := analyzeKeywords(resumeText, jobKeywords)
	structure := analyzeStructure(resumeText)
	content := analyzeContent(resumeText)

	overall := format.Score*formatWeight +
		keywords.Score*keywordWeight +
		structure.Score*structureWeight +
		content.Score*contentWeight

	report := &types.ATSReport{
		OverallScore:      math.Round(overall*10) / 10,
		Grade:             grade(overall),
		ATSFriendly:       overall >= 70,
		Format:            format,
		Keywords:          keywords,
		Structure:         structure,
		Content:           content,
		CriticalIssues:    criticalIssues(format, keywords, structure, content),
		Recommendations:   recommendations(format, keywords, structure, content),
		EstimatedPassRate: fmt.Sprintf("%d%%", min(95, int(overall))),
	}
	return report
}

func analyzeFormat(text string) types.FormatAnalysis {
	issues := []string{}
	score := 100.0

	for _, pe := range problematicElements {
		if pe.re.MatchString(text) {
			issues = append(issues, fmt.Sprintf("Contains %s which may not parse correctly", pe.name))
			score -= 15
		}
	}

	specialChars := len(specialCharRe.FindAllString(text, -1))
	if specialChars > 20 {
		issues = append(issues, fmt.Sprintf("Contains %d special characters (reduce to improve parsing)", specialChars))
		score -= 10
	}

	if !paragraphRe.MatchString(text) {
		issues = append(issues, "Lacks clear paragraph breaks")
		score -= 10
	}

	longLines := 0
	for _, line := range strings.Split(text, "\n") {
		if len(line) > 200 {
			longLines++
		}
	}
	if longLines > 5 {
		issues = append(issues, fmt.Sprintf("%d very long lines detected (may indicate formatting issues)", longLines))
		score -= 10
	}

	return types.FormatAnalysis{Score: math.Max(0, score), Issues: issues}
}

func analyzeKeywords(text string, jobKeywords []string) types.KeywordAnalysis {
	textLower := strings.ToLower(text)

	keywords := jobKeywords
	if len(keywords) == 0 {
		keywords = genericKeywords
	}

	matched := []string{}
	missing := []string{}
	for _, kw := range keywords {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
		if re.MatchString(textLower) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	score := float64(len(matched)) / float64(len(keywords)) * 100

	wordCount := len(strings.Fields(text))
	keywordHits := 0
	for _, kw := range matched {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
		keywordHits += len(re.FindAllString(textLower, -1))
	}
	density := 0.0
	if wordCount > 0 {
		density = float64(keywordHits) / float64(wordCount) * 100
	}

	issues := []string{}
	if density < 2 {
		issues = append(issues, fmt.Sprintf("Low keyword density (%.1f%%) - increase mentions of key skills", density))
	} else if density > 5 {
		issues = append(issues, fmt.Sprintf("High keyword density (%.1f%%) - avoid keyword stuffing", density))
	}
	if float64(len(missing)) > float64(len(keywords))*0.5 {
		issues = append(issues, fmt.Sprintf("Missing %d important keywords", len(missing)))
	}

	return types.KeywordAnalysis{
		Score:           math.Round(score*10) / 10,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Density:         math.Round(density*100) / 100,
		Issues:          issues,
	}
}

func analyzeStructure(text string) types.StructureAnalysis {
	issues := []string{}
	score := 100.0
	textLower := strings.ToLower(text)

	found := []string{}
	for _, section := range []string{"experience", "education", "skills"} {
		if strings.Contains(textLower, section) {
			found = append(found, section)
		} else {
			issues = append(issues, fmt.Sprintf("Missing '%s' section", section))
			score -= 20
		}
	}
	for _, section := range []string{"summary", "certifications", "projects"} {
		if strings.Contains(textLower, section) {
			found = append(found, section)
		}
	}

	hasEmail := emailRe.MatchString(text)
	hasPhone := phoneRe.MatchString(text)
	if !hasEmail {
		issues = append(issues, "Missing email address")
		score -= 15
	}
	if !hasPhone {
		issues = append(issues, "Missing phone number")
		score -= 10
	}

	experienceSection := extractSection(text, []string{"experience", "work history"})
	if experienceSection != "" {
		if len(dateTokenRe.FindAllString(experienceSection, -1)) < 2 {
			issues = append(issues, "Experience section lacks date information")
			score -= 15
		}
	}

	return types.StructureAnalysis{
		Score:         math.Max(0, score),
		FoundSections: found,
		HasEmail:      hasEmail,
		HasPhone:      hasPhone,
		Issues:        issues,
	}
}

func analyzeContent(text string) types.ContentAnalysis {
	issues := []string{}
	score := 100.0
	textLower := strings.ToLower(text)

	verbCount := 0
	for _, verb := range actionVerbs {
		if verbRes[verb].MatchString(textLower) {
			verbCount++
		}
	}
	if verbCount < 5 {
		issues = append(issues, fmt.Sprintf("Only %d action verbs found (use more dynamic language)", verbCount))
		score -= 15
	}

	quantifiables := len(quantifiableRe.FindAllString(text, -1))
	if quantifiables < 3 {
		issues = append(issues, "Add quantifiable achievements (percentages, numbers, metrics)")
		score -= 15
	}

	wordCount := len(strings.Fields(text))
	if wordCount < 200 {
		issues = append(issues, fmt.Sprintf("Resume too short (%d words) - add more detail", wordCount))
		score -= 20
	} else if wordCount > 1000 {
		issues = append(issues, fmt.Sprintf("Resume too long (%d words) - be more concise", wordCount))
		score -= 10
	}

	buzzwords := []string{"team player", "hard worker", "detail-oriented", "results-driven"}
	buzzwordCount := 0
	for _, bw := range buzzwords {
		if strings.Contains(textLower, bw) {
			buzzwordCount++
		}
	}
	if buzzwordCount > 3 {
		issues = append(issues, "Too many generic buzzwords - provide specific examples instead")
		score -= 10
	}

	bulletCount := len(bulletMarkRe.FindAllString(text, -1))
	if bulletCount < 5 {
		issues = append(issues, "Use more bullet points to improve readability")
		score -= 10
	}

	return types.ContentAnalysis{
		Score:             math.Max(0, score),
		Issues:            issues,
		ActionVerbCount:   verbCount,
		QuantifiableCount: quantifiables,
		WordCount:         wordCount,
	}
}

func recommendations(format types.FormatAnalysis, keywords types.KeywordAnalysis, structure types.StructureAnalysis, content types.ContentAnalysis) []string {
	recs := []string{}

	if format.Score < 70 {
		recs = append(recs, "Fix Formatting Issues: remove tables, images, and complex layouts. Use simple, clean formatting.")
	}
	if keywords.Score < 60 {
		top := keywords.MissingKeywords
		if len(top) > 5 {
			top = top[:5]
		}
		recs = append(recs, fmt.Sprintf("Add Missing Keywords: include these keywords: %s", strings.Join(top, ", ")))
	}
	if structure.Score < 70 {
		recs = append(recs, "Improve Resume Structure: add missing sections and ensure proper organization with clear headings.")
	}
	if content.Score < 70 {
		recs = append(recs, "Enhance Content Quality: use more action verbs and add quantifiable achievements.")
	}

	recs = append(recs,
		fmt.Sprintf("Use Standard Fonts: stick to ATS-friendly fonts: %s", strings.Join(recommendedFonts[:4], ", ")),
		"Save as .docx or PDF: most ATS systems parse .docx and PDF files best.")
	return recs
}

func criticalIssues(format types.FormatAnalysis, keywords types.KeywordAnalysis, structure types.StructureAnalysis, content types.ContentAnalysis) []string {
	critical := []string{}
	if format.Score < 50 {
		critical = append(critical, "Severe formatting issues detected - resume may not parse correctly")
	}
	if keywords.Score < 40 {
		critical = append(critical, "Missing too many important keywords - will likely be rejected")
	}
	if !structure.HasEmail {
		critical = append(critical, "Missing email address - cannot be contacted")
	}
	if structure.Score < 50 {
		critical = append(critical, "Poor resume structure - missing required sections")
	}
	if content.WordCount < 150 {
		critical = append(critical, "Resume too short - insufficient information")
	}
	return critical
}

// extractSection returns the lines between the first line containing one of
// the section keywords and the next known heading.
func extractSection(text string, sectionKeywords []string) string {
	lines := strings.Split(text, "\n")

	startIdx := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range sectionKeywords {
			if strings.Contains(lower, kw) {
				startIdx = i + 1
				break
			}
		}
		if startIdx != -1 {
			break
		}
	}
	if startIdx == -1 {
		return ""
	}

	commonHeadings := []string{"experience", "education", "skills", "projects", "certifications"}
	endIdx := len(lines)
	for i := startIdx; i < len(lines); i++ {
		lower := strings.ToLower(lines[i])
		for _, heading := range commonHeadings {
			if containsString(sectionKeywords, heading) {
				continue
			}
			if strings.Contains(lower, heading) {
				endIdx = i
				break
			}
		}
		if endIdx != len(lines) {
			break
		}
	}
	return strings.Join(lines[startIdx:endIdx], "\n")
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
