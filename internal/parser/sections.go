package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"resumescreen/internal/types"
)

var (
	experienceHeadings = []string{"experience", "work history", "employment"}
	educationHeadings  = []string{"education", "academic background", "qualifications"}
	summaryHeadings    = []string{"summary", "professional summary", "objective", "profile", "about"}

	commonHeadings = []string{
		"experience", "education", "skills", "projects", "certifications",
		"awards", "publications", "references", "summary", "objective",
	}

	educationKeywords = []string{
		"bachelor", "master", "phd", "diploma", "degree",
		"b.s.", "m.s.", "b.a.", "m.a.", "mba",
	}

	// Date-range patterns in priority order. The first pattern that matches
	// an entry wins; later patterns are not tried. Reordering these changes
	// observable behavior.
	dateRangeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present)`),
		regexp.MustCompile(`(?i)([A-Za-z]+\s+\d{4})\s*[-–]\s*([A-Za-z]+\s+\d{4}|present)`),
		regexp.MustCompile(`(?i)(\d{1,2}/\d{4})\s*[-–]\s*(\d{1,2}/\d{4}|present)`),
	}

	entrySplitRe = regexp.MustCompile(`\n{2,}`)
	bulletRe     = regexp.MustCompile(`[•\-\*]\s*(.+)`)
	gpaRe        = regexp.MustCompile(`(?i)gpa[:\s]*(\d\.\d+)`)
	yearRe       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	anyYearRe    = regexp.MustCompile(`\d{4}`)
)

// extractSection finds the body of the first section whose heading line
// contains any of the given synonyms. The body starts on the next line and
// ends at the first subsequent line that is fully uppercase or contains a
// different known heading. Single-pass and heading-dependent; free-form
// resumes that skip headings yield nothing.
func extractSection(text string, sectionKeywords []string) string {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		for _, kw := range sectionKeywords {
			if strings.Contains(lower, kw) {
				start = i + 1
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		lower := strings.ToLower(trimmed)
		if lower == "" {
			continue
		}
		if isAllUpper(trimmed) || containsOtherHeading(lower, sectionKeywords) {
			end = i
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func containsOtherHeading(lowerLine string, sectionKeywords []string) bool {
	for _, heading := range commonHeadings {
		skip := false
		for _, kw := range sectionKeywords {
			if heading == kw {
				skip = true
				break
			}
		}
		if !skip && strings.Contains(lowerLine, heading) {
			return true
		}
	}
	return false
}

func (p *Parser) extractExperience(text string) []types.ExperienceEntry {
	section := extractSection(text, experienceHeadings)
	if section == "" {
		return nil
	}

	var entries []types.ExperienceEntry
	for _, raw := range entrySplitRe.Split(section, -1) {
		raw = strings.TrimSpace(raw)
		if len(raw) < 20 {
			continue
		}

		entry := types.ExperienceEntry{Description: raw}
		lines := strings.Split(raw, "\n")

		if len(lines) > 0 {
			entry.Position = strings.TrimSpace(lines[0])
		}

		for i, line := range lines {
			if i == 3 {
				break
			}
			lower := strings.ToLower(line)
			if strings.Contains(lower, "at ") || strings.Contains(lower, "with ") || strings.Contains(lower, "@") {
				entry.Company = strings.TrimSpace(line)
				break
			}
		}

		for _, re := range dateRangeRes {
			if m := re.FindStringSubmatch(raw); m != nil {
				entry.StartDate = m[1]
				entry.EndDate = m[2]
				entry.IsCurrent = strings.EqualFold(m[2], "present")
				break
			}
		}

		for _, m := range bulletRe.FindAllStringSubmatch(raw, -1) {
			entry.Responsibilities = append(entry.Responsibilities, strings.TrimSpace(m[1]))
		}

		entries = append(entries, entry)
	}

	return entries
}

func (p *Parser) extractEducation(text string, entities []types.Entity) []types.EducationEntry {
	section := extractSection(text, educationHeadings)
	if section == "" {
		return nil
	}

	var entries []types.EducationEntry
	for _, raw := range entrySplitRe.Split(section, -1) {
		raw = strings.TrimSpace(raw)
		if len(raw) < 10 {
			continue
		}

		entry := types.EducationEntry{}
		lowerRaw := strings.ToLower(raw)

		for _, kw := range educationKeywords {
			if !strings.Contains(lowerRaw, kw) {
				continue
			}
			for _, line := range strings.Split(raw, "\n") {
				if strings.Contains(strings.ToLower(line), kw) {
					entry.Degree = strings.TrimSpace(line)
					break
				}
			}
			break
		}

		if years := yearRe.FindAllString(raw, -1); len(years) > 0 {
			entry.Year = years[len(years)-1]
		}

		if m := gpaRe.FindStringSubmatch(raw); m != nil {
			entry.GPA = m[1]
		}

		// Institution is the first ORG entity whose text occurs inside this
		// entry; entities come from the full-text NER pass.
		for _, ent := range entities {
			if ent.Label == "ORG" && strings.Contains(raw, ent.Text) {
				entry.Institution = ent.Text
				break
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// ExperienceYears sums the year spans of all experience entries. "present"
// resolves through the parser's clock; entries with unparseable or inverted
// ranges contribute zero.
func (p *Parser) ExperienceYears(entries []types.ExperienceEntry) float64 {
	totalMonths := 0
	for _, entry := range entries {
		if entry.StartDate == "" || entry.EndDate == "" {
			continue
		}
		start := anyYearRe.FindString(entry.StartDate)
		if start == "" {
			continue
		}
		startYear, _ := strconv.Atoi(start)

		var endYear int
		if strings.Contains(strings.ToLower(entry.EndDate), "present") {
			endYear = p.now().Year()
		} else {
			end := anyYearRe.FindString(entry.EndDate)
			if end == "" {
				continue
			}
			endYear, _ = strconv.Atoi(end)
		}

		years := endYear - startYear
		if years < 0 {
			years = 0
		}
		totalMonths += years * 12
	}
	return math.Round(float64(totalMonths)/12*10) / 10
}
