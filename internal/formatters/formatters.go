package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumescreen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "MatchResult", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResult", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "RankedMatches", &BatchTextFormatter{})
	registry.RegisterFormatter("text", "ATSReport", &ATSTextFormatter{})
	registry.RegisterFormatter("text", "OptimizeResult", &OptimizeTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSReport", &ATSMarkdownFormatter{})
	registry.RegisterFormatter("text", "RecommendationSet", &RecommendTextFormatter{})
	registry.RegisterFormatter("markdown", "RecommendationSet", &RecommendMarkdownFormatter{})
	registry.RegisterFormatter("text", "StructuredResume", &ResumeTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.MatchResult, *types.MatchResult:
		return "MatchResult"
	case []types.RankedMatch:
		return "RankedMatches"
	case types.ATSReport, *types.ATSReport:
		return "ATSReport"
	case types.OptimizeResult, *types.OptimizeResult:
		return "OptimizeResult"
	case types.RecommendationSet, *types.RecommendationSet:
		return "RecommendationSet"
	case types.StructuredResume, *types.StructuredResume:
		return "StructuredResume"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asMatchResult(data any) (*types.MatchResult, bool) {
	switch v := data.(type) {
	case types.MatchResult:
		return &v, true
	case *types.MatchResult:
		return v, true
	}
	return nil, false
}

// MatchTextFormatter handles text formatting for match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := asMatchResult(data)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MATCH RESULT ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.2f (%.1f%%)\n", result.OverallScore, result.MatchPercentage))
	output.WriteString(fmt.Sprintf("Match Level: %s\n", result.MatchLevel))
	output.WriteString(fmt.Sprintf("Recommendation: %s\n\n", result.Recommendation))

	output.WriteString("=== SCORE BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Semantic:   %.2f\n", result.Scores.Semantic))
	output.WriteString(fmt.Sprintf("Skills:     %.2f\n", result.Scores.Skills))
	output.WriteString(fmt.Sprintf("Experience: %.2f\n", result.Scores.Experience))
	output.WriteString(fmt.Sprintf("Education:  %.2f\n", result.Scores.Education))
	output.WriteString(fmt.Sprintf("Keyword:    %.2f\n\n", result.Scores.Keyword))

	output.WriteString("=== SKILL GAPS ===\n")
	output.WriteString(fmt.Sprintf("Critical gaps: %d, total gaps: %d\n", result.SkillGaps.CriticalGaps, result.SkillGaps.TotalGaps))
	if len(result.SkillGaps.MissingRequired) > 0 {
		output.WriteString("Missing required skills:\n")
		for _, skill := range result.SkillGaps.MissingRequired {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}
	if len(result.SkillGaps.MissingPreferred) > 0 {
		output.WriteString("Missing preferred skills:\n")
		for _, skill := range result.SkillGaps.MissingPreferred {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchResult"
}

// MatchMarkdownFormatter handles markdown formatting for match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asMatchResult(data)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Match Result\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.2f (%.1f%%)\n\n", result.OverallScore, result.MatchPercentage))
	output.WriteString(fmt.Sprintf("**Match Level:** %s\n\n", result.MatchLevel))
	output.WriteString(fmt.Sprintf("**Recommendation:** %s\n\n", result.Recommendation))

	output.WriteString("## Score Breakdown\n\n")
	output.WriteString("| Criterion | Score |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| Semantic | %.2f |\n", result.Scores.Semantic))
	output.WriteString(fmt.Sprintf("| Skills | %.2f |\n", result.Scores.Skills))
	output.WriteString(fmt.Sprintf("| Experience | %.2f |\n", result.Scores.Experience))
	output.WriteString(fmt.Sprintf("| Education | %.2f |\n", result.Scores.Education))
	output.WriteString(fmt.Sprintf("| Keyword | %.2f |\n\n", result.Scores.Keyword))

	output.WriteString("## Skill Gaps\n\n")
	if len(result.SkillGaps.MissingRequired) > 0 {
		output.WriteString("### Missing Required\n")
		for _, skill := range result.SkillGaps.MissingRequired {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if len(result.SkillGaps.MissingPreferred) > 0 {
		output.WriteString("### Missing Preferred\n")
		for _, skill := range result.SkillGaps.MissingPreferred {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if result.SkillGaps.TotalGaps == 0 {
		output.WriteString("No skill gaps found.\n")
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchResult"
}

// BatchTextFormatter handles text formatting for ranked batch results
type BatchTextFormatter struct{}

func (btf *BatchTextFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.RankedMatch)
	if !ok {
		return "", fmt.Errorf("expected []RankedMatch, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RANKED MATCHES ===\n\n")
	for _, r := range results {
		output.WriteString(fmt.Sprintf("%d. %s", r.Rank, r.JobTitle))
		if r.JobID != "" {
			output.WriteString(fmt.Sprintf(" (%s)", r.JobID))
		}
		output.WriteString(fmt.Sprintf("\n   Score: %.2f  Level: %s  Critical gaps: %d\n",
			r.OverallScore, r.MatchLevel, r.SkillGaps.CriticalGaps))
	}

	return output.String(), nil
}

func (btf *BatchTextFormatter) SupportedType() string {
	return "RankedMatches"
}

func asATSReport(data any) (*types.ATSReport, bool) {
	switch v := data.(type) {
	case types.ATSReport:
		return &v, true
	case *types.ATSReport:
		return v, true
	}
	return nil, false
}

// ATSTextFormatter handles text formatting for ATS reports
type ATSTextFormatter struct{}

func (atf *ATSTextFormatter) Format(data any) (string, error) {
	report, ok := asATSReport(data)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS COMPATIBILITY REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/100 (grade %s)\n", report.OverallScore, report.Grade))
	output.WriteString(fmt.Sprintf("ATS Friendly: %t\n", report.ATSFriendly))
	output.WriteString(fmt.Sprintf("Estimated Pass Rate: %s\n\n", report.EstimatedPassRate))

	output.WriteString("=== CATEGORY SCORES ===\n")
	output.WriteString(fmt.Sprintf("Format:    %.1f\n", report.Format.Score))
	output.WriteString(fmt.Sprintf("Keywords:  %.1f\n", report.Keywords.Score))
	output.WriteString(fmt.Sprintf("Structure: %.1f\n", report.Structure.Score))
	output.WriteString(fmt.Sprintf("Content:   %.1f\n\n", report.Content.Score))

	if len(report.CriticalIssues) > 0 {
		output.WriteString("=== CRITICAL ISSUES ===\n")
		for _, issue := range report.CriticalIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	for _, section := range []struct {
		name   string
		issues []string
	}{
		{"FORMAT ISSUES", report.Format.Issues},
		{"KEYWORD ISSUES", report.Keywords.Issues},
		{"STRUCTURE ISSUES", report.Structure.Issues},
		{"CONTENT ISSUES", report.Content.Issues},
	} {
		if len(section.issues) == 0 {
			continue
		}
		output.WriteString(fmt.Sprintf("=== %s ===\n", section.name))
		for _, issue := range section.issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, rec := range report.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	return output.String(), nil
}

func (atf *ATSTextFormatter) SupportedType() string {
	return "ATSReport"
}

// OptimizeTextFormatter handles text formatting for optimization results
type OptimizeTextFormatter struct{}

func (otf *OptimizeTextFormatter) Format(data any) (string, error) {
	var result *types.OptimizeResult
	switch v := data.(type) {
	case types.OptimizeResult:
		result = &v
	case *types.OptimizeResult:
		result = v
	default:
		return "", fmt.Errorf("expected OptimizeResult, got %T", data)
	}

	var output strings.Builder

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		output.WriteString("\n")
	}

	if len(result.KeywordAdditions) > 0 {
		output.WriteString("=== KEYWORDS TO ADD ===\n")
		output.WriteString(strings.Join(result.KeywordAdditions, ", "))
		output.WriteString("\n\n")
	}

	output.WriteString("=== OPTIMIZED TEXT ===\n")
	output.WriteString(result.OptimizedText)
	output.WriteString("\n")

	return output.String(), nil
}

func (otf *OptimizeTextFormatter) SupportedType() string {
	return "OptimizeResult"
}

// ATSMarkdownFormatter handles markdown formatting for ATS reports
type ATSMarkdownFormatter struct{}

func (amf *ATSMarkdownFormatter) Format(data any) (string, error) {
	report, ok := asATSReport(data)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Compatibility Report\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100 (grade %s)\n\n", report.OverallScore, report.Grade))
	output.WriteString(fmt.Sprintf("**ATS Friendly:** %t\n\n", report.ATSFriendly))
	output.WriteString(fmt.Sprintf("**Estimated Pass Rate:** %s\n\n", report.EstimatedPassRate))

	output.WriteString("## Category Scores\n\n")
	output.WriteString("| Category | Score |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| Format | %.1f |\n", report.Format.Score))
	output.WriteString(fmt.Sprintf("| Keywords | %.1f |\n", report.Keywords.Score))
	output.WriteString(fmt.Sprintf("| Structure | %.1f |\n", report.Structure.Score))
	output.WriteString(fmt.Sprintf("| Content | %.1f |\n\n", report.Content.Score))

	if len(report.CriticalIssues) > 0 {
		output.WriteString("## Critical Issues\n\n")
		for _, issue := range report.CriticalIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(report.Keywords.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, kw := range report.Keywords.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, rec := range report.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	return output.String(), nil
}

func (amf *ATSMarkdownFormatter) SupportedType() string {
	return "ATSReport"
}

func asRecommendationSet(data any) (*types.RecommendationSet, bool) {
	switch v := data.(type) {
	case types.RecommendationSet:
		return &v, true
	case *types.RecommendationSet:
		return v, true
	}
	return nil, false
}

// RecommendTextFormatter handles text formatting for recommendation sets
type RecommendTextFormatter struct{}

func (rtf *RecommendTextFormatter) Format(data any) (string, error) {
	recs, ok := asRecommendationSet(data)
	if !ok {
		return "", fmt.Errorf("expected RecommendationSet, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SKILL PROFILE ===\n\n")
	output.WriteString(fmt.Sprintf("Total skills: %d  Level: %s\n", recs.CurrentProfile.TotalSkills, recs.CurrentProfile.Level))
	if len(recs.CurrentProfile.Strengths) > 0 {
		output.WriteString(fmt.Sprintf("Strengths: %s\n", strings.Join(recs.CurrentProfile.Strengths, ", ")))
	}
	output.WriteString("\n")

	output.WriteString("=== CAREER PATH ===\n")
	output.WriteString(fmt.Sprintf("Current role: %s\n", recs.CareerPath.CurrentRole))
	if recs.CareerPath.NextLevel != "" {
		output.WriteString(fmt.Sprintf("Next level: %s\n", recs.CareerPath.NextLevel))
		output.WriteString(fmt.Sprintf("Core completeness: %.1f%%\n", recs.CareerPath.CoreCompleteness))
		output.WriteString(fmt.Sprintf("Ready for promotion: %t\n", recs.CareerPath.ReadyForPromotion))
	}
	output.WriteString("\n")

	if len(recs.NextSkillsToLearn) > 0 {
		output.WriteString("=== NEXT SKILLS TO LEARN ===\n")
		for i, s := range recs.NextSkillsToLearn {
			output.WriteString(fmt.Sprintf("%d. %s [%s] - %s\n", i+1, s.Skill, s.Priority, s.Reason))
		}
		output.WriteString("\n")
	}

	if len(recs.LearningPath) > 0 {
		output.WriteString("=== LEARNING PATH ===\n")
		for _, phase := range recs.LearningPath {
			output.WriteString(fmt.Sprintf("Phase %d: %s\n", phase.Phase, phase.Title))
			output.WriteString(fmt.Sprintf("  Focus: %s\n", phase.Focus))
			output.WriteString(fmt.Sprintf("  Skills: %s\n", strings.Join(phase.Skills, ", ")))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== MARKET INSIGHTS ===\n")
	output.WriteString(fmt.Sprintf("Demand: %s  Opportunities: %s  Competitiveness: %s\n",
		recs.MarketInsights.DemandLevel, recs.MarketInsights.JobOpportunities, recs.MarketInsights.Competitiveness))

	return output.String(), nil
}

func (rtf *RecommendTextFormatter) SupportedType() string {
	return "RecommendationSet"
}

// RecommendMarkdownFormatter handles markdown formatting for recommendation sets
type RecommendMarkdownFormatter struct{}

func (rmf *RecommendMarkdownFormatter) Format(data any) (string, error) {
	recs, ok := asRecommendationSet(data)
	if !ok {
		return "", fmt.Errorf("expected RecommendationSet, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Skill Recommendations\n\n")
	output.WriteString("## Current Profile\n\n")
	output.WriteString(fmt.Sprintf("**Total Skills:** %d\n\n", recs.CurrentProfile.TotalSkills))
	output.WriteString(fmt.Sprintf("**Level:** %s\n\n", recs.CurrentProfile.Level))
	if len(recs.CurrentProfile.Strengths) > 0 {
		output.WriteString(fmt.Sprintf("**Strengths:** %s\n\n", strings.Join(recs.CurrentProfile.Strengths, ", ")))
	}

	output.WriteString("## Career Path\n\n")
	output.WriteString(fmt.Sprintf("**Current Role:** %s\n\n", recs.CareerPath.CurrentRole))
	if recs.CareerPath.NextLevel != "" {
		output.WriteString(fmt.Sprintf("**Next Level:** %s\n\n", recs.CareerPath.NextLevel))
		output.WriteString(fmt.Sprintf("**Core Completeness:** %.1f%%\n\n", recs.CareerPath.CoreCompleteness))
		output.WriteString(fmt.Sprintf("**Ready for Promotion:** %t\n\n", recs.CareerPath.ReadyForPromotion))
	}

	if len(recs.NextSkillsToLearn) > 0 {
		output.WriteString("## Next Skills to Learn\n\n")
		for i, s := range recs.NextSkillsToLearn {
			output.WriteString(fmt.Sprintf("%d. **%s** (%s) - %s\n", i+1, s.Skill, s.Priority, s.Reason))
		}
		output.WriteString("\n")
	}

	if len(recs.LearningPath) > 0 {
		output.WriteString("## Learning Path\n\n")
		for _, phase := range recs.LearningPath {
			output.WriteString(fmt.Sprintf("### Phase %d: %s\n\n", phase.Phase, phase.Title))
			output.WriteString(fmt.Sprintf("%s\n\n", phase.Focus))
			for _, skill := range phase.Skills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
			output.WriteString("\n")
		}
	}

	output.WriteString("## Market Insights\n\n")
	output.WriteString(fmt.Sprintf("| Demand | Salary Trend | Opportunities | Competitiveness |\n|---|---|---|---|\n| %s | %s | %s | %s |\n",
		recs.MarketInsights.DemandLevel, recs.MarketInsights.SalaryTrend,
		recs.MarketInsights.JobOpportunities, recs.MarketInsights.Competitiveness))

	return output.String(), nil
}

func (rmf *RecommendMarkdownFormatter) SupportedType() string {
	return "RecommendationSet"
}

// ResumeTextFormatter handles text formatting for structured resumes
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	var resume *types.StructuredResume
	switch v := data.(type) {
	case types.StructuredResume:
		resume = &v
	case *types.StructuredResume:
		resume = v
	default:
		return "", fmt.Errorf("expected StructuredResume, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== STRUCTURED RESUME ===\n\n")
	output.WriteString(fmt.Sprintf("Name:  %s\n", resume.PersonalInfo.Name))
	if resume.PersonalInfo.Email != "" {
		output.WriteString(fmt.Sprintf("Email: %s\n", resume.PersonalInfo.Email))
	}
	if resume.PersonalInfo.Phone != "" {
		output.WriteString(fmt.Sprintf("Phone: %s\n", resume.PersonalInfo.Phone))
	}
	output.WriteString("\n")

	if resume.Summary != "" {
		output.WriteString("=== SUMMARY ===\n")
		output.WriteString(resume.Summary)
		output.WriteString("\n\n")
	}

	if len(resume.Skills.All) > 0 {
		output.WriteString(fmt.Sprintf("=== SKILLS (%d) ===\n", resume.Skills.Count))
		output.WriteString(strings.Join(resume.Skills.All, ", "))
		output.WriteString("\n\n")
	}

	if len(resume.Experience) > 0 {
		output.WriteString("=== EXPERIENCE ===\n")
		for _, exp := range resume.Experience {
			output.WriteString(fmt.Sprintf("- %s", exp.Position))
			if exp.Company != "" {
				output.WriteString(fmt.Sprintf(" | %s", exp.Company))
			}
			if exp.StartDate != "" {
				output.WriteString(fmt.Sprintf(" | %s - %s", exp.StartDate, exp.EndDate))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(resume.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n")
		for _, edu := range resume.Education {
			output.WriteString(fmt.Sprintf("- %s", edu.Degree))
			if edu.Institution != "" {
				output.WriteString(fmt.Sprintf(" | %s", edu.Institution))
			}
			if edu.Year != "" {
				output.WriteString(fmt.Sprintf(" | %s", edu.Year))
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "StructuredResume"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
