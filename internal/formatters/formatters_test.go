package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumescreen/internal/types"
)

func sampleMatchResult() *types.MatchResult {
	return &types.MatchResult{
		OverallScore:    0.72,
		MatchPercentage: 72.0,
		Scores: types.ScoresBreakdown{
			Semantic:   0.8,
			Skills:     0.75,
			Experience: 0.6,
			Education:  0.7,
			Keyword:    0.5,
		},
		SkillGaps: types.SkillGaps{
			MissingRequired:  []string{"kubernetes"},
			MissingPreferred: []string{"terraform"},
			TotalGaps:        2,
			CriticalGaps:     1,
		},
		MatchLevel:     "good",
		Recommendation: "Good Match - Recommended for consideration",
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleMatchResult(), "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.MatchResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.OverallScore != 0.72 {
		t.Errorf("Expected overall score preserved, got %.2f", decoded.OverallScore)
	}
}

func TestMatchTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleMatchResult(), "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{"0.72", "good", "kubernetes", "terraform", "SCORE BREAKDOWN"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestMatchMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleMatchResult(), "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.HasPrefix(out, "# Match Result") {
		t.Errorf("Expected markdown heading, got:\n%s", out)
	}
	if !strings.Contains(out, "| Semantic | 0.80 |") {
		t.Errorf("Expected score table row, got:\n%s", out)
	}
}

func TestBatchTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()
	ranked := []types.RankedMatch{
		{JobID: "a", JobTitle: "First Role", Rank: 1, MatchResult: *sampleMatchResult()},
		{JobID: "b", JobTitle: "Second Role", Rank: 2, MatchResult: *sampleMatchResult()},
	}

	out, err := registry.Format(ranked, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "1. First Role (a)") || !strings.Contains(out, "2. Second Role (b)") {
		t.Errorf("Expected ranked listing, got:\n%s", out)
	}
}

func TestATSFormatters(t *testing.T) {
	report := &types.ATSReport{
		OverallScore:      62.5,
		Grade:             "D",
		ATSFriendly:       false,
		Keywords:          types.KeywordAnalysis{Score: 40, MissingKeywords: []string{"docker"}},
		CriticalIssues:    []string{"Missing email address - cannot be contacted"},
		Recommendations:   []string{"Add Missing Keywords: include these keywords: docker"},
		EstimatedPassRate: "62%",
	}

	registry := NewFormatterRegistry()

	text, err := registry.Format(report, "text")
	if err != nil {
		t.Fatalf("Text format failed: %v", err)
	}
	for _, want := range []string{"62.5/100", "grade D", "CRITICAL ISSUES", "RECOMMENDATIONS"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in text output", want)
		}
	}

	md, err := registry.Format(report, "markdown")
	if err != nil {
		t.Fatalf("Markdown format failed: %v", err)
	}
	if !strings.Contains(md, "## Missing Keywords") || !strings.Contains(md, "- docker") {
		t.Errorf("Expected missing keyword section, got:\n%s", md)
	}
}

func TestOptimizeTextFormatter(t *testing.T) {
	result := &types.OptimizeResult{
		OptimizedText:    "cleaned up text",
		Suggestions:      []string{"Replace 'worked on' with 'developed' for stronger impact"},
		KeywordAdditions: []string{"docker", "kubernetes"},
	}

	out, err := NewFormatterRegistry().Format(result, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"SUGGESTIONS", "docker, kubernetes", "cleaned up text"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRecommendTextFormatter(t *testing.T) {
	set := &types.RecommendationSet{
		CurrentProfile: types.SkillProfile{TotalSkills: 5, Level: "intermediate"},
		CareerPath: types.CareerRecommendation{
			CurrentRole:      "Software Engineer",
			NextLevel:        "Senior Software Engineer",
			CoreCompleteness: 80,
		},
		NextSkillsToLearn: []types.SkillSuggestion{
			{Skill: "REST APIs", Priority: "critical", Reason: "Required for current role"},
		},
		MarketInsights: types.MarketInsights{
			DemandLevel: "high", JobOpportunities: "good", Competitiveness: "good",
		},
	}

	out, err := NewFormatterRegistry().Format(set, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"intermediate", "Senior Software Engineer", "REST APIs [critical]", "MARKET INSIGHTS"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestResumeTextFormatter(t *testing.T) {
	resume := &types.StructuredResume{
		PersonalInfo: types.PersonalInfo{Name: "Jane Smith", Email: "jane@example.com"},
		Skills:       types.SkillSet{All: []string{"Go", "Python"}, Count: 2},
		Experience: []types.ExperienceEntry{
			{Position: "Engineer", Company: "Acme", StartDate: "2019", EndDate: "2024"},
		},
		Education: []types.EducationEntry{
			{Degree: "B.S. Computer Science", Institution: "State University", Year: "2016"},
		},
	}

	out, err := NewFormatterRegistry().Format(resume, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"Jane Smith", "SKILLS (2)", "Go, Python", "State University"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestUnknownFormatFallsBackOrErrors(t *testing.T) {
	registry := NewFormatterRegistry()

	// JSON handles any type through the generic formatter
	if _, err := registry.Format(map[string]int{"a": 1}, "json"); err != nil {
		t.Errorf("JSON should format arbitrary data, got %v", err)
	}

	// Unregistered format errors
	if _, err := registry.Format(sampleMatchResult(), "yaml"); err == nil {
		t.Error("Expected error for unsupported format")
	}

	// Text has no generic fallback
	if _, err := registry.Format(map[string]int{"a": 1}, "text"); err == nil {
		t.Error("Expected error for text format of arbitrary data")
	}
}
