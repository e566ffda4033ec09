package ats

import (
	"strings"
	"testing"

	"resumescreen/internal/errors"
)

func testAnalyzer() *Analyzer {
	return New(errors.NewLogger(0))
}

const strongResume = `Jane Smith
jane.smith@example.com | 555-123-4567

SUMMARY
Backend engineer focused on distributed systems and developer experience.

EXPERIENCE
Senior Software Engineer
2019 - 2024
• Developed event-driven services handling 40% more traffic
• Implemented caching that reduced latency by 30%
• Led a team of 5 engineers and managed quarterly planning
• Designed APIs used by 12+ internal teams
• Created tooling that improved deploy frequency 3x

EDUCATION
Bachelor of Science in Computer Science, 2016

SKILLS
Python, Go, PostgreSQL, Docker, Kubernetes, Redis, Terraform, CI/CD,
monitoring, profiling, incident response, capacity planning, and mentoring.
Achieved significant results by building reliable systems, optimized
pipelines, launched developer platforms, established review practices,
improved onboarding, increased test coverage, delivered projects on time,
coordinated cross-team migrations, executed large refactors, streamlined
release processes, directed architecture reviews, and built shared tooling
for the platform organization across many product areas and services. The
team spearheaded reliability work and achieved a 99.9% availability target
while reducing infrastructure spend by $200000 each year through careful
capacity planning and continuous performance work across all major systems.
`

func TestAnalyzeShortResumeWithoutEmail(t *testing.T) {
	report := testAnalyzer().Analyze("Short resume with barely any content at all", nil)

	if report.ATSFriendly {
		t.Error("Short resume without contact info must not be ATS friendly")
	}

	var hasContactIssue, hasTooShortIssue bool
	for _, issue := range report.CriticalIssues {
		if strings.Contains(issue, "email") {
			hasContactIssue = true
		}
		if strings.Contains(issue, "too short") {
			hasTooShortIssue = true
		}
	}
	if !hasContactIssue {
		t.Errorf("Expected missing-email critical issue, got %v", report.CriticalIssues)
	}
	if !hasTooShortIssue {
		t.Errorf("Expected too-short critical issue, got %v", report.CriticalIssues)
	}

	if report.Structure.HasEmail {
		t.Error("HasEmail should be false")
	}
	if report.Grade != grade(report.OverallScore) {
		t.Errorf("Grade %s inconsistent with score %.1f", report.Grade, report.OverallScore)
	}
}

func TestAnalyzeStrongResume(t *testing.T) {
	report := testAnalyzer().Analyze(strongResume, nil)

	if !report.Structure.HasEmail || !report.Structure.HasPhone {
		t.Error("Expected contact details to be detected")
	}
	if len(report.CriticalIssues) != 0 {
		t.Errorf("Expected no critical issues, got %v", report.CriticalIssues)
	}
	if report.Content.ActionVerbCount < 5 {
		t.Errorf("Expected at least 5 action verbs, got %d", report.Content.ActionVerbCount)
	}
	if report.Content.QuantifiableCount < 3 {
		t.Errorf("Expected quantifiable achievements, got %d", report.Content.QuantifiableCount)
	}
	if report.OverallScore <= 0 || report.OverallScore > 100 {
		t.Errorf("Score out of range: %.1f", report.OverallScore)
	}
	if !strings.HasSuffix(report.EstimatedPassRate, "%") {
		t.Errorf("Pass rate should be a percentage, got %s", report.EstimatedPassRate)
	}
}

func TestAnalyzeFormatPenalties(t *testing.T) {
	t.Run("problematic markup", func(t *testing.T) {
		text := "resume\n\n<table><tr><td>skills</td></tr></table>\n<img src=\"photo.png\">"
		format := analyzeFormat(text)

		if format.Score > 70 {
			t.Errorf("Expected table and image penalties, score %.0f", format.Score)
		}
		var hasTables, hasImages bool
		for _, issue := range format.Issues {
			if strings.Contains(issue, "tables") {
				hasTables = true
			}
			if strings.Contains(issue, "images") {
				hasImages = true
			}
		}
		if !hasTables || !hasImages {
			t.Errorf("Expected table and image issues, got %v", format.Issues)
		}
	})

	t.Run("no paragraph breaks", func(t *testing.T) {
		format := analyzeFormat("one line of text without any paragraph separation here")
		var found bool
		for _, issue := range format.Issues {
			if strings.Contains(issue, "paragraph") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected paragraph-break issue, got %v", format.Issues)
		}
	})

	t.Run("score floors at zero", func(t *testing.T) {
		text := "<table><img src=x><svg></svg><div style=\"position:absolute\">column-count: 2" +
			strings.Repeat(" ~`!#$^&", 10)
		format := analyzeFormat(text)
		if format.Score < 0 {
			t.Errorf("Score must not go negative, got %.0f", format.Score)
		}
	})
}

func TestAnalyzeKeywords(t *testing.T) {
	t.Run("job keywords matched and missing", func(t *testing.T) {
		text := "Built services with Python and Docker.\n\nDeployed on Kubernetes."
		analysis := analyzeKeywords(text, []string{"Python", "Docker", "Terraform", "Ansible"})

		if analysis.Score != 50.0 {
			t.Errorf("Expected 50.0 coverage, got %.1f", analysis.Score)
		}
		if len(analysis.MatchedKeywords) != 2 {
			t.Errorf("Expected 2 matched, got %v", analysis.MatchedKeywords)
		}
		if len(analysis.MissingKeywords) != 2 {
			t.Errorf("Expected 2 missing, got %v", analysis.MissingKeywords)
		}
	})

	t.Run("generic keywords when none supplied", func(t *testing.T) {
		analysis := analyzeKeywords("experience skills education", nil)
		if len(analysis.MatchedKeywords) != 3 {
			t.Errorf("Expected generic keywords to apply, got %v", analysis.MatchedKeywords)
		}
	})

	t.Run("majority missing flags an issue", func(t *testing.T) {
		analysis := analyzeKeywords("nothing relevant here", []string{"go", "rust", "zig"})
		var found bool
		for _, issue := range analysis.Issues {
			if strings.Contains(issue, "Missing 3 important keywords") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected missing-keywords issue, got %v", analysis.Issues)
		}
	})
}

func TestAnalyzeStructurePenalties(t *testing.T) {
	analysis := analyzeStructure("no recognizable sections or contact details")

	// 3 missing sections (-60), no email (-15), no phone (-10)
	if analysis.Score != 15.0 {
		t.Errorf("Expected score 15.0, got %.1f", analysis.Score)
	}
	if len(analysis.FoundSections) != 0 {
		t.Errorf("Expected no sections, got %v", analysis.FoundSections)
	}
	if analysis.HasEmail || analysis.HasPhone {
		t.Error("Expected no contact details")
	}
}

func TestGradeBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "A"}, {90, "A"},
		{85, "B"}, {80, "B"},
		{75, "C"}, {70, "C"},
		{65, "D"}, {60, "D"},
		{59, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := grade(tt.score); got != tt.want {
			t.Errorf("grade(%.0f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestOptimize(t *testing.T) {
	t.Run("suggests missing keywords capped at five", func(t *testing.T) {
		result := testAnalyzer().Optimize("plain resume text with nothing relevant",
			[]string{"go", "rust", "zig", "kotlin", "swift", "scala", "elixir"})

		if len(result.KeywordAdditions) != 5 {
			t.Errorf("Expected 5 keyword additions, got %v", result.KeywordAdditions)
		}
		if len(result.Suggestions) == 0 {
			t.Error("Expected at least one suggestion")
		}
	})

	t.Run("flags weak phrases in order", func(t *testing.T) {
		text := "Worked on the platform. Responsible for deployments."
		result := testAnalyzer().Optimize(text, nil)

		if len(result.Suggestions) != 2 {
			t.Fatalf("Expected 2 weak-phrase suggestions, got %v", result.Suggestions)
		}
		if !strings.Contains(result.Suggestions[0], "responsible for") {
			t.Errorf("Expected 'responsible for' flagged first, got %s", result.Suggestions[0])
		}
		if !strings.Contains(result.Suggestions[1], "worked on") {
			t.Errorf("Expected 'worked on' flagged second, got %s", result.Suggestions[1])
		}
	})

	t.Run("normalizes whitespace and bullets", func(t *testing.T) {
		text := "line one\n\n\n\nline two  with   gaps\n•tight bullet"
		result := testAnalyzer().Optimize(text, nil)

		want := "line one\n\nline two with gaps\n• tight bullet"
		if result.OptimizedText != want {
			t.Errorf("Expected %q, got %q", want, result.OptimizedText)
		}
	})

	t.Run("no keywords means no additions", func(t *testing.T) {
		result := testAnalyzer().Optimize("some text", nil)
		if len(result.KeywordAdditions) != 0 {
			t.Errorf("Expected no keyword additions, got %v", result.KeywordAdditions)
		}
	})
}
