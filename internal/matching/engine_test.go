package matching

import (
	"context"
	"math"
	"testing"
	"time"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// stubEmbedder returns deterministic vectors so tests never touch a backend.
type stubEmbedder struct {
	vectors map[string][]float32
	fixed   []float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	if s.fixed != nil {
		return s.fixed, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Close() error { return nil }

func testWeights() config.WeightsConfig {
	return config.WeightsConfig{
		Semantic:   0.30,
		Skills:     0.35,
		Experience: 0.15,
		Education:  0.10,
		Keyword:    0.10,
	}
}

func testLogger() *errors.Logger {
	return errors.NewLogger(0)
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	}
}

func newTestEngine(t *testing.T, embedder *stubEmbedder) *Engine {
	t.Helper()
	engine, err := NewEngineWithClock(testWeights(), embedder, testLogger(), fixedClock())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

func TestNewEngineRejectsInvalidWeights(t *testing.T) {
	weights := config.WeightsConfig{
		Semantic: 0.5,
		Skills:   0.5,
		Keyword:  0.5,
	}

	_, err := NewEngine(weights, &stubEmbedder{}, testLogger())
	if err == nil {
		t.Fatal("Expected error for weights not summing to 1.0")
	}
	if !errors.IsInvalidWeights(err) {
		t.Errorf("Expected INVALID_WEIGHTS error, got %v", err)
	}
}

func TestSkillsScore(t *testing.T) {
	engine := newTestEngine(t, &stubEmbedder{})

	tests := []struct {
		name      string
		resume    []string
		required  []string
		preferred []string
		expected  float64
	}{
		{
			name:      "required and preferred mix",
			resume:    []string{"Python", "React", "Node.js", "PostgreSQL", "Docker", "AWS"},
			required:  []string{"JavaScript", "React", "Node.js", "PostgreSQL"},
			preferred: []string{"Docker", "AWS", "TypeScript"},
			expected:  0.7*(3.0/4.0) + 0.3*(2.0/3.0),
		},
		{
			name:     "required only full match",
			resume:   []string{"Go", "Kubernetes"},
			required: []string{"go", "kubernetes"},
			expected: 1.0,
		},
		{
			name:      "preferred only partial",
			resume:    []string{"Terraform"},
			preferred: []string{"Terraform", "Ansible"},
			expected:  0.5,
		},
		{
			name:     "no job skills is neutral",
			resume:   []string{"Python"},
			expected: 0.5,
		},
		{
			name:     "case insensitive matching",
			resume:   []string{"PYTHON", "react"},
			required: []string{"python", "React"},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.StructuredResume{
				Skills: types.SkillSet{All: tt.resume},
			}
			job := &types.JobSpec{
				RequiredSkills:  tt.required,
				PreferredSkills: tt.preferred,
			}

			got := engine.skillsScore(resume, job)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %.6f, got %.6f", tt.expected, got)
			}
		})
	}
}

func TestExperienceScore(t *testing.T) {
	engine := newTestEngine(t, &stubEmbedder{})

	tests := []struct {
		name     string
		entries  []types.ExperienceEntry
		required float64
		expected float64
	}{
		{
			name: "meets requirement within grace band",
			entries: []types.ExperienceEntry{
				{StartDate: "2017", EndDate: "2024"},
			},
			required: 5,
			expected: 1.0,
		},
		{
			name: "under requirement is proportional",
			entries: []types.ExperienceEntry{
				{StartDate: "2020", EndDate: "2023"},
			},
			required: 5,
			expected: 0.6,
		},
		{
			name: "overqualified tapers toward floor",
			entries: []types.ExperienceEntry{
				{StartDate: "2010", EndDate: "2025"},
			},
			required: 5,
			expected: 1.0 - (15.0-5.0-2.0)*0.05,
		},
		{
			name: "taper never drops below floor",
			entries: []types.ExperienceEntry{
				{StartDate: "1990", EndDate: "2025"},
			},
			required: 2,
			expected: 0.8,
		},
		{
			name:     "no requirement is neutral",
			entries:  nil,
			required: 0,
			expected: 0.5,
		},
		{
			name: "present resolves against clock",
			entries: []types.ExperienceEntry{
				{StartDate: "2021", EndDate: "Present"},
			},
			required: 5,
			expected: 1.0, // 2026 - 2021 = 5 years
		},
		{
			name: "unparseable dates are skipped",
			entries: []types.ExperienceEntry{
				{StartDate: "unknown", EndDate: "also unknown"},
				{StartDate: "2021", EndDate: "2023"},
			},
			required: 4,
			expected: 0.5, // only the 2-year entry counts
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.StructuredResume{Experience: tt.entries}
			job := &types.JobSpec{RequiredExperienceYears: tt.required}

			got := engine.experienceScore(resume, job)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %.6f, got %.6f", tt.expected, got)
			}
		})
	}
}

func TestEducationScore(t *testing.T) {
	tests := []struct {
		name     string
		degrees  []string
		required string
		expected float64
	}{
		{
			name:     "one tier below requirement",
			degrees:  []string{"Bachelor of Science"},
			required: "Master's degree",
			expected: 0.7,
		},
		{
			name:     "meets requirement",
			degrees:  []string{"Master of Science"},
			required: "Master's degree preferred",
			expected: 1.0,
		},
		{
			name:     "exceeds requirement",
			degrees:  []string{"PhD in Computer Science"},
			required: "Bachelor's degree",
			expected: 1.0,
		},
		{
			name:     "two or more tiers below",
			degrees:  []string{"Associate degree"},
			required: "Master's degree",
			expected: 0.3,
		},
		{
			name:     "no requirement is neutral",
			degrees:  []string{"Bachelor of Arts"},
			required: "",
			expected: 0.5,
		},
		{
			name:     "unrecognized requirement is neutral",
			degrees:  []string{"Bachelor of Arts"},
			required: "relevant qualification",
			expected: 0.5,
		},
		{
			name:     "highest degree wins",
			degrees:  []string{"Diploma", "Master of Engineering"},
			required: "Master's degree",
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.StructuredResume{}
			for _, d := range tt.degrees {
				resume.Education = append(resume.Education, types.EducationEntry{Degree: d})
			}
			job := &types.JobSpec{RequiredEducation: tt.required}

			got := educationScore(resume, job)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %.6f, got %.6f", tt.expected, got)
			}
		})
	}
}

func TestKeywordScore(t *testing.T) {
	t.Run("explicit keywords", func(t *testing.T) {
		resume := &types.StructuredResume{
			Summary: "Built microservices in Go with Kubernetes deployments",
		}
		job := &types.JobSpec{
			Keywords: []string{"microservices", "kubernetes", "terraform", "grafana"},
		}

		got := keywordScore(resume, job)
		if math.Abs(got-0.5) > 1e-9 {
			t.Errorf("Expected 0.5, got %.6f", got)
		}
	})

	t.Run("no keywords derivable is neutral", func(t *testing.T) {
		resume := &types.StructuredResume{Summary: "Engineer"}
		job := &types.JobSpec{}

		got := keywordScore(resume, job)
		if math.Abs(got-0.5) > 1e-9 {
			t.Errorf("Expected 0.5, got %.6f", got)
		}
	})
}

func TestIdentifySkillGaps(t *testing.T) {
	resume := &types.StructuredResume{
		Skills: types.SkillSet{All: []string{"Python", "React"}},
	}
	job := &types.JobSpec{
		RequiredSkills:  []string{"Python", "Go", "Kubernetes", "go"},
		PreferredSkills: []string{"React", "GraphQL"},
	}

	gaps := identifySkillGaps(resume, job)

	if len(gaps.MissingRequired) != 2 {
		t.Fatalf("Expected 2 missing required skills, got %v", gaps.MissingRequired)
	}
	if gaps.MissingRequired[0] != "go" || gaps.MissingRequired[1] != "kubernetes" {
		t.Errorf("Unexpected missing required order: %v", gaps.MissingRequired)
	}
	if len(gaps.MissingPreferred) != 1 || gaps.MissingPreferred[0] != "graphql" {
		t.Errorf("Unexpected missing preferred: %v", gaps.MissingPreferred)
	}
	if gaps.TotalGaps != 3 {
		t.Errorf("Expected 3 total gaps, got %d", gaps.TotalGaps)
	}
	if gaps.CriticalGaps != 2 {
		t.Errorf("Expected 2 critical gaps, got %d", gaps.CriticalGaps)
	}
}

func TestMatchLevels(t *testing.T) {
	tests := []struct {
		score float64
		level string
	}{
		{0.85, "excellent"},
		{0.80, "excellent"},
		{0.70, "good"},
		{0.65, "good"},
		{0.55, "moderate"},
		{0.50, "moderate"},
		{0.40, "weak"},
		{0.35, "weak"},
		{0.20, "poor"},
	}

	for _, tt := range tests {
		if got := matchLevel(tt.score); got != tt.level {
			t.Errorf("matchLevel(%.2f) = %s, want %s", tt.score, got, tt.level)
		}
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	embedder := &stubEmbedder{fixed: []float32{0.5, 0.5, 0.1}}
	engine := newTestEngine(t, embedder)

	resume := &types.StructuredResume{
		Summary: "Backend engineer building distributed systems",
		Skills:  types.SkillSet{All: []string{"Go", "PostgreSQL", "Docker"}},
		Experience: []types.ExperienceEntry{
			{StartDate: "2019", EndDate: "2024", Description: "Built event pipelines"},
		},
		Education: []types.EducationEntry{{Degree: "Bachelor of Science"}},
	}
	job := &types.JobSpec{
		Title:                   "Backend Engineer",
		Description:             "Distributed systems role",
		RequiredSkills:          []string{"Go", "PostgreSQL"},
		PreferredSkills:         []string{"Kafka"},
		RequiredExperienceYears: 4,
		RequiredEducation:       "Bachelor's degree",
	}

	first, err := engine.Match(context.Background(), resume, job)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	second, err := engine.Match(context.Background(), resume, job)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if first.OverallScore != second.OverallScore || first.Scores != second.Scores {
		t.Errorf("Match is not deterministic: %+v vs %+v", first, second)
	}

	// Identical vectors give cosine 1.0 for the semantic sub-score
	if first.Scores.Semantic != 1.0 {
		t.Errorf("Expected semantic score 1.0 from identical vectors, got %.2f", first.Scores.Semantic)
	}
	// Required fully covered, preferred not: 0.7*1.0 + 0.3*0
	if first.Scores.Skills != 0.7 {
		t.Errorf("Expected skills sub-score 0.7, got %.2f", first.Scores.Skills)
	}
	// Raw composite: 0.30*1.0 + 0.35*0.7 + 0.15*1.0 + 0.10*1.0 + 0.10*(2/3)
	if first.OverallScore != 0.86 {
		t.Errorf("Expected overall 0.86, got %.2f", first.OverallScore)
	}
	if first.MatchPercentage != 86.2 {
		t.Errorf("Expected match percentage 86.2, got %.1f", first.MatchPercentage)
	}
	if first.MatchLevel != "excellent" {
		t.Errorf("Expected level excellent, got %s", first.MatchLevel)
	}
	if first.Recommendation == "" {
		t.Error("Recommendation must be populated")
	}
}

func TestMatchCompositeUsesRawSubScores(t *testing.T) {
	embedder := &stubEmbedder{fixed: []float32{0.2, 0.9, 0.4}}
	engine := newTestEngine(t, embedder)

	// Skills works out to 0.7*(3/4) + 0.3*(2/3), just under 0.725 in
	// float64, reported as 0.72. The composite must weight the raw value
	// (0.35*0.72499... = 0.253749...), not the rounded breakdown figure
	// (0.35*0.72 = 0.252).
	resume := &types.StructuredResume{
		Summary: "Python developer",
		Skills: types.SkillSet{All: []string{
			"Python", "Django", "PostgreSQL", "Redis", "Docker",
		}},
	}
	job := &types.JobSpec{
		Title:           "Backend Developer",
		Description:     "Backend services role",
		RequiredSkills:  []string{"Python", "Django", "PostgreSQL", "Kubernetes"},
		PreferredSkills: []string{"Redis", "Docker", "GraphQL"},
		Keywords:        []string{"python", "terraform"},
	}

	result, err := engine.Match(context.Background(), resume, job)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if result.Scores.Skills != 0.72 {
		t.Errorf("Expected reported skills 0.72, got %.2f", result.Scores.Skills)
	}
	if result.Scores.Experience != 0.5 || result.Scores.Education != 0.5 || result.Scores.Keyword != 0.5 {
		t.Errorf("Expected neutral 0.5 for unconstrained factors, got %+v", result.Scores)
	}

	// 0.30*1.0 + 0.35*0.725 + 0.15*0.5 + 0.10*0.5 + 0.10*0.5 = 0.72875
	if result.OverallScore != 0.73 {
		t.Errorf("Expected overall 0.73, got %.2f", result.OverallScore)
	}
	// Weighting the rounded skills figure instead would give 0.727 and a
	// percentage of 72.7.
	if result.MatchPercentage != 72.9 {
		t.Errorf("Expected match percentage 72.9, got %.1f", result.MatchPercentage)
	}
	if result.MatchLevel != "good" {
		t.Errorf("Expected level good, got %s", result.MatchLevel)
	}
}

func TestMatchPropagatesEmbeddingError(t *testing.T) {
	backendErr := errors.NewEmbeddingError(errors.ErrCodeEmbeddingUnavailable,
		"Embedding backend unavailable", nil)
	engine := newTestEngine(t, &stubEmbedder{err: backendErr})

	resume := &types.StructuredResume{
		Summary: "Engineer",
		Skills:  types.SkillSet{All: []string{"Go"}},
	}
	job := &types.JobSpec{Description: "Engineering role"}

	_, err := engine.Match(context.Background(), resume, job)
	if err == nil {
		t.Fatal("Expected embedding error to propagate")
	}
	if !errors.IsEmbeddingUnavailable(err) {
		t.Errorf("Expected EMBEDDING_UNAVAILABLE, got %v", err)
	}
}

func TestSemanticScoreSkipsBackendOnEmptyText(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := newTestEngine(t, embedder)

	resume := &types.StructuredResume{}
	job := &types.JobSpec{Description: "Some role"}

	score, err := engine.semanticScore(context.Background(), resume, job)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if score != 0 {
		t.Errorf("Expected 0 for empty resume text, got %.2f", score)
	}
	if embedder.calls != 0 {
		t.Errorf("Backend should not be called for empty text, got %d calls", embedder.calls)
	}
}

func TestExtractKeywords(t *testing.T) {
	t.Run("frequency ordering with stable ties", func(t *testing.T) {
		text := "kubernetes kubernetes docker terraform docker kubernetes grafana"
		got := ExtractKeywords(text)

		want := []string{"kubernetes", "docker", "terraform", "grafana"}
		if len(got) != len(want) {
			t.Fatalf("Expected %d keywords, got %v", len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("keyword[%d] = %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("stopwords and short words excluded", func(t *testing.T) {
		got := ExtractKeywords("this will work with golang and the api")
		for _, kw := range got {
			if kw == "this" || kw == "will" || kw == "with" || kw == "api" || kw == "and" {
				t.Errorf("Unexpected keyword %q in %v", kw, got)
			}
		}
	})

	t.Run("repeated calls return the same list", func(t *testing.T) {
		text := "alpha beta gamma delta alpha beta gamma alpha beta delta"
		first := ExtractKeywords(text)
		for range 5 {
			again := ExtractKeywords(text)
			if len(again) != len(first) {
				t.Fatalf("Keyword count changed between calls")
			}
			for i := range first {
				if again[i] != first[i] {
					t.Fatalf("Keyword order changed between calls: %v vs %v", first, again)
				}
			}
		}
	})
}
