// Package matching scores a structured resume against job openings. The
// composite score is a fixed weighted sum of five sub-scores, so results are
// auditable and reproducible for identical inputs.
package matching

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"resumescreen/internal/config"
	"resumescreen/internal/embedding"
	"resumescreen/internal/errors"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Engine matches resumes against jobs. Safe for concurrent use; it holds no
// per-call state.
type Engine struct {
	weights  config.WeightsConfig
	embedder embedding.Embedder
	logger   *errors.Logger
	now      func() time.Time
}

// NewEngine validates the weight configuration up front; a weight set that
// does not sum to 1.0 is rejected before any matching happens.
func NewEngine(weights config.WeightsConfig, embedder embedding.Embedder, logger *errors.Logger) (*Engine, error) {
	if !weights.Valid() {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidWeights,
			fmt.Sprintf("Score weights must sum to 1.0, got %.6f", weights.Sum()), nil)
	}
	return &Engine{
		weights:  weights,
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// NewEngineWithClock is NewEngine with an injected clock, used by tests to
// pin "present" date resolution.
func NewEngineWithClock(weights config.WeightsConfig, embedder embedding.Embedder, logger *errors.Logger, now func() time.Time) (*Engine, error) {
	e, err := NewEngine(weights, embedder, logger)
	if err != nil {
		return nil, err
	}
	e.now = now
	return e, nil
}

// Match scores one resume against one job. An unavailable embedding backend
// surfaces as an EMBEDDING_UNAVAILABLE error, never as a silent zero
// sub-score.
func (e *Engine) Match(ctx context.Context, resume *types.StructuredResume, job *types.JobSpec) (*types.MatchResult, error) {
	tracer := otel.Tracer("resumescreen.matching")
	ctx, span := tracer.Start(ctx, "engine.match")
	defer span.End()
	span.SetAttributes(attribute.String("job.title", job.Title))

	semantic, err := e.semanticScore(ctx, resume, job)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	skills := e.skillsScore(resume, job)
	experience := e.experienceScore(resume, job)
	education := educationScore(resume, job)
	keyword := keywordScore(resume, job)

	// The composite and its band are computed from the raw sub-scores;
	// rounding applies only to the reported breakdown.
	overall := semantic*e.weights.Semantic +
		skills*e.weights.Skills +
		experience*e.weights.Experience +
		education*e.weights.Education +
		keyword*e.weights.Keyword

	result := &types.MatchResult{
		OverallScore:    round2(overall),
		MatchPercentage: round1(overall * 100),
		Scores: types.ScoresBreakdown{
			Semantic:   round2(semantic),
			Skills:     round2(skills),
			Experience: round2(experience),
			Education:  round2(education),
			Keyword:    round2(keyword),
		},
		SkillGaps:      identifySkillGaps(resume, job),
		MatchLevel:     matchLevel(overall),
		Recommendation: recommendation(overall),
	}
	span.SetAttributes(attribute.Float64("match.overall_score", result.OverallScore))
	return result, nil
}

// semanticScore embeds both sides and takes their cosine similarity. Either
// side empty after concatenation scores 0 without touching the backend.
func (e *Engine) semanticScore(ctx context.Context, resume *types.StructuredResume, job *types.JobSpec) (float64, error) {
	resumeText := strings.TrimSpace(resumeNarrative(resume))
	jobText := strings.TrimSpace(strings.Join([]string{
		job.Description,
		job.Requirements,
		strings.Join(job.RequiredSkills, " "),
		strings.Join(job.PreferredSkills, " "),
	}, " "))

	if resumeText == "" || jobText == "" {
		return 0, nil
	}

	resumeVec, err := e.embedder.Embed(ctx, resumeText)
	if err != nil {
		return 0, err
	}
	jobVec, err := e.embedder.Embed(ctx, jobText)
	if err != nil {
		return 0, err
	}

	sim := embedding.Cosine(resumeVec, jobVec)
	return math.Max(0, math.Min(1, sim)), nil
}

// resumeNarrative is the free-text side of the resume used for semantic
// comparison: summary, experience descriptions, and the flattened skill list.
func resumeNarrative(resume *types.StructuredResume) string {
	parts := []string{resume.Summary}
	for _, exp := range resume.Experience {
		parts = append(parts, exp.Description)
	}
	parts = append(parts, strings.Join(resume.Skills.All, " "))

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func (e *Engine) skillsScore(resume *types.StructuredResume, job *types.JobSpec) float64 {
	resumeSkills := lowerSet(resume.Skills.All)
	required := lowerSet(job.RequiredSkills)
	preferred := lowerSet(job.PreferredSkills)

	// Neutral when the job lists no skills at all.
	if len(required) == 0 && len(preferred) == 0 {
		return 0.5
	}

	requiredRatio := overlapRatio(resumeSkills, required)
	preferredRatio := overlapRatio(resumeSkills, preferred)

	switch {
	case len(required) > 0 && len(preferred) > 0:
		return requiredRatio*0.7 + preferredRatio*0.3
	case len(required) > 0:
		return requiredRatio
	default:
		return preferredRatio
	}
}

func (e *Engine) experienceScore(resume *types.StructuredResume, job *types.JobSpec) float64 {
	required := job.RequiredExperienceYears
	if required == 0 {
		return 0.5
	}

	total := e.totalYears(resume.Experience)
	if total >= required {
		excess := total - required
		if excess <= 2 {
			return 1.0
		}
		// Well past the requirement reads as overqualified; taper gently.
		return math.Max(0.8, 1.0-(excess-2)*0.05)
	}
	return math.Max(0, total/required)
}

var yearTokenRe = regexp.MustCompile(`\d{4}`)

// totalYears sums whole-year spans across experience entries. Entries with an
// unparseable date are skipped rather than failing the match.
func (e *Engine) totalYears(entries []types.ExperienceEntry) float64 {
	totalMonths := 0
	for _, exp := range entries {
		if exp.StartDate == "" || exp.EndDate == "" {
			continue
		}
		startTok := yearTokenRe.FindString(exp.StartDate)
		if startTok == "" {
			continue
		}
		startYear, _ := strconv.Atoi(startTok)

		var endYear int
		if strings.Contains(strings.ToLower(exp.EndDate), "present") {
			endYear = e.now().Year()
		} else {
			endTok := yearTokenRe.FindString(exp.EndDate)
			if endTok == "" {
				continue
			}
			endYear, _ = strconv.Atoi(endTok)
		}

		years := endYear - startYear
		if years < 0 {
			years = 0
		}
		totalMonths += years * 12
	}
	return math.Round(float64(totalMonths)/12*10) / 10
}

// educationLevels is ordered from highest to lowest; required-level detection
// takes the first term found in the requirement string.
var educationLevels = []struct {
	term  string
	level int
}{
	{"phd", 5}, {"doctorate", 5},
	{"master", 4}, {"mba", 4}, {"m.s.", 4}, {"m.a.", 4},
	{"bachelor", 3}, {"b.s.", 3}, {"b.a.", 3},
	{"associate", 2},
	{"diploma", 1}, {"certificate", 1},
}

func educationScore(resume *types.StructuredResume, job *types.JobSpec) float64 {
	required := strings.ToLower(job.RequiredEducation)
	if required == "" {
		return 0.5
	}

	requiredLevel := 0
	for _, el := range educationLevels {
		if strings.Contains(required, el.term) {
			requiredLevel = el.level
			break
		}
	}
	if requiredLevel == 0 {
		return 0.5
	}

	candidateLevel := 0
	for _, entry := range resume.Education {
		degree := strings.ToLower(entry.Degree)
		for _, el := range educationLevels {
			if strings.Contains(degree, el.term) && el.level > candidateLevel {
				candidateLevel = el.level
			}
		}
	}

	switch {
	case candidateLevel >= requiredLevel:
		return 1.0
	case candidateLevel == requiredLevel-1:
		return 0.7
	default:
		return 0.3
	}
}

func keywordScore(resume *types.StructuredResume, job *types.JobSpec) float64 {
	var parts []string
	if resume.Summary != "" {
		parts = append(parts, resume.Summary)
	}
	for _, exp := range resume.Experience {
		if exp.Description != "" {
			parts = append(parts, exp.Description)
		}
	}
	resumeText := strings.ToLower(strings.Join(parts, " "))

	keywords := job.Keywords
	if len(keywords) == 0 {
		keywords = ExtractKeywords(job.Description + " " + job.Requirements)
	}
	if len(keywords) == 0 {
		return 0.5
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(resumeText, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func identifySkillGaps(resume *types.StructuredResume, job *types.JobSpec) types.SkillGaps {
	resumeSkills := lowerSet(resume.Skills.All)

	missingRequired := missingFrom(job.RequiredSkills, resumeSkills)
	missingPreferred := missingFrom(job.PreferredSkills, resumeSkills)

	return types.SkillGaps{
		MissingRequired:  missingRequired,
		MissingPreferred: missingPreferred,
		TotalGaps:        len(missingRequired) + len(missingPreferred),
		CriticalGaps:     len(missingRequired),
	}
}

// missingFrom returns the lowercased members of want absent from have,
// preserving want's order and deduplicating.
func missingFrom(want []string, have map[string]struct{}) []string {
	missing := []string{}
	seen := map[string]struct{}{}
	for _, skill := range want {
		lower := strings.ToLower(skill)
		if _, ok := have[lower]; ok {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		missing = append(missing, lower)
	}
	return missing
}

func matchLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "excellent"
	case score >= 0.65:
		return "good"
	case score >= 0.5:
		return "moderate"
	case score >= 0.35:
		return "weak"
	default:
		return "poor"
	}
}

func recommendation(score float64) string {
	switch {
	case score >= 0.8:
		return "Strong Match - Highly recommended for interview"
	case score >= 0.65:
		return "Good Match - Recommended for consideration"
	case score >= 0.5:
		return "Moderate Match - Review carefully"
	case score >= 0.35:
		return "Weak Match - May not meet requirements"
	default:
		return "Poor Match - Does not meet requirements"
	}
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func overlapRatio(have, want map[string]struct{}) float64 {
	if len(want) == 0 {
		return 0
	}
	matched := 0
	for skill := range want {
		if _, ok := have[skill]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(want))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
