// Package recommend turns a skill list into career growth advice: gap
// analysis against a career path, a prioritized learning queue, and market
// positioning. All advice derives from the static taxonomy, so output is
// deterministic for a given input.
package recommend

import (
	"math"
	"sort"
	"strings"

	"resumescreen/internal/errors"
	"resumescreen/internal/taxonomy"
	"resumescreen/internal/types"
)

// Engine produces skill recommendations. Stateless and safe for concurrent
// use.
type Engine struct {
	logger *errors.Logger
}

func New(logger *errors.Logger) *Engine {
	return &Engine{logger: logger}
}

// Recommend builds the full recommendation set. targetRole may be empty, in
// which case the role is inferred from the skills. An unknown target role
// degrades to an empty career path rather than failing.
func (e *Engine) Recommend(currentSkills []string, targetRole string, experienceYears float64) *types.RecommendationSet {
	profile := analyzeProfile(currentSkills)
	complementary := complementarySkills(currentSkills)
	career := e.careerRecommendation(currentSkills, targetRole, experienceYears)
	trending := relevantTrendingSkills(currentSkills)
	next := prioritizeNextSkills(currentSkills, complementary, career, trending)

	return &types.RecommendationSet{
		CurrentProfile:      profile,
		SkillGaps:           career.MissingSkills,
		NextSkillsToLearn:   clipSuggestions(next, 10),
		ComplementarySkills: clip(complementary, 15),
		TrendingSkills:      clip(trending, 10),
		CareerPath:          career,
		LearningPath:        learningPath(next),
		MarketInsights:      marketInsights(currentSkills, career.CurrentRole),
	}
}

// InferRole guesses the closest role from a skill list. The role with the
// most indicator hits wins; ties resolve to the lexicographically first role,
// and no hits at all default to Software Engineer.
func InferRole(skills []string) string {
	skillSet := lowerSet(skills)

	bestRole := "Software Engineer"
	bestCount := 0
	for _, ri := range taxonomy.RoleIndicators() {
		count := 0
		for _, ind := range ri.Indicators {
			if _, ok := skillSet[ind]; ok {
				count++
			}
		}
		if count > bestCount {
			bestRole = ri.Role
			bestCount = count
		}
	}
	return bestRole
}

func analyzeProfile(skills []string) types.SkillProfile {
	profile := types.SkillProfile{
		TotalSkills: len(skills),
		Categories:  map[string][]string{},
		Strengths:   []string{},
		Level:       "beginner",
	}

	seen := map[string]struct{}{}
	for _, skill := range skills {
		skillLower := strings.ToLower(skill)
		for _, entry := range taxonomy.Entries() {
			matched := skillLower == strings.ToLower(entry.Name)
			if !matched {
				for _, rel := range entry.Related {
					if skillLower == strings.ToLower(rel) {
						matched = true
						break
					}
				}
			}
			if !matched {
				continue
			}
			key := entry.Category + "\x00" + skillLower
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			profile.Categories[entry.Category] = append(profile.Categories[entry.Category], skill)
		}
	}

	if len(profile.Categories) > 0 {
		cats := make([]string, 0, len(profile.Categories))
		for cat := range profile.Categories {
			cats = append(cats, cat)
		}
		sort.Slice(cats, func(i, j int) bool {
			ci, cj := len(profile.Categories[cats[i]]), len(profile.Categories[cats[j]])
			if ci != cj {
				return ci > cj
			}
			return cats[i] < cats[j]
		})
		if len(cats) > 3 {
			cats = cats[:3]
		}
		profile.Strengths = cats
	}

	switch {
	case len(skills) >= 15:
		profile.Level = "expert"
	case len(skills) >= 10:
		profile.Level = "advanced"
	case len(skills) >= 5:
		profile.Level = "intermediate"
	}
	return profile
}

// complementarySkills walks the relation graph and collects related skills
// the candidate doesn't have yet, in graph order.
func complementarySkills(currentSkills []string) []string {
	current := lowerSet(currentSkills)

	var out []string
	added := map[string]struct{}{}
	for _, entry := range taxonomy.Entries() {
		if _, known := current[strings.ToLower(entry.Name)]; !known {
			continue
		}
		for _, rel := range entry.Related {
			relLower := strings.ToLower(rel)
			if _, known := current[relLower]; known {
				continue
			}
			if _, dup := added[relLower]; dup {
				continue
			}
			added[relLower] = struct{}{}
			out = append(out, rel)
		}
	}
	return out
}

func (e *Engine) careerRecommendation(currentSkills []string, targetRole string, experienceYears float64) types.CareerRecommendation {
	current := lowerSet(currentSkills)

	if targetRole == "" {
		targetRole = InferRole(currentSkills)
	}

	path, ok := taxonomy.LookupCareerPath(targetRole)
	if !ok {
		e.logger.Debug("Unknown career role, returning empty career path", "role", targetRole)
		return types.CareerRecommendation{
			CurrentRole:              targetRole,
			MissingSkills:            []string{},
			MissingCoreSkills:        []string{},
			MissingRecommendedSkills: []string{},
		}
	}

	missingCore := skillsNotIn(path.CoreSkills, current)
	missingRecommended := skillsNotIn(path.RecommendedSkills, current)

	completeness := 1.0 - float64(len(missingCore))/float64(len(path.CoreSkills))
	ready := completeness >= 0.8 && experienceYears >= path.TypicalYears

	return types.CareerRecommendation{
		CurrentRole:              targetRole,
		NextLevel:                path.NextLevel,
		MissingSkills:            append(append([]string{}, missingCore...), missingRecommended...),
		MissingCoreSkills:        missingCore,
		MissingRecommendedSkills: missingRecommended,
		CoreCompleteness:         math.Round(completeness*1000) / 10,
		ReadyForPromotion:        ready,
		EstimatedYearsToNext:     path.TypicalYears,
	}
}

func relevantTrendingSkills(currentSkills []string) []string {
	current := lowerSet(currentSkills)

	var trending []string
	for _, skill := range taxonomy.HotSkills() {
		if _, known := current[strings.ToLower(skill)]; !known {
			trending = append(trending, skill)
		}
	}
	for _, skill := range taxonomy.EmergingTech() {
		if _, known := current[strings.ToLower(skill)]; !known {
			trending = append(trending, skill)
		}
	}
	return trending
}

// prioritizeNextSkills orders learning suggestions: missing core skills for
// the role first, then skills for the next level, then trending, then
// complementary. Duplicates keep their first, higher-priority slot.
func prioritizeNextSkills(currentSkills, complementary []string, career types.CareerRecommendation, trending []string) []types.SkillSuggestion {
	current := lowerSet(currentSkills)
	suggested := map[string]struct{}{}
	var out []types.SkillSuggestion

	add := func(skill, priority, reason, category string) {
		lower := strings.ToLower(skill)
		if _, known := current[lower]; known {
			return
		}
		if _, dup := suggested[lower]; dup {
			return
		}
		suggested[lower] = struct{}{}
		out = append(out, types.SkillSuggestion{
			Skill:    skill,
			Priority: priority,
			Reason:   reason,
			Category: category,
		})
	}

	for _, skill := range career.MissingCoreSkills {
		add(skill, "critical", "Required for current role", "career_essential")
	}
	for _, skill := range clip(career.MissingRecommendedSkills, 5) {
		add(skill, "high", "Needed for career advancement", "career_growth")
	}
	for _, skill := range clip(trending, 5) {
		add(skill, "medium", "High market demand", "market_trend")
	}
	for _, skill := range clip(complementary, 5) {
		add(skill, "medium", "Complements your current skills", "complementary")
	}
	return out
}

func learningPath(next []types.SkillSuggestion) []types.LearningPhase {
	var critical, high, medium []string
	for _, s := range next {
		switch s.Priority {
		case "critical":
			critical = append(critical, s.Skill)
		case "high":
			high = append(high, s.Skill)
		case "medium":
			medium = append(medium, s.Skill)
		}
	}

	var path []types.LearningPhase
	if len(critical) > 0 {
		path = append(path, types.LearningPhase{
			Phase:    1,
			Title:    "Foundation Building (1-3 months)",
			Skills:   critical,
			Focus:    "Essential skills required for your current role",
			Duration: "1-3 months",
		})
	}
	if len(high) > 0 {
		path = append(path, types.LearningPhase{
			Phase:    2,
			Title:    "Career Advancement (3-6 months)",
			Skills:   clip(high, 5),
			Focus:    "Skills for promotion to next level",
			Duration: "3-6 months",
		})
	}
	if len(medium) > 0 {
		path = append(path, types.LearningPhase{
			Phase:    3,
			Title:    "Market Competitiveness (6-12 months)",
			Skills:   clip(medium, 5),
			Focus:    "Stay current with industry trends",
			Duration: "6-12 months",
		})
	}
	return path
}

func marketInsights(currentSkills []string, role string) types.MarketInsights {
	insights := types.MarketInsights{
		DemandLevel:      "moderate",
		SalaryTrend:      "stable",
		JobOpportunities: "moderate",
		Competitiveness:  "moderate",
	}

	if demand, ok := taxonomy.IndustryDemand(role); ok {
		insights.DemandLevel = demand
	}

	hot := lowerSet(taxonomy.HotSkills())
	hotCount := 0
	for _, skill := range currentSkills {
		if _, ok := hot[strings.ToLower(skill)]; ok {
			hotCount++
		}
	}
	if hotCount >= 5 {
		insights.Competitiveness = "high"
		insights.JobOpportunities = "excellent"
	} else if hotCount >= 3 {
		insights.Competitiveness = "good"
		insights.JobOpportunities = "good"
	}
	return insights
}

func skillsNotIn(want []string, have map[string]struct{}) []string {
	missing := []string{}
	for _, skill := range want {
		if _, ok := have[strings.ToLower(skill)]; !ok {
			missing = append(missing, skill)
		}
	}
	return missing
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func clip(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func clipSuggestions(items []types.SkillSuggestion, n int) []types.SkillSuggestion {
	if len(items) > n {
		return items[:n]
	}
	return items
}
