package types

import "time"

// Entity is one named-entity annotation supplied by the upstream NER
// collaborator. Label follows the usual NER tag set (PERSON, ORG, GPE, ...).
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// PersonalInfo holds contact details extracted from a resume. Every field is
// optional; an empty string means the extractor found nothing.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// SkillSet is the categorized plus flattened view of a resume's skills.
// Every skill in All appears in at least one category bucket.
type SkillSet struct {
	Categorized map[string][]string `json:"categorized"`
	All         []string            `json:"all"`
	Count       int                 `json:"count"`
}

// ExperienceEntry is one job position parsed from the experience section.
type ExperienceEntry struct {
	Position         string   `json:"position"`
	Company          string   `json:"company"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
}

// EducationEntry is one degree parsed from the education section.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa"`
}

// ResumeMetadata carries parse-time bookkeeping.
type ResumeMetadata struct {
	TextLength int       `json:"textLength"`
	WordCount  int       `json:"wordCount"`
	ParsedAt   time.Time `json:"parsedAt"`
}

// StructuredResume is the canonical structured record produced from raw
// resume text plus NER entities. It is immutable once constructed; scoring
// never mutates it.
type StructuredResume struct {
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	Skills       SkillSet          `json:"skills"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Summary      string            `json:"summary"`
	Keywords     []string          `json:"keywords"`
	Metadata     ResumeMetadata    `json:"metadata"`
}

// JobSpec describes one job opening. Read-only input to the matching engine.
type JobSpec struct {
	ID                      string   `json:"id,omitempty"`
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
	Requirements            string   `json:"requirements"`
	RequiredSkills          []string `json:"requiredSkills"`
	PreferredSkills         []string `json:"preferredSkills"`
	RequiredExperienceYears float64  `json:"requiredExperienceYears"`
	RequiredEducation       string   `json:"requiredEducation"`
	Keywords                []string `json:"keywords,omitempty"`
}

// ScoresBreakdown holds the five sub-scores, each in [0,1].
type ScoresBreakdown struct {
	Semantic   float64 `json:"semantic"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Keyword    float64 `json:"keyword"`
}

// SkillGaps lists the job skills the resume is missing.
type SkillGaps struct {
	MissingRequired  []string `json:"missingRequired"`
	MissingPreferred []string `json:"missingPreferred"`
	TotalGaps        int      `json:"totalGaps"`
	CriticalGaps     int      `json:"criticalGaps"`
}

// MatchResult is the composite outcome of matching one resume against one
// job. Constructed fresh per call, never persisted by the engine.
type MatchResult struct {
	OverallScore    float64         `json:"overallScore"`
	MatchPercentage float64         `json:"matchPercentage"`
	Scores          ScoresBreakdown `json:"scoresBreakdown"`
	SkillGaps       SkillGaps       `json:"skillGaps"`
	MatchLevel      string          `json:"matchLevel"`
	Recommendation  string          `json:"recommendation"`
}

// RankedMatch is one element of a batch-match result, ordered best first.
type RankedMatch struct {
	JobID    string `json:"jobId"`
	JobTitle string `json:"jobTitle"`
	Rank     int    `json:"rank"`
	MatchResult
}

// FormatAnalysis scores how cleanly the raw text would survive automated
// parsing.
type FormatAnalysis struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// KeywordAnalysis scores keyword coverage against the job keyword list.
type KeywordAnalysis struct {
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Density         float64  `json:"density"`
	Issues          []string `json:"issues"`
}

// StructureAnalysis scores presence of expected resume sections and contact
// details.
type StructureAnalysis struct {
	Score         float64  `json:"score"`
	FoundSections []string `json:"foundSections"`
	HasEmail      bool     `json:"hasEmail"`
	HasPhone      bool     `json:"hasPhone"`
	Issues        []string `json:"issues"`
}

// ContentAnalysis scores writing quality signals in the raw text.
type ContentAnalysis struct {
	Score             float64  `json:"score"`
	Issues            []string `json:"issues"`
	ActionVerbCount   int      `json:"actionVerbCount"`
	QuantifiableCount int      `json:"quantifiableCount"`
	WordCount         int      `json:"wordCount"`
}

// ATSReport is the applicant-tracking-system compatibility report for a raw
// resume text.
type ATSReport struct {
	OverallScore      float64           `json:"overallScore"`
	Grade             string            `json:"grade"`
	ATSFriendly       bool              `json:"atsFriendly"`
	Format            FormatAnalysis    `json:"format"`
	Keywords          KeywordAnalysis   `json:"keywords"`
	Structure         StructureAnalysis `json:"structure"`
	Content           ContentAnalysis   `json:"content"`
	CriticalIssues    []string          `json:"criticalIssues"`
	Recommendations   []string          `json:"recommendations"`
	EstimatedPassRate string            `json:"estimatedPassRate"`
}

// OptimizeResult holds text-level ATS improvement output.
type OptimizeResult struct {
	OptimizedText    string   `json:"optimizedText"`
	Suggestions      []string `json:"suggestions"`
	KeywordAdditions []string `json:"keywordAdditions"`
}

// SkillProfile summarizes a candidate's current skill set.
type SkillProfile struct {
	TotalSkills int                 `json:"totalSkills"`
	Categories  map[string][]string `json:"skillCategories"`
	Strengths   []string            `json:"strengths"`
	Level       string              `json:"level"`
}

// SkillSuggestion is one prioritized skill to learn next.
type SkillSuggestion struct {
	Skill    string `json:"skill"`
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

// CareerRecommendation compares the current skill set against a career
// path's requirements. CoreCompleteness is a percentage in [0,100].
type CareerRecommendation struct {
	CurrentRole              string   `json:"currentRole"`
	NextLevel                string   `json:"nextLevel"`
	MissingSkills            []string `json:"missingSkills"`
	MissingCoreSkills        []string `json:"missingCoreSkills"`
	MissingRecommendedSkills []string `json:"missingRecommendedSkills"`
	CoreCompleteness         float64  `json:"coreCompleteness"`
	ReadyForPromotion        bool     `json:"readyForPromotion"`
	EstimatedYearsToNext     float64  `json:"estimatedYearsToNext"`
}

// LearningPhase is one stage of the staged learning path.
type LearningPhase struct {
	Phase    int      `json:"phase"`
	Title    string   `json:"title"`
	Skills   []string `json:"skills"`
	Focus    string   `json:"focus"`
	Duration string   `json:"estimatedDuration"`
}

// MarketInsights summarizes demand signals for the candidate's profile.
type MarketInsights struct {
	DemandLevel      string `json:"demandLevel"`
	SalaryTrend      string `json:"salaryTrend"`
	JobOpportunities string `json:"jobOpportunities"`
	Competitiveness  string `json:"competitiveness"`
}

// RecommendationSet is the full output of the skill recommendation engine.
type RecommendationSet struct {
	CurrentProfile      SkillProfile         `json:"currentProfile"`
	SkillGaps           []string             `json:"skillGaps"`
	NextSkillsToLearn   []SkillSuggestion    `json:"nextSkillsToLearn"`
	ComplementarySkills []string             `json:"complementarySkills"`
	TrendingSkills      []string             `json:"trendingSkills"`
	CareerPath          CareerRecommendation `json:"careerPath"`
	LearningPath        []LearningPhase      `json:"learningPath"`
	MarketInsights      MarketInsights       `json:"marketInsights"`
}
