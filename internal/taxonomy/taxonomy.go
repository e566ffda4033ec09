// Package taxonomy holds the static skill knowledge base: the extraction
// vocabulary used by resume structuring, the skill relation graph, career
// progression paths, and market trend lists. All tables are loaded once and
// never mutated; accessors return the backing data and callers must treat it
// as read-only. Iteration orders are fixed (sorted keys) so repeated runs
// produce identical output.
package taxonomy

import (
	"sort"
	"strings"
)

// Tier classifies a skill's proficiency/seniority level.
type Tier string

const (
	TierCore         Tier = "core"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Entry is one skill in the relation graph.
type Entry struct {
	Name     string
	Category string
	Tier     Tier
	Related  []string
}

// CareerPath describes one role's progression requirements.
type CareerPath struct {
	Role              string
	CoreSkills        []string
	RecommendedSkills []string
	NextLevel         string
	TypicalYears      float64
}

// vocabulary maps extraction category to the lowercase skill terms matched
// against resume text with whole-word containment.
var vocabulary = map[string][]string{
	"programming_languages": {
		"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "go", "golang",
		"rust", "swift", "kotlin", "php", "perl", "r", "matlab", "scala", "dart",
	},
	"web_technologies": {
		"html", "css", "react", "angular", "vue", "nodejs", "node.js", "express",
		"django", "flask", "fastapi", "spring boot", "asp.net", "next.js", "nuxt.js",
		"svelte", "jquery", "bootstrap", "tailwind", "sass", "less", "webpack", "vite",
	},
	"databases": {
		"sql", "mysql", "postgresql", "mongodb", "redis", "cassandra", "dynamodb",
		"oracle", "sql server", "sqlite", "elasticsearch", "neo4j", "couchdb",
	},
	"cloud_devops": {
		"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "jenkins",
		"gitlab", "github actions", "terraform", "ansible", "ci/cd", "devops",
	},
	"data_science": {
		"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
		"scikit-learn", "pandas", "numpy", "data analysis", "statistics",
		"nlp", "computer vision", "neural networks", "ai",
	},
	"soft_skills": {
		"leadership", "communication", "teamwork", "problem solving", "analytical",
		"project management", "agile", "scrum", "collaboration", "presentation",
	},
	"tools": {
		"git", "jira", "confluence", "slack", "figma", "adobe", "photoshop",
		"illustrator", "excel", "powerpoint", "tableau", "power bi", "looker",
	},
}

// entries is the skill relation graph keyed by graph group.
var entries = map[string][]Entry{
	"programming_languages": {
		{Name: "Python", Category: "backend", Tier: TierCore, Related: []string{"Django", "Flask", "FastAPI", "Pandas", "NumPy"}},
		{Name: "JavaScript", Category: "frontend", Tier: TierCore, Related: []string{"React", "Node.js", "TypeScript", "Vue", "Angular"}},
		{Name: "TypeScript", Category: "frontend", Tier: TierAdvanced, Related: []string{"JavaScript", "React", "Angular", "Node.js"}},
		{Name: "Java", Category: "backend", Tier: TierCore, Related: []string{"Spring Boot", "Hibernate", "Maven", "Gradle"}},
		{Name: "Go", Category: "backend", Tier: TierAdvanced, Related: []string{"Docker", "Kubernetes", "Microservices"}},
	},
	"frameworks": {
		{Name: "React", Category: "frontend", Tier: TierIntermediate, Related: []string{"JavaScript", "TypeScript", "Next.js", "Redux", "React Query"}},
		{Name: "Node.js", Category: "backend", Tier: TierIntermediate, Related: []string{"JavaScript", "Express", "NestJS", "MongoDB", "PostgreSQL"}},
		{Name: "Django", Category: "backend", Tier: TierIntermediate, Related: []string{"Python", "PostgreSQL", "Redis", "Celery"}},
		{Name: "FastAPI", Category: "backend", Tier: TierIntermediate, Related: []string{"Python", "Pydantic", "SQLAlchemy", "Uvicorn"}},
	},
	"cloud_devops": {
		{Name: "AWS", Category: "cloud", Tier: TierIntermediate, Related: []string{"Docker", "Kubernetes", "Terraform", "EC2", "S3", "Lambda"}},
		{Name: "Docker", Category: "devops", Tier: TierIntermediate, Related: []string{"Kubernetes", "Docker Compose", "CI/CD"}},
		{Name: "Kubernetes", Category: "devops", Tier: TierAdvanced, Related: []string{"Docker", "Helm", "Prometheus", "Grafana"}},
		{Name: "Terraform", Category: "devops", Tier: TierAdvanced, Related: []string{"AWS", "Azure", "GCP", "Infrastructure as Code"}},
	},
	"data_science": {
		{Name: "Machine Learning", Category: "ai", Tier: TierAdvanced, Related: []string{"Python", "TensorFlow", "PyTorch", "Scikit-learn", "Pandas"}},
		{Name: "TensorFlow", Category: "ai", Tier: TierAdvanced, Related: []string{"Python", "Keras", "Deep Learning", "Neural Networks"}},
		{Name: "Pandas", Category: "data", Tier: TierIntermediate, Related: []string{"Python", "NumPy", "Data Analysis", "SQL"}},
	},
	"databases": {
		{Name: "PostgreSQL", Category: "database", Tier: TierIntermediate, Related: []string{"SQL", "Database Design", "Indexing", "Query Optimization"}},
		{Name: "MongoDB", Category: "database", Tier: TierIntermediate, Related: []string{"NoSQL", "Database Design", "Indexing"}},
		{Name: "Redis", Category: "database", Tier: TierIntermediate, Related: []string{"Caching", "In-Memory Database", "Session Management"}},
	},
}

var careerPaths = map[string]CareerPath{
	"Software Engineer": {
		Role:              "Software Engineer",
		CoreSkills:        []string{"Python", "JavaScript", "Git", "SQL", "REST APIs"},
		RecommendedSkills: []string{"System Design", "Docker", "AWS", "Testing", "CI/CD"},
		NextLevel:         "Senior Software Engineer",
		TypicalYears:      2,
	},
	"Senior Software Engineer": {
		Role:              "Senior Software Engineer",
		CoreSkills:        []string{"System Design", "Architecture", "Mentoring", "Docker", "Kubernetes"},
		RecommendedSkills: []string{"Leadership", "Project Management", "Microservices", "Performance Optimization"},
		NextLevel:         "Tech Lead / Engineering Manager",
		TypicalYears:      4,
	},
	"Data Scientist": {
		Role:              "Data Scientist",
		CoreSkills:        []string{"Python", "Machine Learning", "Statistics", "Pandas", "SQL"},
		RecommendedSkills: []string{"Deep Learning", "TensorFlow", "Big Data", "MLOps", "A/B Testing"},
		NextLevel:         "Senior Data Scientist",
		TypicalYears:      2,
	},
	"Frontend Developer": {
		Role:              "Frontend Developer",
		CoreSkills:        []string{"JavaScript", "React", "HTML", "CSS", "TypeScript"},
		RecommendedSkills: []string{"Performance Optimization", "Testing", "Web Accessibility", "Next.js", "State Management"},
		NextLevel:         "Senior Frontend Developer",
		TypicalYears:      2,
	},
	"Backend Developer": {
		Role:              "Backend Developer",
		CoreSkills:        []string{"Python", "Node.js", "SQL", "REST APIs", "Authentication"},
		RecommendedSkills: []string{"Microservices", "Message Queues", "Caching", "System Design", "GraphQL"},
		NextLevel:         "Senior Backend Developer",
		TypicalYears:      2,
	},
	"DevOps Engineer": {
		Role:              "DevOps Engineer",
		CoreSkills:        []string{"Docker", "Kubernetes", "CI/CD", "Linux", "Bash"},
		RecommendedSkills: []string{"Terraform", "Monitoring", "Security", "Cloud Architecture", "GitOps"},
		NextLevel:         "Senior DevOps Engineer / SRE",
		TypicalYears:      2,
	},
}

var hotSkills = []string{
	"AI/ML", "Python", "React", "TypeScript", "Kubernetes",
	"AWS", "Docker", "Go", "Rust", "GraphQL",
}

var emergingTech = []string{
	"Large Language Models", "Edge Computing", "WebAssembly",
	"Serverless", "Blockchain", "Quantum Computing",
}

var industryDemand = map[string]string{
	"AI/ML Engineer":           "very_high",
	"Cloud Architect":          "high",
	"Full Stack Developer":     "high",
	"DevOps Engineer":          "high",
	"Data Engineer":            "high",
	"Cybersecurity Specialist": "high",
}

// RoleIndicator lists the skill terms that signal one role during role
// inference. The slice order is the deterministic iteration order.
type RoleIndicator struct {
	Role       string
	Indicators []string
}

// roleIndicators is sorted by role name so inference ties resolve
// lexicographically.
var roleIndicators = []RoleIndicator{
	{Role: "Backend Developer", Indicators: []string{"python", "node.js", "sql", "api"}},
	{Role: "Data Scientist", Indicators: []string{"machine learning", "python", "pandas", "statistics"}},
	{Role: "DevOps Engineer", Indicators: []string{"docker", "kubernetes", "ci/cd", "aws"}},
	{Role: "Frontend Developer", Indicators: []string{"react", "javascript", "html", "css"}},
	{Role: "Software Engineer", Indicators: []string{"python", "java", "javascript", "git"}},
}

// VocabularyCategories returns the extraction category names in sorted order.
func VocabularyCategories() []string {
	cats := make([]string, 0, len(vocabulary))
	for cat := range vocabulary {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// VocabularyTerms returns the lowercase extraction terms for a category.
func VocabularyTerms(category string) []string {
	return vocabulary[category]
}

var (
	sortedEntries = buildSortedEntries()
	entryIndex    = buildEntryIndex()
)

func buildSortedEntries() []Entry {
	var all []Entry
	for _, group := range entries {
		all = append(all, group...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func buildEntryIndex() map[string]Entry {
	idx := make(map[string]Entry)
	for _, group := range entries {
		for _, e := range group {
			idx[strings.ToLower(e.Name)] = e
		}
	}
	return idx
}

// Entries returns every relation-graph entry sorted by skill name.
func Entries() []Entry {
	return sortedEntries
}

// Lookup finds a relation-graph entry by case-insensitive exact name match.
func Lookup(name string) (Entry, bool) {
	e, ok := entryIndex[strings.ToLower(name)]
	return e, ok
}

// LookupCareerPath resolves a role to its career path.
func LookupCareerPath(role string) (CareerPath, bool) {
	path, ok := careerPaths[role]
	return path, ok
}

// CareerRoles returns the known role names in sorted order.
func CareerRoles() []string {
	roles := make([]string, 0, len(careerPaths))
	for role := range careerPaths {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// HotSkills returns the current high-demand skill list.
func HotSkills() []string {
	return hotSkills
}

// EmergingTech returns the emerging technology list.
func EmergingTech() []string {
	return emergingTech
}

// IndustryDemand returns the demand level recorded for a role.
func IndustryDemand(role string) (string, bool) {
	level, ok := industryDemand[role]
	return level, ok
}

// RoleIndicators returns the ordered role inference table.
func RoleIndicators() []RoleIndicator {
	return roleIndicators
}
