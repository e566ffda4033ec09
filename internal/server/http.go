package server

import (
	"fmt"
	"time"

	"resumescreen/internal/ats"
	"resumescreen/internal/cache"
	"resumescreen/internal/config"
	"resumescreen/internal/embedding"
	screenErrors "resumescreen/internal/errors"
	"resumescreen/internal/matching"
	"resumescreen/internal/parser"
	"resumescreen/internal/recommend"
	"resumescreen/internal/types"
)

// StructureRequest represents the request body for the structure endpoint.
// Entities are optional pre-extracted hints (names, emails, keywords) that
// take precedence over heuristic extraction.
type StructureRequest struct {
	ResumeText string         `json:"resumeText"`
	Entities   []types.Entity `json:"entities,omitempty"`
}

// MatchRequest represents the request body for the match endpoint. Either a
// structured resume or raw resume text must be provided; raw text is
// structured before scoring.
type MatchRequest struct {
	Resume     *types.StructuredResume `json:"resume,omitempty"`
	ResumeText string                  `json:"resumeText,omitempty"`
	Job        *types.JobSpec          `json:"job"`
}

// BatchMatchRequest represents the request body for the batch match endpoint
type BatchMatchRequest struct {
	Resume     *types.StructuredResume `json:"resume,omitempty"`
	ResumeText string                  `json:"resumeText,omitempty"`
	Jobs       []*types.JobSpec        `json:"jobs"`
}

// ATSRequest represents the request body for the ATS analysis endpoint.
// When Optimize is set, the response includes rewrite suggestions alongside
// the compatibility report.
type ATSRequest struct {
	ResumeText  string   `json:"resumeText"`
	JobKeywords []string `json:"jobKeywords,omitempty"`
	Optimize    bool     `json:"optimize,omitempty"`
}

// ATSResponse wraps the compatibility report and optional optimization result
type ATSResponse struct {
	Report       *types.ATSReport      `json:"report"`
	Optimization *types.OptimizeResult `json:"optimization,omitempty"`
}

// RecommendRequest represents the request body for the recommend endpoint
type RecommendRequest struct {
	Skills          []string `json:"skills"`
	TargetRole      string   `json:"targetRole,omitempty"`
	ExperienceYears float64  `json:"experienceYears,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and the scoring engines for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Scoring engines, shared across requests
	Parser      *parser.Parser
	Matcher     *matching.Engine
	ATSAnalyzer *ats.Analyzer
	Recommender *recommend.Engine
	Embedder    *embedding.GeminiEmbedder

	// Logger
	Logger *screenErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct. The
// embedder, matching engine, and analyzers are constructed once and shared
// across all requests.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *screenErrors.Logger) (*Server, error) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewLimiterManager(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	vectorCache := cache.NewMemory(appCfg.Embedding.CacheTTL)
	embedder, err := embedding.NewGeminiEmbedder(
		&appCfg.Embedding,
		vectorCache,
		appCfg.Observability.HealthCheck.ModelCheckTimeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	matcher, err := matching.NewEngine(appCfg.Engine.Weights, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create matching engine: %w", err)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Parser:         parser.New(),
		Matcher:        matcher,
		ATSAnalyzer:    ats.New(logger),
		Recommender:    recommend.New(logger),
		Embedder:       embedder,
		Logger:         logger,
	}, nil
}
