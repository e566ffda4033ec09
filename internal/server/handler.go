package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	screenErrors "resumescreen/internal/errors"
	"resumescreen/internal/observability"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// createStructureHandler wraps the resume structuring handler with observability
func (s *Server) createStructureHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.structure")
		defer span.End()

		var req StructureRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if !s.validateFieldSize(w, span, "resumeText", req.ResumeText) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.entity_count", len(req.Entities)),
			attribute.String("operation", "structure"),
		)

		metrics := om.GetMetrics()
		var result types.StructuredResume
		err := metrics.TrackEngineOperation(ctx, "structure", func(ctx context.Context) error {
			result = s.Parser.Structure(req.ResumeText, req.Entities)
			return nil
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_structured", false)
			writeErrorResponse(w, "Failed to structure resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_structured", true,
			attribute.Int("output.skill_count", len(result.Skills.All)),
			attribute.Int("output.experience_count", len(result.Experience)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.skill_count", len(result.Skills.All)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createMatchHandler wraps the single-job match handler with observability
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if req.Job == nil {
			err := fmt.Errorf("missing job")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job", "job field is required", http.StatusBadRequest)
			return
		}
		resume, ok := s.resolveResume(w, span, req.Resume, req.ResumeText)
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.String("request.job_title", req.Job.Title),
			attribute.String("operation", "match"),
		)

		metrics := om.GetMetrics()
		var result *types.MatchResult
		err := metrics.TrackEngineOperation(ctx, "match", func(ctx context.Context) error {
			var matchErr error
			result, matchErr = s.Matcher.Match(ctx, resume, req.Job)
			return matchErr
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine_processing"))
			metrics.RecordBusinessMetric(ctx, "match_scored", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to score match", err.Error(), matchErrorStatus(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "match_scored", true,
			attribute.Float64("match.overall_score", result.OverallScore),
			attribute.String("match.level", result.MatchLevel))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("match.overall_score", result.OverallScore),
			attribute.String("match.level", result.MatchLevel),
		)

		writeJSONResponse(w, span, result)
	}
}

// createBatchMatchHandler wraps the batch match handler with observability
func (s *Server) createBatchMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.match_batch")
		defer span.End()

		var req BatchMatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if len(req.Jobs) == 0 {
			err := fmt.Errorf("missing jobs")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing jobs", "jobs field must contain at least one job", http.StatusBadRequest)
			return
		}
		for i, job := range req.Jobs {
			if job == nil {
				err := fmt.Errorf("nil job at index %d", i)
				span.RecordError(err)
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid job entry", err.Error(), http.StatusBadRequest)
				return
			}
		}
		resume, ok := s.resolveResume(w, span, req.Resume, req.ResumeText)
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_count", len(req.Jobs)),
			attribute.String("operation", "match_batch"),
		)

		metrics := om.GetMetrics()
		var results []types.RankedMatch
		err := metrics.TrackEngineOperation(ctx, "match_batch", func(ctx context.Context) error {
			var matchErr error
			results, matchErr = s.Matcher.MatchBatch(ctx, resume, req.Jobs)
			return matchErr
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine_processing"))
			metrics.RecordBusinessMetric(ctx, "match_scored", false,
				attribute.String("error", err.Error()),
				attribute.Int("job_count", len(req.Jobs)))
			writeErrorResponse(w, "Failed to score matches", err.Error(), matchErrorStatus(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "match_scored", true,
			attribute.Int("job_count", len(results)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.match_count", len(results)),
		)

		writeJSONResponse(w, span, results)
	}
}

// createATSHandler wraps the ATS analysis handler with observability
func (s *Server) createATSHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.ats")
		defer span.End()

		var req ATSRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if !s.validateFieldSize(w, span, "resumeText", req.ResumeText) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.keyword_count", len(req.JobKeywords)),
			attribute.Bool("request.optimize", req.Optimize),
			attribute.String("operation", "ats"),
		)

		metrics := om.GetMetrics()
		var resp ATSResponse
		err := metrics.TrackEngineOperation(ctx, "ats", func(ctx context.Context) error {
			resp.Report = s.ATSAnalyzer.Analyze(req.ResumeText, req.JobKeywords)
			if req.Optimize {
				resp.Optimization = s.ATSAnalyzer.Optimize(req.ResumeText, req.JobKeywords)
			}
			return nil
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "ats_analyzed", false)
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "ats_analyzed", true,
			attribute.Float64("ats.overall_score", resp.Report.OverallScore),
			attribute.String("ats.grade", resp.Report.Grade))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("ats.overall_score", resp.Report.OverallScore),
			attribute.String("ats.grade", resp.Report.Grade),
		)

		writeJSONResponse(w, span, resp)
	}
}

// createRecommendHandler wraps the skill recommendation handler with observability
func (s *Server) createRecommendHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.recommend")
		defer span.End()

		var req RecommendRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if len(req.Skills) == 0 {
			err := fmt.Errorf("missing skills")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing skills", "skills field must contain at least one skill", http.StatusBadRequest)
			return
		}
		if req.ExperienceYears < 0 {
			err := fmt.Errorf("negative experience years: %v", req.ExperienceYears)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid experience years", "experienceYears must not be negative", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.skill_count", len(req.Skills)),
			attribute.String("request.target_role", req.TargetRole),
			attribute.String("operation", "recommend"),
		)

		metrics := om.GetMetrics()
		var result *types.RecommendationSet
		err := metrics.TrackEngineOperation(ctx, "recommend", func(ctx context.Context) error {
			result = s.Recommender.Recommend(req.Skills, req.TargetRole, req.ExperienceYears)
			return nil
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "recommendation_generated", false)
			writeErrorResponse(w, "Failed to generate recommendations", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "recommendation_generated", true,
			attribute.String("profile.level", result.CurrentProfile.Level),
			attribute.Int("next_skill_count", len(result.NextSkillsToLearn)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("profile.level", result.CurrentProfile.Level),
		)

		writeJSONResponse(w, span, result)
	}
}

// resolveResume returns the structured resume for a match request, running
// the parser over raw text when no structured form was supplied. Writes the
// error response itself and returns false when the request is invalid.
func (s *Server) resolveResume(w http.ResponseWriter, span trace.Span, resume *types.StructuredResume, resumeText string) (*types.StructuredResume, bool) {
	if resume != nil {
		return resume, true
	}
	if strings.TrimSpace(resumeText) == "" {
		err := fmt.Errorf("missing resume")
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Missing resume", "either resume or resumeText is required", http.StatusBadRequest)
		return nil, false
	}
	if !s.validateFieldSize(w, span, "resumeText", resumeText) {
		return nil, false
	}
	structured := s.Parser.Structure(resumeText, nil)
	return &structured, true
}

// validateFieldSize rejects oversized text fields before they reach the
// engines. Uses half the request size limit per field, matching the overall
// body limit enforced by parseJSONRequest.
func (s *Server) validateFieldSize(w http.ResponseWriter, span trace.Span, field, value string) bool {
	if s.MaxRequestSize <= 0 || len(value) <= int(s.MaxRequestSize/2) {
		return true
	}
	err := fmt.Errorf("%s too large: %d chars", field, len(value))
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "validation"))
	writeErrorResponse(w, "Field too large",
		fmt.Sprintf("%s exceeds recommended size limit of %d characters", field, s.MaxRequestSize/2),
		http.StatusBadRequest)
	return false
}

// matchErrorStatus maps engine failures to HTTP status codes. Embedding
// backend outages surface as 503 so callers can retry.
func matchErrorStatus(err error) int {
	if screenErrors.IsEmbeddingUnavailable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSONResponse(w http.ResponseWriter, span trace.Span, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
