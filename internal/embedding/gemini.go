package embedding

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumescreen/internal/cache"
	"resumescreen/internal/config"
	"resumescreen/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiEmbedder implements Embedder on top of the Gemini embedding API.
// Vectors are cached by content hash so repeated texts within the cache TTL
// don't hit the network.
type GeminiEmbedder struct {
	client            *genai.Client
	cfg               *config.EmbeddingConfig
	breaker           *EmbedCircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	cache             cache.Cache
	logger            *errors.Logger
	modelCheckTimeout time.Duration
}

var _ Embedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates an embedder. The cache may be nil to disable
// vector caching.
func NewGeminiEmbedder(cfg *config.EmbeddingConfig, vectorCache cache.Cache, modelCheckTimeout time.Duration, logger *errors.Logger) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Embedding API key is required (set RESUMESCREEN_EMBEDDING_APIKEY)", nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewEmbeddingError(errors.ErrCodeEmbeddingUnavailable,
			"Failed to create Gemini client", err)
	}

	return &GeminiEmbedder{
		client:            client,
		cfg:               cfg,
		breaker:           NewEmbedCircuitBreaker(&cfg.CircuitBreaker, logger),
		modelBreaker:      NewModelCircuitBreaker(&cfg.CircuitBreaker, logger),
		cache:             vectorCache,
		logger:            logger,
		modelCheckTimeout: modelCheckTimeout,
	}, nil
}

// Embed returns the embedding vector for text. Failures surface as
// EMBEDDING_UNAVAILABLE errors; the caller decides whether to abort or
// exclude the semantic sub-score.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("resumescreen.embedding.gemini")
	ctx, span := tracer.Start(ctx, "gemini.embed")
	defer span.End()
	span.SetAttributes(
		attribute.String("embedding.provider", "gemini"),
		attribute.String("embedding.model", g.cfg.Model),
		attribute.Int("embedding.text_length", len(text)),
	)

	key := contentKey(text)
	if g.cache != nil {
		if cached, ok := g.cache.Get(key); ok {
			if vec, ok := cached.([]float32); ok {
				span.SetAttributes(attribute.Bool("embedding.cache_hit", true))
				return vec, nil
			}
		}
	}
	span.SetAttributes(attribute.Bool("embedding.cache_hit", false))

	vec, err := g.breaker.Execute(func() ([]float32, error) {
		return g.embedWithRetry(ctx, text)
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewEmbeddingError(errors.ErrCodeEmbeddingUnavailable,
			"Failed to embed text", err)
	}

	if g.cache != nil {
		g.cache.Set(key, vec, g.cfg.CacheTTL)
	}
	span.SetAttributes(attribute.Int("embedding.dimensions", len(vec)))
	return vec, nil
}

// embedWithRetry calls the embedding API with bounded exponential backoff.
func (g *GeminiEmbedder) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying embedding request",
				"attempt", attempt,
				"max_retries", g.cfg.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			backoff := min(baseDelay+time.Duration(jitterBig.Int64()), 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		resp, err := g.client.Models.EmbedContent(callCtx, g.cfg.Model, genai.Text(text), nil)
		cancel()
		if err == nil {
			if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
				return nil, fmt.Errorf("embedding response contained no vector")
			}
			return resp.Embeddings[0].Values, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("embedding failed after %d retries: %w", g.cfg.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiEmbedder) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{
		Name:      g.cfg.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.cfg.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.cfg.Model,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// GetCircuitBreakerStats returns statistics for both breakers.
func (g *GeminiEmbedder) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"embed_operations": g.breaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.breaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// CacheStats returns vector cache statistics, zero-valued when caching is
// disabled.
func (g *GeminiEmbedder) CacheStats() cache.Stats {
	if g.cache == nil {
		return cache.Stats{}
	}
	return g.cache.Stats()
}

// Close implements Embedder.
func (g *GeminiEmbedder) Close() error {
	// The genai client holds no resources needing explicit release in
	// single-shot usage.
	return nil
}

func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
