package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resumescreen/internal/cache"
	"resumescreen/internal/common"
	"resumescreen/internal/embedding"
	"resumescreen/internal/matching"
	"resumescreen/internal/parser"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-file...]",
	Short: "Score a resume against one or more job specifications",
	Long: `Score a resume against job specifications using a weighted blend of
semantic similarity, skill overlap, experience, education, and keyword
coverage.

The resume file may be plain text (structured automatically) or a JSON
structured resume. Each job file is a JSON job specification. With a single
job the output is a match result; with several jobs the output is a ranked
list sorted by overall score.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type matchInput struct {
	resume *types.StructuredResume
	jobs   []*types.JobSpec
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	vectorCache := cache.NewMemory(cfg.Embedding.CacheTTL)
	embedder, err := embedding.NewGeminiEmbedder(
		&cfg.Embedding,
		vectorCache,
		cfg.Observability.HealthCheck.ModelCheckTimeout,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	defer func() {
		if err := embedder.Close(); err != nil {
			logger.LogError(err, "Failed to close embedder")
		}
	}()

	engine, err := matching.NewEngine(cfg.Engine.Weights, embedder, logger)
	if err != nil {
		return fmt.Errorf("failed to create matching engine: %w", err)
	}

	createInput := func(contents []string) (matchInput, error) {
		if len(contents) < 2 {
			return matchInput{}, fmt.Errorf("expected a resume file and at least one job file, got %d files", len(contents))
		}

		resume, err := parseResumeContent(contents[0])
		if err != nil {
			return matchInput{}, err
		}

		input := matchInput{resume: resume}
		for i, content := range contents[1:] {
			var job types.JobSpec
			if err := json.Unmarshal([]byte(content), &job); err != nil {
				return matchInput{}, fmt.Errorf("failed to parse job file %s: %w", args[i+1], err)
			}
			input.jobs = append(input.jobs, &job)
		}
		return input, nil
	}

	logDetails := func(input matchInput, cfg common.CommandConfig) {
		logger.Info("Starting resume matching",
			"job_count", len(input.jobs),
			"output_format", cfg.OutputFormat)
	}

	matchOperation := func(ctx context.Context, input matchInput) (any, error) {
		if len(input.jobs) == 1 {
			return engine.Match(ctx, input.resume, input.jobs[0])
		}
		return engine.MatchBatch(ctx, input.resume, input.jobs)
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		matchConfig,
		args,
		createInput,
		matchOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score match: %w", err)
	}
	logger.Info("Resume matching completed successfully")
	return nil
}

// parseResumeContent accepts either a JSON structured resume or raw resume
// text, which is structured in place.
func parseResumeContent(content string) (*types.StructuredResume, error) {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		var resume types.StructuredResume
		if err := json.Unmarshal([]byte(content), &resume); err != nil {
			return nil, fmt.Errorf("failed to parse structured resume: %w", err)
		}
		return &resume, nil
	}

	structured := parser.New().Structure(content, nil)
	return &structured, nil
}
