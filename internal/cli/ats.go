package cli

import (
	"context"
	"fmt"

	"resumescreen/internal/ats"
	"resumescreen/internal/common"

	"github.com/spf13/cobra"
)

var atsCmd = &cobra.Command{
	Use:   "ats [resume-file]",
	Short: "Analyze a resume for ATS compatibility",
	Long: `Analyze a resume for compatibility with applicant tracking systems.
The analysis covers formatting, keyword coverage, section structure, and
content quality, and produces a letter grade with prioritized fixes.

Job keywords can be supplied with --keywords to score keyword coverage
against a specific posting; without them a generic keyword set is used.
With --optimize the output is a cleaned-up resume text with rewrite
suggestions instead of the compatibility report.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if atsConfig.OutputFormat == "" {
			atsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(atsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runATS,
}

var (
	atsConfig   common.CommandConfig
	atsKeywords []string
	atsOptimize bool
)

func init() {
	atsCmd.Flags().StringVarP(&atsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	atsCmd.Flags().StringVar(&atsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	atsCmd.Flags().StringSliceVar(&atsKeywords, "keywords", nil, "Job keywords to score coverage against (comma-separated)")
	atsCmd.Flags().BoolVar(&atsOptimize, "optimize", false, "Output optimized resume text with rewrite suggestions")

	// Add completion for format flag
	_ = atsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runATS(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	analyzer := ats.New(logger)

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(resumeText string, cfg common.CommandConfig) {
		logger.Info("Starting ATS analysis",
			"resume_chars", len(resumeText),
			"keyword_count", len(atsKeywords),
			"optimize", atsOptimize,
			"output_format", cfg.OutputFormat)
	}

	atsOperation := func(ctx context.Context, resumeText string) (any, error) {
		if atsOptimize {
			return analyzer.Optimize(resumeText, atsKeywords), nil
		}
		return analyzer.Analyze(resumeText, atsKeywords), nil
	}

	err := common.RunFileCommand(
		cmd.Context(),
		logger,
		atsConfig,
		args,
		createInput,
		atsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("ATS analysis completed successfully")
	return nil
}
