package cli

import (
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/recommend"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend skills for career growth",
	Long: `Recommend skills based on a current skill profile. The output covers
profile strengths, prioritized next skills, a phased learning path, career
readiness for a target role, and market insights.

The target role is inferred from the skills when --role is not given.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if recommendConfig.OutputFormat == "" {
			recommendConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(recommendConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRecommend,
}

var (
	recommendConfig common.CommandConfig
	recommendSkills []string
	recommendRole   string
	recommendYears  float64
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	recommendCmd.Flags().StringVar(&recommendConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	recommendCmd.Flags().StringSliceVar(&recommendSkills, "skills", nil, "Current skills (comma-separated)")
	recommendCmd.Flags().StringVar(&recommendRole, "role", "", "Target role (inferred from skills when empty)")
	recommendCmd.Flags().Float64Var(&recommendYears, "years", 0, "Years of professional experience")
	_ = recommendCmd.MarkFlagRequired("skills")

	// Add completion for format flag
	_ = recommendCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runRecommend(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	if len(recommendSkills) == 0 {
		return fmt.Errorf("at least one skill is required")
	}
	if recommendYears < 0 {
		return fmt.Errorf("years must not be negative")
	}

	logger.Info("Starting skill recommendation",
		"skill_count", len(recommendSkills),
		"target_role", recommendRole,
		"experience_years", recommendYears,
		"output_format", recommendConfig.OutputFormat)

	engine := recommend.New(logger)
	result := engine.Recommend(recommendSkills, recommendRole, recommendYears)

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, recommendConfig); err != nil {
		return fmt.Errorf("failed to write recommendations: %w", err)
	}
	logger.Info("Skill recommendation completed successfully")
	return nil
}
