package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/parser"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var structureCmd = &cobra.Command{
	Use:   "structure [resume-file]",
	Short: "Structure raw resume text into sections",
	Long: `Structure raw resume text into personal info, summary, skills,
experience, and education. The command takes one argument: the path to a
plain-text resume file. Pre-extracted entity hints can be supplied as a JSON
file with --entities; they take precedence over heuristic extraction.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if structureConfig.OutputFormat == "" {
			structureConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(structureConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runStructure,
}

var (
	structureConfig       common.CommandConfig
	structureEntitiesFile string
)

func init() {
	structureCmd.Flags().StringVarP(&structureConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	structureCmd.Flags().StringVar(&structureConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	structureCmd.Flags().StringVar(&structureEntitiesFile, "entities", "", "JSON file with pre-extracted entity hints")

	// Add completion for format flag
	_ = structureCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type structureInput struct {
	resumeText string
	entities   []types.Entity
}

func runStructure(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	p := parser.New()

	// The optional entities file rides along as a second input file
	files := args
	if structureEntitiesFile != "" {
		files = append(files, structureEntitiesFile)
	}

	createInput := func(contents []string) (structureInput, error) {
		input := structureInput{resumeText: contents[0]}
		if len(contents) > 1 {
			if err := json.Unmarshal([]byte(contents[1]), &input.entities); err != nil {
				return structureInput{}, fmt.Errorf("failed to parse entities file: %w", err)
			}
		}
		return input, nil
	}

	logDetails := func(input structureInput, cfg common.CommandConfig) {
		logger.Info("Starting resume structuring",
			"resume_chars", len(input.resumeText),
			"entity_count", len(input.entities),
			"output_format", cfg.OutputFormat)
	}

	structureOperation := func(ctx context.Context, input structureInput) (types.StructuredResume, error) {
		return p.Structure(input.resumeText, input.entities), nil
	}

	err := common.RunFileCommand(
		cmd.Context(),
		logger,
		structureConfig,
		files,
		createInput,
		structureOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to structure resume: %w", err)
	}
	logger.Info("Resume structuring completed successfully")
	return nil
}
