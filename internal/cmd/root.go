package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/salmonumbrella/codetree/internal/config"
	"github.com/salmonumbrella/codetree/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Global flags
var (
	outputFmt   string
	outputType  output.Format
	debug       bool
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	quietFlag   bool
	yesFlag     bool
	resultLimit int
	resultSort  string
	resultDesc  bool

	inputPath   string
	inputDir    string
	inputFormat string
	strictFlag  bool
)

// Shared state resolved in PersistentPreRunE.
var (
	activeConfig *config.Config
	logger       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "codetree",
	Short: "Browse flat file maps as folder trees",
	Long: `codetree turns a flat mapping of file paths to contents into a folder
tree, and shows, lists and highlights the files in it.

Input comes from a JSON or YAML document (--input, or stdin) or from a
directory snapshot (--dir, default: the current directory).

Environment Variables:
  CODETREE_INPUT  Default --input document
  CODETREE_DIR    Default --dir directory`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		// config commands must work even when the file is broken
		cfg := &config.Config{}
		if !isConfigCommand(cmd) {
			loaded, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loaded
		}
		activeConfig = cfg

		// Output format selection: --output > config > non-tty json > default
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") {
			if strings.TrimSpace(cfg.OutputFormat) != "" {
				formatStr = strings.TrimSpace(cfg.OutputFormat)
			} else if !isTerminalFunc(cmd.OutOrStdout()) {
				formatStr = "json"
			}
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}

		if !flagChanged(cmd, "quiet") && !isTerminalFunc(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		log, err := newLoggerFunc(debug, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = log

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithYes(ctx, yesFlag)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = output.WithSort(ctx, resultSort, resultDesc)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		return validateErrorFormat(errorFmt)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if cmd != nil && cmd.Context() != nil {
			ctx = cmd.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("codetree version %s (commit: %s, built: %s)\n", version, commit, date))

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Skip confirmation prompts (for automation)")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of results in output (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&resultSort, "result-sort-by", "", "Sort output results by field")
	rootCmd.PersistentFlags().BoolVar(&resultDesc, "result-desc", false, "Sort output results in descending order")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/codetree/config.yaml)")

	// Input flags
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "JSON or YAML file map to read (use - for stdin) (env: CODETREE_INPUT)")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "dir", "d", "", "Directory to snapshot (env: CODETREE_DIR)")
	rootCmd.PersistentFlags().StringVar(&inputFormat, "input-format", "auto", "Input document format (auto|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Reject paths used as both a file and a folder")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
