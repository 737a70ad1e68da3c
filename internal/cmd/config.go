package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/codetree/internal/config"
	"github.com/salmonumbrella/codetree/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/codetree/config.yaml.

You can view, set, or unset config keys such as output_format,
default_file, strict, ignore, max_file_size, theme, and state_file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		if structuredOutputRequested() {
			return printResult(cmd.Context(), configOutput(cfg))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Config:")
		fmt.Fprintf(out, "  output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "  default_file: %s\n", cfg.DefaultFile)
		fmt.Fprintf(out, "  strict: %t\n", cfg.Strict)
		fmt.Fprintf(out, "  ignore: %s\n", strings.Join(cfg.Ignore, ","))
		fmt.Fprintf(out, "  max_file_size: %d\n", cfg.MaxFileSize)
		fmt.Fprintf(out, "  theme: %s\n", cfg.Theme)
		fmt.Fprintf(out, "  state_file: %s\n", cfg.StateFile)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Example: `  codetree config set theme light
  codetree config set ignore 'dist,*.min.js'
  codetree config set max_file_size 262144`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		if structuredOutputRequested() {
			return printResult(cmd.Context(), keys)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Supported keys:")
		for _, key := range keys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	},
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func supportedConfigKeys() []string {
	return []string{
		"output_format",
		"default_file",
		"strict",
		"ignore",
		"max_file_size",
		"theme",
		"state_file",
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "output_format":
		format, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.OutputFormat = string(format)
	case "default_file":
		cfg.DefaultFile = value
	case "strict":
		strict, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid strict value %q (expected true|false)", value)
		}
		cfg.Strict = strict
	case "ignore":
		var patterns []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.Ignore = patterns
	case "max_file_size":
		size, err := strconv.ParseInt(value, 10, 64)
		if err != nil || size < 0 {
			return fmt.Errorf("invalid max_file_size %q (expected bytes, 0 for default)", value)
		}
		cfg.MaxFileSize = size
	case "theme":
		switch value {
		case "dark", "light":
			cfg.Theme = value
		default:
			return fmt.Errorf("invalid theme %q (expected dark|light)", value)
		}
	case "state_file":
		cfg.StateFile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	switch key {
	case "output_format":
		cfg.OutputFormat = ""
	case "default_file":
		cfg.DefaultFile = ""
	case "strict":
		cfg.Strict = false
	case "ignore":
		cfg.Ignore = nil
	case "max_file_size":
		cfg.MaxFileSize = 0
	case "theme":
		cfg.Theme = ""
	case "state_file":
		cfg.StateFile = ""
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(args[1])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printResult(cmd.Context(), map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printResult(cmd.Context(), map[string]string{
			"status": "unset",
			"key":    key,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)
	return nil
}

func configOutput(cfg *config.Config) map[string]interface{} {
	ignore := cfg.Ignore
	if ignore == nil {
		ignore = []string{}
	}
	return map[string]interface{}{
		"output_format": cfg.OutputFormat,
		"default_file":  cfg.DefaultFile,
		"strict":        cfg.Strict,
		"ignore":        ignore,
		"max_file_size": cfg.MaxFileSize,
		"theme":         cfg.Theme,
		"state_file":    cfg.StateFile,
	}
}
