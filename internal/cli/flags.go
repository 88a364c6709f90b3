// Package cli provides flag binding, validation, and output formatting for
// the qgisprobe CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tileforge/qgisprobe/internal/config"
)

// BindFlags registers the shared CLI flags as persistent flags on the root
// command so every subcommand inherits them. The flags directly modify
// fields in the provided config pointer; defaults shown in help come from
// config.NewDefaultConfig. Call ValidateFlags after parsing, then
// BuildOverrides to feed the precedence chain.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Engine location & environment
	flags.StringVar(&cfg.QGISPath, "qgis-path", "", "Path to the qgis_process binary (overrides discovery)")
	flags.StringVar(&cfg.Environment, "environment", cfg.Environment, "Deployment environment label for the summary record")

	// Output
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json, or yaml")
	flags.StringVar(&cfg.SummaryFile, "summary-file", "", "Write the summary record to this file as JSON")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")

	// Subprocess timeouts (seconds)
	flags.IntVar(&cfg.VersionTimeout, "version-timeout", cfg.VersionTimeout, "Version check timeout in seconds")
	flags.IntVar(&cfg.ListTimeout, "list-timeout", cfg.ListTimeout, "Algorithm listing timeout in seconds")
	flags.IntVar(&cfg.HelpTimeout, "help-timeout", cfg.HelpTimeout, "Algorithm help timeout in seconds")
	flags.IntVar(&cfg.SummaryVersionTimeout, "summary-version-timeout", cfg.SummaryVersionTimeout, "Version check timeout for the summary flow")
	flags.IntVar(&cfg.SummaryListTimeout, "summary-list-timeout", cfg.SummaryListTimeout, "Listing timeout for the summary flow")

	// Report caps
	flags.IntVar(&cfg.SampleLimit, "sample-limit", cfg.SampleLimit, "Algorithm sample entries shown in the report")
	flags.IntVar(&cfg.TileSampleLimit, "tile-sample-limit", cfg.TileSampleLimit, "Tile-related entries shown in the report")
	flags.IntVar(&cfg.SummaryTileLimit, "summary-tile-limit", cfg.SummaryTileLimit, "Tile algorithms kept in the summary record")
	flags.IntVar(&cfg.HelpTextLimit, "help-text-limit", cfg.HelpTextLimit, "Help text bytes kept in an algorithm check")

	// Wait-mode polling (seconds)
	flags.IntVar(&cfg.WaitInterval, "wait-interval", cfg.WaitInterval, "Seconds between resolver polls in wait mode")
	flags.IntVar(&cfg.WaitTimeout, "wait-timeout", cfg.WaitTimeout, "Total seconds to wait for the engine in wait mode")

	// Runtime toggles
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug output")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to an additional config file")
}

// ValidateFlags checks flag values after parsing, before the precedence
// chain runs. Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if cmd.Flags().Changed("output") && !ValidFormat(cfg.Output) {
		return fmt.Errorf("--output must be 'text', 'json', or 'yaml', got: %s", cfg.Output)
	}

	return nil
}

// ValidateConfig checks the fully merged configuration. Config files and
// environment variables can inject values the flag layer never saw, so the
// semantic checks run here, after LoadWithPrecedence.
func ValidateConfig(cfg *config.Config) error {
	if !ValidFormat(cfg.Output) {
		return fmt.Errorf("output format must be 'text', 'json', or 'yaml', got: %s", cfg.Output)
	}

	positives := map[string]int{
		"VERSION_TIMEOUT":         cfg.VersionTimeout,
		"LIST_TIMEOUT":            cfg.ListTimeout,
		"HELP_TIMEOUT":            cfg.HelpTimeout,
		"SUMMARY_VERSION_TIMEOUT": cfg.SummaryVersionTimeout,
		"SUMMARY_LIST_TIMEOUT":    cfg.SummaryListTimeout,
		"WAIT_INTERVAL":           cfg.WaitInterval,
		"WAIT_TIMEOUT":            cfg.WaitTimeout,
	}
	for name, v := range positives {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got: %d", name, v)
		}
	}

	nonNegatives := map[string]int{
		"SAMPLE_LIMIT":       cfg.SampleLimit,
		"TILE_SAMPLE_LIMIT":  cfg.TileSampleLimit,
		"SUMMARY_TILE_LIMIT": cfg.SummaryTileLimit,
		"HELP_TEXT_LIMIT":    cfg.HelpTextLimit,
	}
	for name, v := range nonNegatives {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got: %d", name, v)
		}
	}

	return nil
}

// BuildOverrides creates a map of CLI flag overrides from the config.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the
// user, ensuring config file values are not accidentally overridden by
// default values. Works from subcommands too: cobra merges inherited
// persistent flags into cmd.Flags() during execution.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	// String flags: only include if explicitly set via CLI
	stringFlags := map[string]struct {
		key string
		val string
	}{
		"qgis-path":    {"QGIS_PATH", cfg.QGISPath},
		"environment":  {"ENVIRONMENT", cfg.Environment},
		"output":       {"OUTPUT", cfg.Output},
		"summary-file": {"SUMMARY_FILE", cfg.SummaryFile},
	}
	for flag, mapping := range stringFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	// Int flags
	intFlags := map[string]struct {
		key string
		val int
	}{
		"version-timeout":         {"VERSION_TIMEOUT", cfg.VersionTimeout},
		"list-timeout":            {"LIST_TIMEOUT", cfg.ListTimeout},
		"help-timeout":            {"HELP_TIMEOUT", cfg.HelpTimeout},
		"summary-version-timeout": {"SUMMARY_VERSION_TIMEOUT", cfg.SummaryVersionTimeout},
		"summary-list-timeout":    {"SUMMARY_LIST_TIMEOUT", cfg.SummaryListTimeout},
		"sample-limit":            {"SAMPLE_LIMIT", cfg.SampleLimit},
		"tile-sample-limit":       {"TILE_SAMPLE_LIMIT", cfg.TileSampleLimit},
		"summary-tile-limit":      {"SUMMARY_TILE_LIMIT", cfg.SummaryTileLimit},
		"help-text-limit":         {"HELP_TEXT_LIMIT", cfg.HelpTextLimit},
		"wait-interval":           {"WAIT_INTERVAL", cfg.WaitInterval},
		"wait-timeout":            {"WAIT_TIMEOUT", cfg.WaitTimeout},
	}
	for flag, mapping := range intFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = fmt.Sprintf("%d", mapping.val)
		}
	}

	// Bool flags
	boolFlags := map[string]struct {
		key string
		val bool
	}{
		"verbose":  {"VERBOSE", cfg.Verbose},
		"no-color": {"NO_COLOR", cfg.NoColor},
	}
	for flag, mapping := range boolFlags {
		if cmd.Flags().Changed(flag) {
			if mapping.val {
				overrides[mapping.key] = "true"
			} else {
				overrides[mapping.key] = "false"
			}
		}
	}

	return overrides
}
