package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tileforge/qgisprobe/internal/cli"
	"github.com/tileforge/qgisprobe/internal/config"
	"github.com/tileforge/qgisprobe/internal/exitcode"
	"github.com/tileforge/qgisprobe/internal/logging"
	"github.com/tileforge/qgisprobe/internal/probe"
	"github.com/tileforge/qgisprobe/internal/report"
	"github.com/tileforge/qgisprobe/internal/resolver"
	sighandler "github.com/tileforge/qgisprobe/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "qgisprobe",
		Short:   "QGIS engine availability probe for tile generation hosts",
		Long:    "qgisprobe locates the qgis_process binary, verifies it responds, and reports which processing algorithms are available for tile generation.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			finalCfg, err := prepare(cmd, cfg)
			if err != nil {
				return err
			}
			return runProbe(finalCfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind the shared flags once, on the root; subcommands inherit them.
	cli.BindFlags(rootCmd, cfg)
	cli.SetCustomHelp(rootCmd)

	rootCmd.AddCommand(newSummaryCommand(cfg))
	rootCmd.AddCommand(newAlgorithmCommand(cfg))
	rootCmd.AddCommand(newWaitCommand(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.Error)
	}
}

func newSummaryCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Emit only the web-service status record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			finalCfg, err := prepare(cmd, cfg)
			if err != nil {
				return err
			}
			return runSummary(finalCfg)
		},
	}
}

func newAlgorithmCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithm <id>",
		Short: "Check a single processing algorithm by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finalCfg, err := prepare(cmd, cfg)
			if err != nil {
				return err
			}
			return runAlgorithm(finalCfg, args[0])
		},
	}
}

func newWaitCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "wait",
		Short: "Block until the engine appears or the wait window closes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			finalCfg, err := prepare(cmd, cfg)
			if err != nil {
				return err
			}
			return runWait(finalCfg)
		},
	}
}

// prepare validates the parsed flags, runs the config precedence chain, and
// applies the runtime toggles. Every command goes through here so config
// behaves identically regardless of entry point.
func prepare(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	if err := cli.ValidateFlags(cmd, cfg); err != nil {
		return nil, err
	}

	// Build CLI overrides using Changed() so config file values are not
	// clobbered by flag defaults.
	cliOverrides := cli.BuildOverrides(cmd, cfg)

	finalCfg, err := config.LoadWithPrecedence(config.ProjectConfigFile, cfg.ConfigFile, cliOverrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI-only flags (not in config files)
	finalCfg.ConfigFile = cfg.ConfigFile

	if err := cli.ValidateConfig(finalCfg); err != nil {
		return nil, err
	}

	logging.SetVerbose(finalCfg.Verbose)
	if finalCfg.NoColor {
		color.NoColor = true
	}
	// Machine-readable output must not be interleaved with narration.
	if finalCfg.Output != string(cli.FormatText) {
		logging.SetQuiet(true)
	}

	return finalCfg, nil
}

func interruptibleContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted, stopping...")
	})
	return ctx, cancel
}

func runProbe(cfg *config.Config) error {
	ctx, cancel := interruptibleContext()
	defer cancel()

	p := probe.New(cfg, version)
	os.Exit(p.Run(ctx))
	return nil // unreachable
}

func runSummary(cfg *config.Config) error {
	ctx, cancel := interruptibleContext()
	defer cancel()

	p := probe.New(cfg, version)
	summary := p.Summarize(ctx)

	if cfg.SummaryFile != "" {
		if err := report.WriteFile(cfg.SummaryFile, summary); err != nil {
			return err
		}
	}

	if cli.OutputFormat(cfg.Output) == cli.FormatText {
		report.PrintSummaryBlock(summary)
		return nil
	}
	return cli.OutputResult(os.Stdout, cfg.Output, summary)
}

func runAlgorithm(cfg *config.Config, algorithm string) error {
	ctx, cancel := interruptibleContext()
	defer cancel()

	p := probe.New(cfg, version)
	check := p.CheckAlgorithm(ctx, algorithm)

	if cli.OutputFormat(cfg.Output) == cli.FormatText {
		report.PrintAlgorithmCheck(check)
	} else if err := cli.OutputResult(os.Stdout, cfg.Output, check); err != nil {
		return err
	}

	switch {
	case check.Available:
		return nil
	case check.EnginePath == "":
		os.Exit(exitcode.EngineMissing)
	default:
		os.Exit(exitcode.ProbeFailed)
	}
	return nil // unreachable
}

func runWait(cfg *config.Config) error {
	ctx, cancel := interruptibleContext()
	defer cancel()

	p := probe.New(cfg, version)
	res, err := p.WaitForEngine(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitcode.Interrupted)
		}
		if errors.Is(err, resolver.ErrNotFound) {
			logging.Error(err.Error())
			os.Exit(exitcode.EngineMissing)
		}
		return err
	}

	logging.Success(fmt.Sprintf("QGIS found at: %s (source: %s)", res.Path, res.Source))
	return nil
}
