// Package probe orchestrates the QGIS availability check: resolve the engine
// binary, invoke it, classify its algorithm listing, and report the outcome.
//
// The flow is strictly sequential. Every failure is narrated on the console
// and folded into an exit code or a status record; nothing escapes as a panic
// or an unhandled error.
package probe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tileforge/qgisprobe/internal/banner"
	"github.com/tileforge/qgisprobe/internal/classify"
	"github.com/tileforge/qgisprobe/internal/config"
	"github.com/tileforge/qgisprobe/internal/engine"
	"github.com/tileforge/qgisprobe/internal/exitcode"
	"github.com/tileforge/qgisprobe/internal/logging"
	"github.com/tileforge/qgisprobe/internal/report"
	"github.com/tileforge/qgisprobe/internal/resolver"
)

// Invoker is the subprocess surface the prober needs from the engine.
type Invoker interface {
	Version(ctx context.Context) (string, error)
	List(ctx context.Context) (string, error)
	Help(ctx context.Context, algorithm string) (string, error)
}

// Prober runs the sequential probe phases.
type Prober struct {
	Config   *config.Config
	Version  string
	Platform string

	// Resolve locates the engine binary. Tests substitute it to simulate
	// hosts with and without QGIS installed.
	Resolve func() (*resolver.Resolution, error)

	// NewInvoker builds the subprocess driver for a resolved binary.
	NewInvoker func(path string, timeouts engine.Timeouts) Invoker
}

// New creates a Prober wired to the real resolver and engine.
func New(cfg *config.Config, version string) *Prober {
	p := &Prober{
		Config:   cfg,
		Version:  version,
		Platform: runtime.GOOS,
	}
	p.Resolve = p.defaultResolve
	p.NewInvoker = func(path string, timeouts engine.Timeouts) Invoker {
		return &engine.Engine{Path: path, Timeouts: timeouts}
	}
	return p
}

func (p *Prober) defaultResolve() (*resolver.Resolution, error) {
	r := resolver.New(p.Platform)
	if p.Config.QGISPath != "" {
		source := p.Config.QGISPathSource
		if source == "" {
			source = config.SourceEnvironment
		}
		r.Override = resolver.Override{Path: p.Config.QGISPath, Source: source}
	}
	return r.Resolve()
}

// Run executes the full probe and returns the exit code for the enclosing
// deployment script: 0 exactly when the engine was found and the algorithm
// listing succeeded.
func (p *Prober) Run(ctx context.Context) int {
	start := time.Now()

	banner.PrintStartupBanner(p.Version)
	report.PrintSystemInfo(p.Platform, runtime.GOARCH, runtime.Version(), p.Config.Environment)

	logging.Phase("Locating QGIS engine")
	res, err := p.Resolve()
	if err != nil {
		logging.Error(fmt.Sprintf("QGIS not found on this system: %v", err))
		report.PrintInstallHints()

		summary := report.NewSummary(p.Platform, p.Config.Environment)
		summary.Error = err.Error()
		p.finishReport(summary)

		banner.PrintEngineMissingBanner(p.Platform)
		return exitcode.EngineMissing
	}
	logging.Success(fmt.Sprintf("QGIS found at: %s (source: %s)", res.Path, res.Source))

	invoker := p.NewInvoker(res.Path, p.probeTimeouts())

	logging.Phase("Checking QGIS version")
	version := p.checkVersion(ctx, invoker)

	logging.Phase("Listing algorithms")
	raw, err := invoker.List(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			banner.PrintInterruptedBanner()
			return exitcode.Interrupted
		}
		code := narrateListFailure(err)

		summary := report.NewSummary(p.Platform, p.Config.Environment)
		summary.EngineFound = true
		summary.EnginePath = res.Path
		working := false
		summary.Working = &working
		summary.Error = failureMessage(err)
		p.finishReport(summary)

		banner.PrintLimitedBanner(err.Error())
		return code
	}

	lines := classify.CleanLines(raw)
	tile := classify.FilterAny(lines, classify.TileKeywords)

	report.PrintAlgorithmSample(lines, p.Config.SampleLimit)
	report.PrintTileSection(tile, p.Config.TileSampleLimit)
	report.PrintCategoryCounts(classify.CountByCategory(lines))
	report.PrintWorking(res.Path, len(lines), len(tile))

	p.finishReport(p.buildSummary(res.Path, version, lines))

	banner.PrintReadyBanner(res.Path, len(lines), len(tile), time.Since(start))
	return exitcode.Success
}

// Summarize assembles the web-service status record with its own, tighter
// subprocess bounds. The web service polls this flow, so a broken install
// must fail fast rather than hold a request for a minute.
func (p *Prober) Summarize(ctx context.Context) *report.Summary {
	summary := report.NewSummary(p.Platform, p.Config.Environment)

	res, err := p.Resolve()
	if err != nil {
		summary.Error = err.Error()
		return summary
	}
	summary.EngineFound = true
	summary.EnginePath = res.Path

	invoker := p.NewInvoker(res.Path, p.summaryTimeouts())

	raw, err := invoker.List(ctx)
	if err != nil {
		working := false
		summary.Working = &working
		summary.Error = failureMessage(err)
		return summary
	}

	lines := classify.CleanLines(raw)
	working := true
	summary.Working = &working
	total := len(lines)
	summary.TotalAlgorithms = &total
	summary.TileAlgorithms = headOf(
		classify.FilterAny(lines, classify.StrictTileKeywords),
		p.Config.SummaryTileLimit,
	)

	// Version detail is optional; the record stays useful without it.
	summary.Version = "Available"
	if v, err := invoker.Version(ctx); err == nil && v != "" {
		summary.Version = firstLine(v)
	}

	return summary
}

// CheckAlgorithm probes a single algorithm via `help <id>` and returns its
// availability record. Like Summarize, it never returns an error: failures
// land in the record's Error field.
func (p *Prober) CheckAlgorithm(ctx context.Context, algorithm string) *report.AlgorithmCheck {
	check := &report.AlgorithmCheck{Algorithm: algorithm}

	res, err := p.Resolve()
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.EnginePath = res.Path

	invoker := p.NewInvoker(res.Path, p.probeTimeouts())
	help, err := invoker.Help(ctx, algorithm)
	if err != nil {
		check.Error = failureMessage(err)
		return check
	}

	check.Available = true
	check.Help = truncate(help, p.Config.HelpTextLimit)
	return check
}

// checkVersion fetches the engine version string. Failure is narrated but
// never fatal: the version is best-effort metadata.
func (p *Prober) checkVersion(ctx context.Context, invoker Invoker) string {
	version, err := invoker.Version(ctx)
	if err != nil {
		logging.Warn(fmt.Sprintf("Version check failed (non-fatal): %v", err))
		return ""
	}
	if version != "" {
		logging.Info("QGIS version: " + version)
	}
	return version
}

// buildSummary assembles the web-service record from data the full probe
// already collected, without invoking the engine a second time.
func (p *Prober) buildSummary(path, version string, lines []string) *report.Summary {
	summary := report.NewSummary(p.Platform, p.Config.Environment)
	summary.EngineFound = true
	summary.EnginePath = path
	working := true
	summary.Working = &working
	total := len(lines)
	summary.TotalAlgorithms = &total
	summary.TileAlgorithms = headOf(
		classify.FilterAny(lines, classify.StrictTileKeywords),
		p.Config.SummaryTileLimit,
	)

	summary.Version = "Available"
	if version != "" {
		summary.Version = firstLine(version)
	}
	return summary
}

// finishReport renders the trailing console sections shared by every probe
// outcome and writes the summary file when one was requested.
func (p *Prober) finishReport(summary *report.Summary) {
	report.PrintSummaryBlock(summary)

	if p.Config.SummaryFile != "" {
		if err := report.WriteFile(p.Config.SummaryFile, summary); err != nil {
			logging.Warn(fmt.Sprintf("Failed to write summary file: %v", err))
		} else {
			logging.Info("Summary written to " + p.Config.SummaryFile)
		}
	}

	report.PrintEnvHints(p.Platform)
}

func (p *Prober) probeTimeouts() engine.Timeouts {
	return engine.Timeouts{
		Version: seconds(p.Config.VersionTimeout),
		List:    seconds(p.Config.ListTimeout),
		Help:    seconds(p.Config.HelpTimeout),
	}
}

func (p *Prober) summaryTimeouts() engine.Timeouts {
	return engine.Timeouts{
		Version: seconds(p.Config.SummaryVersionTimeout),
		List:    seconds(p.Config.SummaryListTimeout),
		Help:    seconds(p.Config.HelpTimeout),
	}
}

// narrateListFailure logs a listing failure and maps it to an exit code.
// Timeouts get their own code so deployment scripts can tell "hung install"
// apart from "broken install".
func narrateListFailure(err error) int {
	var timeoutErr *engine.TimeoutError
	var exitErr *engine.ExitError

	switch {
	case errors.As(err, &timeoutErr):
		logging.Error(fmt.Sprintf("QGIS command timed out (%s)", timeoutErr.Limit))
		logging.Warn("This might indicate QGIS is installed but not working properly")
		return exitcode.Timeout
	case errors.As(err, &exitErr):
		logging.Error(fmt.Sprintf("QGIS command failed: %s", strings.TrimSpace(exitErr.Stderr)))
		logging.Error(fmt.Sprintf("Return code: %d", exitErr.Code))
		return exitcode.ProbeFailed
	default:
		logging.Error(fmt.Sprintf("Error checking QGIS: %v", err))
		return exitcode.ProbeFailed
	}
}

// failureMessage converts an invocation failure into the status-record error
// field, keeping the short wording the web service already matches on.
func failureMessage(err error) string {
	var timeoutErr *engine.TimeoutError
	var exitErr *engine.ExitError

	switch {
	case errors.As(err, &timeoutErr):
		return "QGIS command timed out"
	case errors.As(err, &exitErr):
		if msg := strings.TrimSpace(exitErr.Stderr); msg != "" {
			return msg
		}
		return "QGIS command failed"
	default:
		return err.Error()
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// truncate caps s at limit bytes, backing up so the cut never splits a
// UTF-8 rune.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func headOf(items []string, limit int) []string {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
