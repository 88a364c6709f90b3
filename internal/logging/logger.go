// Package logging provides colored, leveled log output for the qgisprobe CLI.
//
// All output functions write a prefixed, color-coded line. Debug output is
// suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

// verbose controls whether Debug() produces output.
var verbose bool

// quiet suppresses all stdout narration, for commands that emit
// machine-readable output. Error still writes to stderr.
var quiet bool

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	phasePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgWhite).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	verbose = v
}

// Verbose reports whether debug output is enabled.
func Verbose() bool {
	return verbose
}

// SetQuiet enables or disables quiet mode.
func SetQuiet(q bool) {
	quiet = q
}

// Info prints an informational message to stdout in blue.
func Info(msg string) {
	if quiet {
		return
	}
	fmt.Println(infoPrefix("[INFO]") + " " + msg)
}

// Success prints a success message to stdout in green.
func Success(msg string) {
	if quiet {
		return
	}
	fmt.Println(successPrefix("[OK]") + " " + msg)
}

// Warn prints a warning message to stdout in yellow.
func Warn(msg string) {
	if quiet {
		return
	}
	fmt.Println(warnPrefix("[WARN]") + " " + msg)
}

// Error prints an error message to stderr in red.
func Error(msg string) {
	fmt.Fprintln(os.Stderr, errorPrefix("[ERROR]")+" "+msg)
}

// Phase prints a probe step header to stdout in cyan, surrounded by separator lines.
func Phase(msg string) {
	if quiet {
		return
	}
	sep := phasePrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(sep)
	fmt.Println(phasePrefix("[PHASE]") + " " + msg)
	fmt.Println(sep)
}

// Debug prints a debug message to stdout, only when verbose mode is enabled.
func Debug(msg string) {
	if !verbose || quiet {
		return
	}
	fmt.Println(debugPrefix("[DEBUG]") + " " + msg)
}

// FormatDuration converts a duration in whole seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		m := seconds / 60
		s := seconds % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// Elapsed renders a measured wall duration for narration. Sub-minute values
// keep one decimal so fast subprocess calls don't all read as "0s".
func Elapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return FormatDuration(int(d.Seconds()))
}
