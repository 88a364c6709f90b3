// Package banner provides colored banner display functions for the qgisprobe CLI.
//
// All banner functions write formatted output to stdout with color-coded headers
// and separators. These mark the start of a probe run and its final
// deployment-readiness verdict.
package banner

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/tileforge/qgisprobe/internal/logging"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// PrintStartupBanner displays the probe startup banner.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  qgisprobe - QGIS Engine Availability Probe
//	═══════════════════════════════════════════════════
//	  Version:    1.4.0
//	═══════════════════════════════════════════════════
func PrintStartupBanner(version string) {
	sep := headerColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(headerColor("  qgisprobe - QGIS Engine Availability Probe"))
	fmt.Println(sep)
	fmt.Printf("  Version:    %s\n", version)
	fmt.Println(sep)
}

// PrintReadyBanner displays the success verdict with probe stats.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ QGIS engine is ready for tile generation
//	  Engine:     /usr/bin/qgis_process
//	  Algorithms: 512 total, 14 tile-related
//	  Probe time: 2.3s
//	═══════════════════════════════════════════════════
func PrintReadyBanner(path string, total int, tileCount int, elapsed time.Duration) {
	sep := successColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(successColor("  ✓ QGIS engine is ready for tile generation"))
	fmt.Printf("  Engine:     %s\n", path)
	fmt.Printf("  Algorithms: %d total, %d tile-related\n", total, tileCount)
	fmt.Printf("  Probe time: %s\n", logging.Elapsed(elapsed))
	fmt.Println(sep)
}

// PrintLimitedBanner displays the degraded verdict. Deployment may proceed;
// tile generation falls back to the manual method.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Deployment ready with limitations
//	═══════════════════════════════════════════════════
//	  Reason:
//	  algorithm listing timed out after 60s
//	  Tile generation will use the manual fallback method.
//	═══════════════════════════════════════════════════
func PrintLimitedBanner(reason string) {
	sep := warnColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(warnColor("  ⚠ Deployment ready with limitations"))
	fmt.Println(sep)
	fmt.Println("  Reason:")
	fmt.Printf("  %s\n", reason)
	fmt.Println("  Tile generation will use the manual fallback method.")
	fmt.Println(sep)
}

// PrintEngineMissingBanner displays the not-found verdict.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ QGIS ENGINE NOT FOUND
//	═══════════════════════════════════════════════════
//	  Platform:   linux
//	  Tile generation will use the manual fallback method.
//	═══════════════════════════════════════════════════
func PrintEngineMissingBanner(platform string) {
	sep := errorColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(errorColor("  ✗ QGIS ENGINE NOT FOUND"))
	fmt.Println(sep)
	fmt.Printf("  Platform:   %s\n", platform)
	fmt.Println("  Tile generation will use the manual fallback method.")
	fmt.Println(sep)
}

// PrintInterruptedBanner displays when a probe run is interrupted.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Probe interrupted
//	  No verdict was reached; re-run qgisprobe to retry.
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner() {
	sep := warnColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(warnColor("  ⚠ Probe interrupted"))
	fmt.Println("  No verdict was reached; re-run qgisprobe to retry.")
	fmt.Println(sep)
}
