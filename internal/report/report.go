// Package report renders the probe's console sections and defines the typed
// records consumed by the tile-generation web service.
//
// The console sections mirror what an operator reads in a deployment log; the
// Summary and AlgorithmCheck structs are the machine-readable side of the same
// findings, serialized as JSON or YAML by the summary and algorithm commands.
package report

import (
	"fmt"
	"strings"

	"github.com/tileforge/qgisprobe/internal/classify"
	"github.com/tileforge/qgisprobe/internal/logging"
)

// summaryListPreview caps slice fields in the console rendering of the
// summary block. The full slices still go into the serialized record.
const summaryListPreview = 3

// Summary is the engine status record the tile web service reads.
//
// Pointer and omitempty fields stay absent until the operation that produces
// them has actually run: a host without QGIS reports found=false and nothing
// about working status or algorithm counts.
type Summary struct {
	EngineFound     bool     `json:"qgis_found" yaml:"qgis_found"`
	EnginePath      string   `json:"qgis_path,omitempty" yaml:"qgis_path,omitempty"`
	Platform        string   `json:"platform" yaml:"platform"`
	Environment     string   `json:"environment" yaml:"environment"`
	ManualFallback  bool     `json:"manual_method_available" yaml:"manual_method_available"`
	Working         *bool    `json:"qgis_working,omitempty" yaml:"qgis_working,omitempty"`
	TotalAlgorithms *int     `json:"total_algorithms,omitempty" yaml:"total_algorithms,omitempty"`
	TileAlgorithms  []string `json:"tile_algorithms,omitempty" yaml:"tile_algorithms,omitempty"`
	Version         string   `json:"qgis_version,omitempty" yaml:"qgis_version,omitempty"`
	Error           string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSummary returns a Summary carrying the fields every outcome shares.
// ManualFallback is always true: manual tile download works with or without
// QGIS.
func NewSummary(platform, environment string) *Summary {
	return &Summary{
		Platform:       platform,
		Environment:    environment,
		ManualFallback: true,
	}
}

// AlgorithmCheck reports the availability of a single algorithm, probed via
// `qgis_process help <id>`.
type AlgorithmCheck struct {
	Algorithm  string `json:"algorithm" yaml:"algorithm"`
	Available  bool   `json:"available" yaml:"available"`
	Help       string `json:"help,omitempty" yaml:"help,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	EnginePath string `json:"qgis_path,omitempty" yaml:"qgis_path,omitempty"`
}

// PrintSystemInfo renders the host facts that matter when reading a probe
// log after the fact.
func PrintSystemInfo(platform, arch, goVersion, environment string) {
	fmt.Println("System Information:")
	fmt.Printf("  Platform:     %s\n", platform)
	fmt.Printf("  Architecture: %s\n", arch)
	fmt.Printf("  Go Runtime:   %s\n", goVersion)
	fmt.Printf("  Environment:  %s\n", environment)
	fmt.Println()
}

// PrintInstallHints explains how to get an engine onto this host. Shown when
// resolution fails.
func PrintInstallHints() {
	fmt.Println("Solutions:")
	fmt.Println("  1. For local development:")
	fmt.Println("     - Windows: install QGIS Desktop from qgis.org")
	fmt.Println("     - Linux:   sudo apt install qgis")
	fmt.Println("     - macOS:   brew install qgis")
	fmt.Println("  2. For container deployment:")
	fmt.Println("     - Use a base image with QGIS pre-installed")
	fmt.Println("     - Set the QGIS_PATH environment variable")
	fmt.Println("  3. Alternative: manual tile download is working!")
	fmt.Println()
}

// PrintAlgorithmSample renders the total algorithm count and the first limit
// entries of the listing.
func PrintAlgorithmSample(lines []string, limit int) {
	fmt.Printf("Total algorithms found: %d\n", len(lines))
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Sample algorithms:")
	for i, alg := range headOf(lines, limit) {
		fmt.Printf("  %2d. %s\n", i+1, alg)
	}
	if len(lines) > limit {
		fmt.Printf("  ... and %d more\n", len(lines)-limit)
	}
	fmt.Println()
}

// PrintTileSection renders the tile-related subset of the listing.
func PrintTileSection(tile []string, limit int) {
	fmt.Printf("Tile/raster-related algorithms (%d found):\n", len(tile))
	fmt.Println(strings.Repeat("=", 50))
	if len(tile) == 0 {
		fmt.Println("  No tile-specific algorithms found")
		fmt.Println()
		return
	}
	for i, alg := range headOf(tile, limit) {
		fmt.Printf("  %2d. %s\n", i+1, alg)
	}
	if len(tile) > limit {
		fmt.Printf("  ... and %d more tile-related algorithms\n", len(tile)-limit)
	}
	fmt.Println()
}

// PrintCategoryCounts renders the per-category totals in their fixed order.
func PrintCategoryCounts(counts []classify.CategoryCount) {
	fmt.Println("Algorithm categories:")
	fmt.Println(strings.Repeat("=", 30))
	for _, c := range counts {
		fmt.Printf("  %-12s: %3d algorithms\n", c.Name, c.Count)
	}
	fmt.Println()
}

// PrintWorking renders the block confirming the engine responded to the
// listing call.
func PrintWorking(path string, total, tileCount int) {
	logging.Success("QGIS is working properly")
	fmt.Printf("   Path:             %s\n", path)
	fmt.Printf("   Total algorithms: %d\n", total)
	fmt.Printf("   Tile-related:     %d\n", tileCount)
	fmt.Println()
}

// PrintSummaryBlock renders the web-service record as a labelled
// field-per-line block. Set fields appear under their serialized names so an
// operator can eyeball what the web service will see; slice fields are capped
// at summaryListPreview entries.
func PrintSummaryBlock(s *Summary) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Summary for the tile web service:")
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("  qgis_found: %t\n", s.EngineFound)
	if s.EnginePath != "" {
		fmt.Printf("  qgis_path: %s\n", s.EnginePath)
	}
	fmt.Printf("  platform: %s\n", s.Platform)
	fmt.Printf("  environment: %s\n", s.Environment)
	fmt.Printf("  manual_method_available: %t\n", s.ManualFallback)
	if s.Working != nil {
		fmt.Printf("  qgis_working: %t\n", *s.Working)
	}
	if s.TotalAlgorithms != nil {
		fmt.Printf("  total_algorithms: %d\n", *s.TotalAlgorithms)
	}
	if s.TileAlgorithms != nil {
		printCappedList("tile_algorithms", s.TileAlgorithms)
	}
	if s.Version != "" {
		fmt.Printf("  qgis_version: %s\n", s.Version)
	}
	if s.Error != "" {
		fmt.Printf("  error: %s\n", s.Error)
	}
	fmt.Println()
}

// PrintAlgorithmCheck renders a single-algorithm check as console text.
func PrintAlgorithmCheck(c *AlgorithmCheck) {
	fmt.Printf("Algorithm: %s\n", c.Algorithm)
	fmt.Printf("Available: %t\n", c.Available)
	if c.EnginePath != "" {
		fmt.Printf("Engine:    %s\n", c.EnginePath)
	}
	if c.Error != "" {
		fmt.Printf("Error:     %s\n", strings.TrimSpace(c.Error))
	}
	if c.Help != "" {
		fmt.Println("Help:")
		fmt.Println(c.Help)
	}
}

// PrintEnvHints reminds the operator how to point the probe at an engine.
func PrintEnvHints(platform string) {
	fmt.Println("Environment setup:")
	fmt.Println("  - Set the QGIS_PATH environment variable if the engine lives somewhere custom")
	fmt.Printf("  - Current platform: %s\n", platform)
	fmt.Println("  - Manual tile download: always available")
	fmt.Println()
}

func printCappedList(key string, items []string) {
	if len(items) > summaryListPreview {
		fmt.Printf("  %s: %d items (showing first %d)\n", key, len(items), summaryListPreview)
		items = items[:summaryListPreview]
	} else {
		fmt.Printf("  %s:\n", key)
	}
	for _, item := range items {
		fmt.Printf("    - %s\n", item)
	}
}

func headOf(items []string, limit int) []string {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
