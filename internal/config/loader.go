package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvQGISPath    = "QGIS_PATH"
	EnvEnvironment = "APP_ENV"
)

// ProjectConfigFile is the per-directory config file name looked up in the
// working directory on every run. A missing file is not an error.
const ProjectConfigFile = ".qgisprobe.conf"

// Source labels recorded in Config.QGISPathSource.
const (
	SourceConfigFile  = "config file"
	SourceEnvironment = "environment variable"
	SourceFlag        = "flag"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a KEY=VALUE config file at the given path.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - Keys not present in WhitelistedVars are silently ignored.
//
// Returns a map of whitelisted key-value pairs, or an error if the file
// cannot be opened.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first '=' only.
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		// Enforce whitelist.
		if !whitelistSet[key] {
			continue
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return result, nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Project config file (projectPath, missing file tolerated)
//  3. Explicit config file (explicitPath, must exist if given)
//  4. Environment variables (QGIS_PATH, APP_ENV)
//  5. CLI overrides (cliOverrides map)
func LoadWithPrecedence(projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	// Layer 2: project config file.
	if projectPath != "" {
		m, err := LoadFile(projectPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("project config: %w", err)
			}
			// Missing project config is not an error.
		} else {
			ApplyMapToConfig(cfg, m, SourceConfigFile)
		}
	}

	// Layer 3: explicit config file (must exist if specified).
	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m, SourceConfigFile)
	}

	// Layer 4: environment variables.
	ApplyEnv(cfg)

	// Layer 5: CLI overrides (highest priority).
	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides, SourceFlag)
	}

	return cfg, nil
}

// ApplyEnv overlays process environment variables onto cfg. QGIS_PATH
// overrides the engine location; APP_ENV names the deployment environment
// reported in the summary record.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvQGISPath); v != "" {
		cfg.QGISPath = v
		cfg.QGISPathSource = SourceEnvironment
	}
	if v := os.Getenv(EnvEnvironment); v != "" {
		cfg.Environment = v
	}
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Keys must use the WhitelistedVars naming convention (e.g., "LIST_TIMEOUT").
// Unknown keys are silently ignored. Integer fields that fail to parse
// are silently ignored (the previous value is preserved). The source
// argument labels where a QGIS_PATH value came from, for resolution logging.
func ApplyMapToConfig(cfg *Config, m map[string]string, source string) {
	for key, value := range m {
		switch key {
		case "QGIS_PATH":
			cfg.QGISPath = value
			cfg.QGISPathSource = source
		case "ENVIRONMENT":
			cfg.Environment = value
		case "OUTPUT":
			cfg.Output = value
		case "SUMMARY_FILE":
			cfg.SummaryFile = value
		case "VERSION_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.VersionTimeout = v
			}
		case "LIST_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.ListTimeout = v
			}
		case "HELP_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.HelpTimeout = v
			}
		case "SUMMARY_VERSION_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.SummaryVersionTimeout = v
			}
		case "SUMMARY_LIST_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.SummaryListTimeout = v
			}
		case "SAMPLE_LIMIT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.SampleLimit = v
			}
		case "TILE_SAMPLE_LIMIT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.TileSampleLimit = v
			}
		case "SUMMARY_TILE_LIMIT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.SummaryTileLimit = v
			}
		case "HELP_TEXT_LIMIT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.HelpTextLimit = v
			}
		case "WAIT_INTERVAL":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.WaitInterval = v
			}
		case "WAIT_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.WaitTimeout = v
			}
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "NO_COLOR":
			cfg.NoColor = parseBool(value)
		}
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
