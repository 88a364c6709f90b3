package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileforge/qgisprobe/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// clearEnv blanks the environment variables the loader consults so tests are
// not affected by the machine running them. t.Setenv restores afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvQGISPath, "")
	t.Setenv(config.EnvEnvironment, "")
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "QGIS_PATH=/opt/qgis/bin/qgis_process\nLIST_TIMEOUT=90\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/qgis/bin/qgis_process", m["QGIS_PATH"])
	assert.Equal(t, "90", m["LIST_TIMEOUT"])
}

func TestLoadFileSkipsComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# engine override\nQGIS_PATH=/usr/bin/qgis_process\n# another comment\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.Equal(t, "/usr/bin/qgis_process", m["QGIS_PATH"])
}

func TestLoadFileTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "  QGIS_PATH  =  /usr/bin/qgis_process  \n  OUTPUT = json  \n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/qgis_process", m["QGIS_PATH"])
	assert.Equal(t, "json", m["OUTPUT"])
}

func TestLoadFileSkipsEmptyLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "\n\nOUTPUT=yaml\n\n\nVERBOSE=true\n\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, "yaml", m["OUTPUT"])
	assert.Equal(t, "true", m["VERBOSE"])
}

func TestLoadFileSkipsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "OUTPUT=json\nUNKNOWN_KEY=value\nBOGUS=stuff\nVERBOSE=true\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, "json", m["OUTPUT"])
	assert.Equal(t, "true", m["VERBOSE"])
	assert.Empty(t, m["UNKNOWN_KEY"])
	assert.Empty(t, m["BOGUS"])
}

func TestLoadFileSkipsLinesWithoutEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "OUTPUT=json\nthis has no equals\nVERBOSE=true\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
}

func TestLoadFileValueWithEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "SUMMARY_FILE=/var/run/probe/summary=latest.json\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/run/probe/summary=latest.json", m["SUMMARY_FILE"])
}

func TestLoadFileReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.LoadFile("/nonexistent/path/config")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Precedence tests
// ---------------------------------------------------------------------------

func TestLoadWithPrecedenceDefaultsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadWithPrecedence("", "", nil)
	require.NoError(t, err)

	expected := config.NewDefaultConfig()
	assert.Equal(t, expected.Environment, cfg.Environment)
	assert.Equal(t, expected.ListTimeout, cfg.ListTimeout)
	assert.Equal(t, expected.SampleLimit, cfg.SampleLimit)
	assert.Empty(t, cfg.QGISPath)
}

func TestLoadWithPrecedenceProjectOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	projectPath := writeFile(t, dir, "project", "OUTPUT=json\nLIST_TIMEOUT=90\n")

	cfg, err := config.LoadWithPrecedence(projectPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 90, cfg.ListTimeout)
	// Unset fields keep defaults.
	assert.Equal(t, 30, cfg.VersionTimeout)
}

func TestLoadWithPrecedenceExplicitOverridesProject(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	projectPath := writeFile(t, dir, "project", "OUTPUT=json\nLIST_TIMEOUT=90\n")
	explicitPath := writeFile(t, dir, "explicit", "LIST_TIMEOUT=120\n")

	cfg, err := config.LoadWithPrecedence(projectPath, explicitPath, nil)
	require.NoError(t, err)

	// Project wins for OUTPUT (explicit does not set it).
	assert.Equal(t, "json", cfg.Output)
	// Explicit wins for LIST_TIMEOUT.
	assert.Equal(t, 120, cfg.ListTimeout)
}

func TestLoadWithPrecedenceEnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	projectPath := writeFile(t, dir, "project", "QGIS_PATH=/from/file/qgis_process\nENVIRONMENT=staging\n")

	t.Setenv(config.EnvQGISPath, "/from/env/qgis_process")
	t.Setenv(config.EnvEnvironment, "production")

	cfg, err := config.LoadWithPrecedence(projectPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "/from/env/qgis_process", cfg.QGISPath)
	assert.Equal(t, config.SourceEnvironment, cfg.QGISPathSource)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadWithPrecedenceCLIOverridesAll(t *testing.T) {
	dir := t.TempDir()
	projectPath := writeFile(t, dir, "project", "QGIS_PATH=/from/file\nLIST_TIMEOUT=90\n")
	explicitPath := writeFile(t, dir, "explicit", "LIST_TIMEOUT=120\n")

	t.Setenv(config.EnvQGISPath, "/from/env")
	t.Setenv(config.EnvEnvironment, "staging")

	cli := map[string]string{
		"QGIS_PATH":    "/from/flag",
		"LIST_TIMEOUT": "45",
		"VERBOSE":      "true",
	}

	cfg, err := config.LoadWithPrecedence(projectPath, explicitPath, cli)
	require.NoError(t, err)

	// CLI overrides everything.
	assert.Equal(t, "/from/flag", cfg.QGISPath)
	assert.Equal(t, config.SourceFlag, cfg.QGISPathSource)
	assert.Equal(t, 45, cfg.ListTimeout)
	assert.True(t, cfg.Verbose)
	// Env still wins where CLI is silent.
	assert.Equal(t, "staging", cfg.Environment)
}

func TestLoadWithPrecedenceFullChain(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	// Each layer sets a unique field so we can verify all layers contribute.
	projectPath := writeFile(t, dir, "project", "SAMPLE_LIMIT=20\n")
	explicitPath := writeFile(t, dir, "explicit", "SUMMARY_FILE=/tmp/summary.json\n")
	t.Setenv(config.EnvEnvironment, "staging")
	cli := map[string]string{"VERBOSE": "true"}

	cfg, err := config.LoadWithPrecedence(projectPath, explicitPath, cli)
	require.NoError(t, err)

	// Defaults preserved.
	assert.Equal(t, 60, cfg.ListTimeout)
	// Project.
	assert.Equal(t, 20, cfg.SampleLimit)
	// Explicit.
	assert.Equal(t, "/tmp/summary.json", cfg.SummaryFile)
	// Environment.
	assert.Equal(t, "staging", cfg.Environment)
	// CLI.
	assert.True(t, cfg.Verbose)
}

func TestLoadWithPrecedenceConfigFileTracksPathSource(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	projectPath := writeFile(t, dir, "project", "QGIS_PATH=/from/file/qgis_process\n")

	cfg, err := config.LoadWithPrecedence(projectPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "/from/file/qgis_process", cfg.QGISPath)
	assert.Equal(t, config.SourceConfigFile, cfg.QGISPathSource)
}

func TestLoadWithPrecedenceMissingProjectIsNotError(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadWithPrecedence("/nonexistent/project/config", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment) // defaults preserved
}

func TestLoadWithPrecedenceMissingExplicitIsError(t *testing.T) {
	clearEnv(t)

	_, err := config.LoadWithPrecedence("", "/nonexistent/explicit/config", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}

func TestLoadWithPrecedenceInvalidProjectPath(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	// Create a directory, not a file
	dirPath := filepath.Join(tmpDir, "project-dir")
	require.NoError(t, os.Mkdir(dirPath, 0755))

	// Project config error (non-ErrNotExist) should be returned
	_, err := config.LoadWithPrecedence(dirPath, "", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project config")
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigSetsAllStringFields(t *testing.T) {
	cfg := config.NewDefaultConfig()
	m := map[string]string{
		"QGIS_PATH":    "/opt/qgis/bin/qgis_process",
		"ENVIRONMENT":  "staging",
		"OUTPUT":       "yaml",
		"SUMMARY_FILE": "/var/run/probe/summary.json",
	}

	config.ApplyMapToConfig(cfg, m, config.SourceConfigFile)

	assert.Equal(t, "/opt/qgis/bin/qgis_process", cfg.QGISPath)
	assert.Equal(t, config.SourceConfigFile, cfg.QGISPathSource)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "/var/run/probe/summary.json", cfg.SummaryFile)
}

func TestApplyMapToConfigSetsIntegerFields(t *testing.T) {
	cfg := config.NewDefaultConfig()
	m := map[string]string{
		"VERSION_TIMEOUT":         "15",
		"LIST_TIMEOUT":            "120",
		"HELP_TIMEOUT":            "20",
		"SUMMARY_VERSION_TIMEOUT": "5",
		"SUMMARY_LIST_TIMEOUT":    "45",
		"SAMPLE_LIMIT":            "25",
		"TILE_SAMPLE_LIMIT":       "30",
		"SUMMARY_TILE_LIMIT":      "8",
		"HELP_TEXT_LIMIT":         "2000",
		"WAIT_INTERVAL":           "10",
		"WAIT_TIMEOUT":            "600",
	}

	config.ApplyMapToConfig(cfg, m, config.SourceConfigFile)

	assert.Equal(t, 15, cfg.VersionTimeout)
	assert.Equal(t, 120, cfg.ListTimeout)
	assert.Equal(t, 20, cfg.HelpTimeout)
	assert.Equal(t, 5, cfg.SummaryVersionTimeout)
	assert.Equal(t, 45, cfg.SummaryListTimeout)
	assert.Equal(t, 25, cfg.SampleLimit)
	assert.Equal(t, 30, cfg.TileSampleLimit)
	assert.Equal(t, 8, cfg.SummaryTileLimit)
	assert.Equal(t, 2000, cfg.HelpTextLimit)
	assert.Equal(t, 10, cfg.WaitInterval)
	assert.Equal(t, 600, cfg.WaitTimeout)
}

func TestApplyMapToConfigSetsBooleanFields(t *testing.T) {
	cfg := config.NewDefaultConfig()

	m := map[string]string{
		"VERBOSE":  "true",
		"NO_COLOR": "yes",
	}
	config.ApplyMapToConfig(cfg, m, config.SourceConfigFile)

	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
}

func TestApplyMapToConfigBooleanVariations(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"1", true},
		{"yes", true},
		{"YES", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"no", false},
		{"anything", false},
		{"", false},
		{"  true  ", true},   // whitespace trimming
		{"  false  ", false}, // whitespace trimming
	}

	for _, tt := range tests {
		t.Run("VERBOSE="+tt.value, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": tt.value}, config.SourceConfigFile)
			assert.Equal(t, tt.expected, cfg.Verbose)
		})
	}
}

func TestApplyMapToConfigIgnoresInvalidIntegers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	original := cfg.ListTimeout

	config.ApplyMapToConfig(cfg, map[string]string{"LIST_TIMEOUT": "not-a-number"}, config.SourceConfigFile)

	assert.Equal(t, original, cfg.ListTimeout, "invalid integer should preserve previous value")
}

func TestApplyMapToConfigIgnoresUnknownKeys(t *testing.T) {
	cfg := config.NewDefaultConfig()
	expected := config.NewDefaultConfig()

	config.ApplyMapToConfig(cfg, map[string]string{
		"TOTALLY_UNKNOWN": "value",
		"ANOTHER_BAD_KEY": "stuff",
	}, config.SourceConfigFile)

	assert.Equal(t, expected.Output, cfg.Output)
	assert.Equal(t, expected.ListTimeout, cfg.ListTimeout)
}

// ---------------------------------------------------------------------------
// ApplyEnv tests
// ---------------------------------------------------------------------------

func TestApplyEnvSetsPathAndSource(t *testing.T) {
	t.Setenv(config.EnvQGISPath, "/env/qgis_process")
	t.Setenv(config.EnvEnvironment, "")

	cfg := config.NewDefaultConfig()
	config.ApplyEnv(cfg)

	assert.Equal(t, "/env/qgis_process", cfg.QGISPath)
	assert.Equal(t, config.SourceEnvironment, cfg.QGISPathSource)
}

func TestApplyEnvSetsDeploymentLabel(t *testing.T) {
	t.Setenv(config.EnvQGISPath, "")
	t.Setenv(config.EnvEnvironment, "staging")

	cfg := config.NewDefaultConfig()
	config.ApplyEnv(cfg)

	assert.Equal(t, "staging", cfg.Environment)
}

func TestApplyEnvEmptyVarsAreNoOps(t *testing.T) {
	clearEnv(t)

	cfg := config.NewDefaultConfig()
	cfg.QGISPath = "/existing/path"
	cfg.QGISPathSource = config.SourceConfigFile

	config.ApplyEnv(cfg)

	assert.Equal(t, "/existing/path", cfg.QGISPath, "empty env var should not clear a configured path")
	assert.Equal(t, config.SourceConfigFile, cfg.QGISPathSource)
	assert.Equal(t, "production", cfg.Environment)
}
