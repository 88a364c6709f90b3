// Package config defines the qgisprobe configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < project config file < explicit config file <
// environment variables < CLI flag overrides.
package config

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [17]string{
	"QGIS_PATH",
	"ENVIRONMENT",
	"OUTPUT",
	"SUMMARY_FILE",
	"VERSION_TIMEOUT",
	"LIST_TIMEOUT",
	"HELP_TIMEOUT",
	"SUMMARY_VERSION_TIMEOUT",
	"SUMMARY_LIST_TIMEOUT",
	"SAMPLE_LIMIT",
	"TILE_SAMPLE_LIMIT",
	"SUMMARY_TILE_LIMIT",
	"HELP_TEXT_LIMIT",
	"WAIT_INTERVAL",
	"WAIT_TIMEOUT",
	"VERBOSE",
	"NO_COLOR",
}

// Config holds every configuration field for the qgisprobe CLI.
type Config struct {
	// Engine location. QGISPathSource names the layer that provided
	// QGISPath (config file, environment variable, or flag) so the
	// resolver can log where an override came from.
	QGISPath       string
	QGISPathSource string

	// Deployment environment label reported in the summary record.
	Environment string

	// Output settings.
	Output      string
	SummaryFile string
	NoColor     bool

	// Subprocess timeouts, in seconds. The summary flow uses tighter
	// bounds than the full probe.
	VersionTimeout        int
	ListTimeout           int
	HelpTimeout           int
	SummaryVersionTimeout int
	SummaryListTimeout    int

	// Report sample caps.
	SampleLimit      int
	TileSampleLimit  int
	SummaryTileLimit int
	HelpTextLimit    int

	// Wait-mode polling, in seconds.
	WaitInterval int
	WaitTimeout  int

	// Runtime flags.
	Verbose bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment:           "production",
		Output:                "text",
		VersionTimeout:        30,
		ListTimeout:           60,
		HelpTimeout:           30,
		SummaryVersionTimeout: 10,
		SummaryListTimeout:    30,
		SampleLimit:           10,
		TileSampleLimit:       15,
		SummaryTileLimit:      5,
		HelpTextLimit:         1000,
		WaitInterval:          5,
		WaitTimeout:           300,
	}
}
