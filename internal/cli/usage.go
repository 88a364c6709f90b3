package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `qgisprobe - QGIS engine availability probe for tile generation hosts

USAGE
  qgisprobe [flags]
  qgisprobe summary [flags]
  qgisprobe algorithm <id> [flags]
  qgisprobe wait [flags]

COMMANDS
  (none)        Run the full probe: locate the engine, list algorithms, report
  summary       Emit only the web-service status record (tight timeouts)
  algorithm     Check a single algorithm by id (e.g. qgis:tilesxyzdirectory)
  wait          Block until the engine appears or the wait window closes

FLAGS
  Engine Location:
    --qgis-path <path>                Path to qgis_process (overrides discovery)
    --environment <label>             Deployment environment label (default: production)

  Output:
    -o, --output <text|json|yaml>     Output format for summary/algorithm (default: text)
    --summary-file <path>             Write the summary record to this file as JSON
    --no-color                        Disable colored output

  Timeouts (seconds):
    --version-timeout <int>           Version check timeout (default: 30)
    --list-timeout <int>              Algorithm listing timeout (default: 60)
    --help-timeout <int>              Algorithm help timeout (default: 30)
    --summary-version-timeout <int>   Version timeout in summary mode (default: 10)
    --summary-list-timeout <int>      Listing timeout in summary mode (default: 30)

  Report Caps:
    --sample-limit <int>              Sample algorithms shown (default: 10)
    --tile-sample-limit <int>         Tile algorithms shown (default: 15)
    --summary-tile-limit <int>        Tile algorithms kept in the record (default: 5)
    --help-text-limit <int>           Help text bytes kept per check (default: 1000)

  Wait Mode:
    --wait-interval <int>             Seconds between polls (default: 5)
    --wait-timeout <int>              Total seconds to wait (default: 300)

  General:
    --config <path>                   Path to an additional config file
    -v, --verbose                     Enable debug output
    -h, --help                        Show this help text
    --version                         Show version, commit, build date

CONFIGURATION
  Values are merged in order of increasing priority:
  defaults < .qgisprobe.conf < --config file < environment < flags.
  QGIS_PATH points at the engine binary; APP_ENV sets the environment label.

EXIT CODES
  0   Success              Engine found and algorithm listing succeeded
  1   Error                Invalid arguments, unreadable config, misconfiguration
  2   EngineMissing        No engine binary at any candidate path
  3   ProbeFailed          Listing invocation failed
  4   Timeout              Listing invocation exceeded its time bound
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Full probe with the platform default locations
  qgisprobe

  # Probe a custom engine install and save the record for the web service
  qgisprobe --qgis-path /opt/qgis/bin/qgis_process --summary-file /var/run/qgis_status.json

  # Status record for the web service, as JSON on stdout
  qgisprobe summary -o json

  # Is the XYZ tile generator available?
  qgisprobe algorithm qgis:tilesxyzdirectory

  # Block a provisioning script until QGIS finishes installing
  qgisprobe wait --wait-timeout 600

For more information, see: https://github.com/tileforge/qgisprobe
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
