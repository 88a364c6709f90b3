// Package resolver locates the QGIS processing engine binary (qgis_process).
//
// Resolution order: an explicitly configured override (CLI flag, QGIS_PATH
// environment variable, or config file) wins when it points at an existing
// path; otherwise the platform's hard-coded candidate list is walked in
// preference order and the first existing path is returned.
package resolver

import (
	"errors"
	"fmt"
	"os"

	"github.com/tileforge/qgisprobe/internal/logging"
)

var (
	// ErrNotFound means no engine binary exists at any configured or
	// default location.
	ErrNotFound = errors.New("qgis_process binary not found")

	// ErrUnsupportedPlatform means the platform has no known QGIS install
	// layout. It matches ErrNotFound in errors.Is checks.
	ErrUnsupportedPlatform = fmt.Errorf("%w: unsupported platform", ErrNotFound)
)

// SourceDefault labels a resolution that came from the platform candidate
// list rather than an override.
const SourceDefault = "platform default"

// candidatePaths maps a GOOS value to the ordered default install locations
// for that platform. Newer QGIS releases are listed first on Windows; order
// is the only preference heuristic.
var candidatePaths = map[string][]string{
	"windows": {
		`C:\Program Files\QGIS 3.42.3\bin\qgis_process-qgis.bat`,
		`C:\Program Files\QGIS 3.40.0\bin\qgis_process-qgis.bat`,
		`C:\Program Files\QGIS 3.38.0\bin\qgis_process-qgis.bat`,
		`C:\OSGeo4W\bin\qgis_process-qgis.bat`,
		`C:\OSGeo4W64\bin\qgis_process-qgis.bat`,
	},
	"linux": {
		"/usr/bin/qgis_process",
		"/usr/local/bin/qgis_process",
		"/opt/qgis/bin/qgis_process",
		"/usr/bin/qgis-lts",
		"/usr/bin/qgis",
	},
	"darwin": {
		"/Applications/QGIS.app/Contents/MacOS/bin/qgis_process",
		"/usr/local/bin/qgis_process",
	},
}

// Override is an explicitly configured engine path plus the configuration
// layer it came from (for narration).
type Override struct {
	Path   string
	Source string
}

// Resolution is a verified engine binary location.
type Resolution struct {
	Path     string
	Source   string
	Platform string
}

// Resolver locates the engine binary for one platform.
type Resolver struct {
	// Platform is a GOOS value ("windows", "linux", "darwin", ...).
	Platform string

	// Override, when its Path is non-empty, is checked before the
	// platform candidate list.
	Override Override

	// Exists is the filesystem existence check. Tests substitute it to
	// simulate installed engines without touching the real filesystem.
	// nil means os.Stat.
	Exists func(path string) bool
}

// New returns a Resolver for the given platform backed by the real filesystem.
func New(platform string) *Resolver {
	return &Resolver{Platform: platform, Exists: fileExists}
}

// CandidatePaths returns the ordered default engine locations for a platform.
// ok is false when the platform has no known QGIS install layout.
func CandidatePaths(platform string) (paths []string, ok bool) {
	p, ok := candidatePaths[platform]
	return p, ok
}

// Resolve returns the first existing engine path. An override pointing at a
// missing path is warned about and skipped, never fatal. Unrecognized
// platforms fail immediately, before any filesystem inspection.
func (r *Resolver) Resolve() (*Resolution, error) {
	exists := r.Exists
	if exists == nil {
		exists = fileExists
	}

	if r.Override.Path != "" {
		if exists(r.Override.Path) {
			logging.Info(fmt.Sprintf("Using QGIS from %s: %s", r.Override.Source, r.Override.Path))
			return &Resolution{
				Path:     r.Override.Path,
				Source:   r.Override.Source,
				Platform: r.Platform,
			}, nil
		}
		logging.Warn(fmt.Sprintf("Configured QGIS path does not exist, trying platform defaults: %s", r.Override.Path))
	}

	candidates, ok := candidatePaths[r.Platform]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedPlatform, r.Platform)
	}

	for _, path := range candidates {
		if exists(path) {
			return &Resolution{
				Path:     path,
				Source:   SourceDefault,
				Platform: r.Platform,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w (checked %d %s locations)", ErrNotFound, len(candidates), r.Platform)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
