package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch OutputFormat(format) {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// OutputResult serializes data to w in the requested format. Text rendering
// is structured per record type, so callers handle FormatText themselves and
// use this only for the machine-readable formats; the %v fallback exists for
// completeness.
func OutputResult(w io.Writer, format string, data interface{}) error {
	switch OutputFormat(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		yamlData, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(yamlData))
		return nil

	case FormatText:
		fmt.Fprintf(w, "%v\n", data)
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
