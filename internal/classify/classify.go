// Package classify provides text classification for QGIS algorithm listings.
//
// The engine's `list` subcommand prints one algorithm per line. Everything
// here is a pure function of those lines: cleaning, keyword filtering, and
// per-category counting. Matching is case-insensitive substring containment.
package classify

import "strings"

// TileKeywords defines "tile-related" algorithms in the probe report.
var TileKeywords = []string{"tile", "qtiles", "xyz", "tms", "raster"}

// StrictTileKeywords is the tighter set used for the summary record's tile
// sample. Plain raster algorithms are excluded there; the web service only
// wants algorithms that can actually produce map tiles.
var StrictTileKeywords = []string{"tile", "qtiles", "xyz", "tms"}

// Category pairs a report category name with the keywords that define it.
type Category struct {
	Name     string
	Keywords []string
}

// Categories is the fixed, ordered category set. A listing line may count
// toward any number of categories; the sets are not mutually exclusive.
var Categories = []Category{
	{Name: "Vector", Keywords: []string{"vector", "geometry", "buffer", "clip"}},
	{Name: "Raster", Keywords: []string{"raster", "dem", "slope", "aspect"}},
	{Name: "Processing", Keywords: []string{"dissolve", "merge", "join", "intersect"}},
	{Name: "Analysis", Keywords: []string{"distance", "area", "statistics", "spatial"}},
	{Name: "Export", Keywords: []string{"export", "save", "write", "output"}},
}

// CategoryCount holds the number of listing lines matching one category.
type CategoryCount struct {
	Name  string
	Count int
}

// CleanLines splits raw listing output into trimmed, non-blank lines,
// preserving input order. The engine's Windows batch wrapper emits \r\n
// line endings; TrimSpace strips the stray \r as well.
func CleanLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// MatchesAny reports whether line case-insensitively contains any of the
// given keywords.
func MatchesAny(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FilterAny returns the subsequence of lines matching any of the given
// keywords, in input order.
func FilterAny(lines []string, keywords []string) []string {
	var matched []string
	for _, line := range lines {
		if MatchesAny(line, keywords) {
			matched = append(matched, line)
		}
	}
	return matched
}

// CountByCategory counts lines per fixed category, preserving the Categories
// order. A single line may contribute to several counts.
func CountByCategory(lines []string) []CategoryCount {
	counts := make([]CategoryCount, len(Categories))
	for i, cat := range Categories {
		counts[i].Name = cat.Name
		for _, line := range lines {
			if MatchesAny(line, cat.Keywords) {
				counts[i].Count++
			}
		}
	}
	return counts
}
