package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanLines(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "plain lines",
			raw:      "native:buffer\nnative:clip\n",
			expected: []string{"native:buffer", "native:clip"},
		},
		{
			name:     "blank and whitespace-only lines dropped",
			raw:      "\nnative:buffer\n   \n\t\nnative:clip\n\n",
			expected: []string{"native:buffer", "native:clip"},
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  native:buffer  \n\tnative:clip\t\n",
			expected: []string{"native:buffer", "native:clip"},
		},
		{
			name:     "windows line endings",
			raw:      "native:buffer\r\nnative:clip\r\n",
			expected: []string{"native:buffer", "native:clip"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
		{
			name:     "only blanks",
			raw:      "\n\n   \n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanLines(tt.raw))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		keywords []string
		expected bool
	}{
		{"direct hit", "qtiles:tilesxyz", TileKeywords, true},
		{"case-insensitive hit", "QTILES:TilesXYZ", TileKeywords, true},
		{"substring hit", "gdal:rastercalculator", TileKeywords, true},
		{"no hit", "native:dissolve", TileKeywords, false},
		{"empty keyword set", "anything", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesAny(tt.line, tt.keywords))
		})
	}
}

func TestFilterAnyTileScenario(t *testing.T) {
	lines := []string{"buffer", "qtiles_generate", "raster_calc", "dissolve", "xyz_export"}

	tile := FilterAny(lines, TileKeywords)

	assert.Equal(t, []string{"qtiles_generate", "raster_calc", "xyz_export"}, tile)
	assert.Len(t, lines, 5, "input must not shrink")
}

func TestFilterAnyStrictSetExcludesRaster(t *testing.T) {
	lines := []string{"qtiles_generate", "raster_calc", "xyz_export", "tms_publish"}

	strict := FilterAny(lines, StrictTileKeywords)

	assert.Equal(t, []string{"qtiles_generate", "xyz_export", "tms_publish"}, strict)
	assert.NotContains(t, strict, "raster_calc")
}

func TestFilterAnyPreservesOrder(t *testing.T) {
	lines := []string{"z_tile_last", "a_tile_first", "m_tile_middle"}

	got := FilterAny(lines, TileKeywords)

	assert.Equal(t, lines, got, "filter must keep input order, not sort")
}

func TestCountByCategoryNonExclusive(t *testing.T) {
	// One line matching both Raster and Export counts toward both.
	counts := CountByCategory([]string{"raster export tool"})

	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	assert.GreaterOrEqual(t, byName["Raster"], 1)
	assert.GreaterOrEqual(t, byName["Export"], 1)
	assert.Zero(t, byName["Vector"])
	assert.Zero(t, byName["Processing"])
	assert.Zero(t, byName["Analysis"])
}

func TestCountByCategoryOrderIsStable(t *testing.T) {
	counts := CountByCategory(nil)

	require.Len(t, counts, 5)
	assert.Equal(t, "Vector", counts[0].Name)
	assert.Equal(t, "Raster", counts[1].Name)
	assert.Equal(t, "Processing", counts[2].Name)
	assert.Equal(t, "Analysis", counts[3].Name)
	assert.Equal(t, "Export", counts[4].Name)
}

func TestCountByCategoryKeywordSets(t *testing.T) {
	lines := []string{
		"native:buffer",        // Vector
		"native:clipvector",    // Vector (clip + vector, single line)
		"gdal:slope",           // Raster
		"native:mergelines",    // Processing
		"qgis:distancematrix",  // Analysis
		"native:savefeatures",  // Export
		"qgis:zonalstatistics", // Analysis
		"native:package",       // no category
	}

	counts := CountByCategory(lines)
	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	assert.Equal(t, 2, byName["Vector"])
	assert.Equal(t, 1, byName["Raster"])
	assert.Equal(t, 1, byName["Processing"])
	assert.Equal(t, 2, byName["Analysis"])
	assert.Equal(t, 1, byName["Export"])
}

func TestClassificationIsIdempotent(t *testing.T) {
	lines := []string{"buffer", "qtiles_generate", "raster_calc", "dissolve", "xyz_export"}

	first := FilterAny(lines, TileKeywords)
	second := FilterAny(lines, TileKeywords)
	assert.Equal(t, first, second)

	firstCounts := CountByCategory(lines)
	secondCounts := CountByCategory(lines)
	assert.Equal(t, firstCounts, secondCounts)
}

func TestKeywordSetsAreLowercase(t *testing.T) {
	// Matching lowercases the line only, so the fixed sets must stay lowercase.
	check := func(set string, keywords []string) {
		for _, kw := range keywords {
			assert.Equal(t, strings.ToLower(kw), kw, "%s keyword %q must be lowercase", set, kw)
		}
	}

	check("tile", TileKeywords)
	check("strict tile", StrictTileKeywords)
	for _, cat := range Categories {
		check(cat.Name, cat.Keywords)
	}
}
