package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleListing() *Listing {
	return &Listing{
		Filters: map[string][]string{"type": {"UAV"}},
		Total:   1,
		Entries: []Entry{
			{
				Record: models.CatalogRecord{ID: "2", Name: "Bayraktar TB2", Type: "UAV", Affiliation: "UA", Description: "Strike drone", MediaKey: "tb2"},
				Media: []models.MediaDescriptor{
					{Filename: "tb2.png", URL: "/media/tb2.png", Kind: models.MediaImage},
					{Filename: "tb2#1.mp4", URL: "/media/tb2%231.mp4", Kind: models.MediaVideo},
				},
			},
		},
	}
}

func TestWriteListingText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleListing(), "text"))

	out := buf.String()
	assert.Contains(t, out, "Catalog: 1 record(s)")
	assert.Contains(t, out, "type: UAV")
	assert.Contains(t, out, "[1] Bayraktar TB2")
	assert.Contains(t, out, "Media:       2 file(s)")
}

func TestWriteListingTextFilterOrder(t *testing.T) {
	listing := &Listing{Filters: map[string][]string{
		"type":        {"MLRS", "UAV"},
		"category":    {},
		"affiliation": {"UA"},
		"region":      {"south"},
	}}

	for i := 0; i < 10; i++ {
		var buf bytes.Buffer
		require.NoError(t, WriteListing(&buf, listing, "text"))
		out := buf.String()

		aff := strings.Index(out, "affiliation: UA\n")
		region := strings.Index(out, "region: south\n")
		typ := strings.Index(out, "type: MLRS, UAV\n")
		require.True(t, aff >= 0 && region >= 0 && typ >= 0, out)
		assert.Less(t, aff, region)
		assert.Less(t, region, typ)
		assert.NotContains(t, out, "category:")
	}
}

func TestWriteListingTextNoResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, &Listing{}, "text"))
	assert.Contains(t, buf.String(), "No results")
}

func TestWriteListingJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleListing(), "json"))

	var decoded Listing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Total)
	require.Len(t, decoded.Entries, 1)
	assert.Equal(t, models.MediaVideo, decoded.Entries[0].Media[1].Kind)
}

func TestWriteListingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleListing(), "csv"))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Media", rows[0][6])
	assert.Equal(t, "tb2.png;tb2#1.mp4", rows[1][6])
}

func TestWriteListingYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleListing(), "yaml"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded["total"])
	assert.True(t, strings.HasPrefix(buf.String(), "filters:\n  type:\n"))
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteListing(&buf, sampleListing(), "xml"))
	assert.Error(t, WriteMedia(&buf, nil, "xml"))
	assert.Error(t, WriteFacets(&buf, &FacetReport{}, "xml"))
}

func TestWriteMedia(t *testing.T) {
	media := sampleListing().Entries[0].Media

	var buf bytes.Buffer
	require.NoError(t, WriteMedia(&buf, media, "text"))
	assert.Contains(t, buf.String(), "video  tb2#1.mp4")

	buf.Reset()
	require.NoError(t, WriteMedia(&buf, nil, "text"))
	assert.Equal(t, "No media found\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteMedia(&buf, media, "csv"))
	assert.Contains(t, buf.String(), "tb2#1.mp4,video,/media/tb2%231.mp4")
}

func TestWriteFacets(t *testing.T) {
	facets := &FacetReport{
		Facets: map[string][]filter.Option{
			"type":        {{Value: "MLRS", Count: 2}, {Value: "UAV", Count: 3}},
			"affiliation": {{Value: "UA", Count: 4}},
		},
		Order: []string{"type", "affiliation"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFacets(&buf, facets, "text"))
	assert.Equal(t, "type:\n  MLRS (2)\n  UAV (3)\naffiliation:\n  UA (4)\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteFacets(&buf, facets, "csv"))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "MLRS", "2"}, rows[1])
	assert.Len(t, rows, 4)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Бойов...", truncate("Бойовий дрон", 8))
}
