package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/catalog-browser/catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeIncludes(t *testing.T) {
	record := models.CatalogRecord{Name: "HIMARS", Affiliation: "UA / US", Category: "artillery"}

	tests := []struct {
		name     string
		scope    Scope
		expected bool
	}{
		{name: "zero scope", scope: Scope{}, expected: true},
		{name: "category equals", scope: Scope{Value: "artillery"}, expected: true},
		{name: "category differs", scope: Scope{Value: "fpv"}, expected: false},
		{name: "equals is exact", scope: Scope{Value: "Artillery", Match: MatchEquals}, expected: false},
		{name: "contains ignores case", scope: Scope{Column: "affiliation", Value: "ua", Match: MatchContains}, expected: true},
		{name: "contains misses", scope: Scope{Column: "affiliation", Value: "RU", Match: MatchContains}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scope.Includes(record))
		})
	}
}

func TestScopeValidate(t *testing.T) {
	assert.NoError(t, Scope{Match: MatchContains}.Validate())
	assert.NoError(t, Scope{}.Validate())
	assert.Error(t, Scope{Match: "prefix"}.Validate())
}

func TestScopeApplyKeepsOrder(t *testing.T) {
	records := Scope{Value: "fpv"}.Apply(sampleRecords())
	require.Len(t, records, 2)
	assert.Equal(t, "Shahed-136", records[0].Name)
	assert.Equal(t, "Bayraktar TB2", records[1].Name)
}

func TestParseCounts(t *testing.T) {
	data := []byte(`{"fpv": {"Shahed-136": 409, "Lancet": "12", "Other": "n/a"}, "artillery": {"HIMARS": 3}}`)

	counts, err := ParseCounts(data, "fpv")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Shahed-136": 409, "Lancet": 12}, counts)

	counts, err = ParseCounts(data, "missing")
	require.NoError(t, err)
	assert.Empty(t, counts)

	_, err = ParseCounts([]byte("not json"), "fpv")
	assert.Error(t, err)
}

func TestFetchCounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fpv": {"Shahed-136": 409}}`))
	}))
	defer server.Close()

	counts, err := testFetcher().FetchCounts(context.Background(), server.URL+"/counts.json", "fpv")
	require.NoError(t, err)
	assert.Equal(t, 409, counts["Shahed-136"])
}

func TestMergeCounts(t *testing.T) {
	records := []models.CatalogRecord{{Name: "Shahed-136"}, {Name: "Lancet"}}
	merged := MergeCounts(records, map[string]int{"Shahed-136": 409})

	assert.Equal(t, "Shahed-136 (409)", merged[0].Name)
	assert.Equal(t, "Lancet", merged[1].Name)
	assert.Equal(t, "Shahed-136", records[0].Name)
}
