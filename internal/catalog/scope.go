package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
	"github.com/tidwall/gjson"
)

// MatchMode selects how a Scope compares its column value
type MatchMode string

const (
	// MatchEquals keeps records whose column equals the scope value
	MatchEquals MatchMode = "equals"
	// MatchContains keeps records whose column contains the scope value, ignoring case
	MatchContains MatchMode = "contains"
)

// Scope restricts the catalog to one category page, e.g. records whose
// Category is "fpv" or whose Affiliation mentions "UA".
type Scope struct {
	Column string
	Value  string
	Match  MatchMode
}

// IsZero reports whether the scope imposes no restriction
func (s Scope) IsZero() bool {
	return strings.TrimSpace(s.Value) == ""
}

// Validate checks the scope's match mode
func (s Scope) Validate() error {
	switch s.Match {
	case "", MatchEquals, MatchContains:
		return nil
	}
	return fmt.Errorf("invalid scope match %q (must be %q or %q)", s.Match, MatchEquals, MatchContains)
}

// Includes reports whether a record belongs to the scope
func (s Scope) Includes(r models.CatalogRecord) bool {
	if s.IsZero() {
		return true
	}
	column := s.Column
	if column == "" {
		column = "category"
	}
	got := strings.TrimSpace(r.Field(column))
	want := strings.TrimSpace(s.Value)

	if s.Match == MatchContains {
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	}
	return got == want
}

// Apply returns the records the scope includes, in order
func (s Scope) Apply(records []models.CatalogRecord) []models.CatalogRecord {
	out := make([]models.CatalogRecord, 0, len(records))
	for _, r := range records {
		if s.Includes(r) {
			out = append(out, r)
		}
	}
	return out
}

// MergeCounts returns copies of records whose names are suffixed with a count,
// e.g. "Shahed-136 (409)". Records without a count are copied unchanged.
func MergeCounts(records []models.CatalogRecord, counts map[string]int) []models.CatalogRecord {
	out := make([]models.CatalogRecord, len(records))
	for i, r := range records {
		if n, ok := counts[r.Name]; ok {
			r.Name = r.Name + " (" + strconv.Itoa(n) + ")"
		}
		out[i] = r
	}
	return out
}

// FetchCounts reads a JSON object of the form {"category": {"name": count}} and
// returns the counts for one category. A missing category yields an empty map.
func (f *Fetcher) FetchCounts(ctx context.Context, source, category string) (map[string]int, error) {
	data, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return ParseCounts(data, category)
}

// ParseCounts extracts one category's counts from a counts document
func ParseCounts(data []byte, category string) (map[string]int, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("counts document is not valid JSON")
	}

	counts := make(map[string]int)
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if key.String() != category {
			return true
		}
		value.ForEach(func(name, count gjson.Result) bool {
			switch count.Type {
			case gjson.Number:
				counts[name.String()] = int(count.Int())
			case gjson.String:
				if n, err := strconv.Atoi(strings.TrimSpace(count.Str)); err == nil {
					counts[name.String()] = n
				}
			}
			return true
		})
		return false
	})

	return counts, nil
}
