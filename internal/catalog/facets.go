package catalog

import (
	"slices"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UniqueValues returns the distinct non-empty trimmed values of a facet column,
// sorted by the collation rules of tag.
func UniqueValues(records []models.CatalogRecord, facet string, tag language.Tag) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, r := range records {
		v := strings.TrimSpace(r.Field(facet))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	SortValues(values, tag)
	return values
}

// SortValues sorts facet values in place for presentation. Values the collator
// considers equal keep a deterministic byte order.
func SortValues(values []string, tag language.Tag) {
	c := collate.New(tag)
	slices.SortFunc(values, func(a, b string) int {
		if n := c.CompareString(a, b); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
}
