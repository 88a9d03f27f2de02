package filter

import (
	"github.com/catalog-browser/catalog/internal/catalog"
	"github.com/catalog-browser/catalog/internal/models"
	"golang.org/x/text/language"
)

// Option is one checkbox of a facet: a distinct value and how many records carry it
type Option struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Options lists a facet's distinct values with record counts, in collated order
func Options(records []models.CatalogRecord, facet string, tag language.Tag) []Option {
	counts := make(map[string]int)
	for _, r := range records {
		if v := FacetValue(r, facet); v != "" {
			counts[v]++
		}
	}

	values := catalog.UniqueValues(records, facet, tag)
	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v, Count: counts[v]})
	}
	return options
}
