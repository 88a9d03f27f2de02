package filter

import (
	"net/url"
	"slices"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
)

// Default facet names
const (
	FacetType        = "type"
	FacetAffiliation = "affiliation"
)

// DefaultFacets are the facets offered when none are configured
var DefaultFacets = []string{FacetType, FacetAffiliation}

// State maps each facet to its selected values. An empty or missing set places
// no restriction on that facet.
type State map[string]map[string]bool

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := make(State, len(s))
	for facet, values := range s {
		set := make(map[string]bool, len(values))
		for v, on := range values {
			if on {
				set[v] = true
			}
		}
		out[facet] = set
	}
	return out
}

// Active reports whether any facet has a selection
func (s State) Active() bool {
	for _, values := range s {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// Values returns the selected values of a facet, sorted
func (s State) Values(facet string) []string {
	values := make([]string, 0, len(s[facet]))
	for v, on := range s[facet] {
		if on {
			values = append(values, v)
		}
	}
	slices.Sort(values)
	return values
}

// Engine holds the current facet selection of one viewer
type Engine struct {
	facets []string
	state  State
}

// New creates an engine over the given facets, or DefaultFacets when none are given
func New(facets ...string) *Engine {
	if len(facets) == 0 {
		facets = DefaultFacets
	}
	e := &Engine{state: make(State, len(facets))}
	for _, f := range facets {
		f = normalizeFacet(f)
		if f == "" || slices.Contains(e.facets, f) {
			continue
		}
		e.facets = append(e.facets, f)
		e.state[f] = make(map[string]bool)
	}
	return e
}

// Facets returns the facet names in configuration order
func (e *Engine) Facets() []string {
	return slices.Clone(e.facets)
}

// HasFacet reports whether the engine knows the facet
func (e *Engine) HasFacet(facet string) bool {
	_, ok := e.state[normalizeFacet(facet)]
	return ok
}

// Toggle flips membership of value in the facet's selection and returns the new
// membership. Unknown facets are ignored and report false.
func (e *Engine) Toggle(facet, value string) bool {
	facet = normalizeFacet(facet)
	set, ok := e.state[facet]
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if set[value] {
		delete(set, value)
		return false
	}
	set[value] = true
	return true
}

// Set forces membership of value in the facet's selection
func (e *Engine) Set(facet, value string, on bool) {
	set, ok := e.state[normalizeFacet(facet)]
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if on {
		set[value] = true
	} else {
		delete(set, value)
	}
}

// Clear empties one facet's selection
func (e *Engine) Clear(facet string) {
	facet = normalizeFacet(facet)
	if _, ok := e.state[facet]; ok {
		e.state[facet] = make(map[string]bool)
	}
}

// ClearAll empties every facet's selection
func (e *Engine) ClearAll() {
	for _, f := range e.facets {
		e.state[f] = make(map[string]bool)
	}
}

// Selected returns a facet's selected values, sorted
func (e *Engine) Selected(facet string) []string {
	return e.state.Values(normalizeFacet(facet))
}

// IsSelected reports whether value is selected for facet
func (e *Engine) IsSelected(facet, value string) bool {
	return e.state[normalizeFacet(facet)][strings.TrimSpace(value)]
}

// State returns a copy of the current selection
func (e *Engine) State() State {
	return e.state.Clone()
}

// Load replaces the selection with state, keeping only known facets
func (e *Engine) Load(state State) {
	e.ClearAll()
	for facet, values := range state {
		for v, on := range values {
			if on {
				e.Set(facet, v, true)
			}
		}
	}
}

// Apply filters records with the engine's current selection
func (e *Engine) Apply(records []models.CatalogRecord) []models.CatalogRecord {
	return Apply(records, e.state)
}

// Apply returns the records that pass state, in their original order. A record passes
// when, for every facet with a non-empty selection, its value for that facet is one
// of the selected values.
func Apply(records []models.CatalogRecord, state State) []models.CatalogRecord {
	out := make([]models.CatalogRecord, 0, len(records))
	for _, r := range records {
		if Matches(r, state) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record passes state
func Matches(r models.CatalogRecord, state State) bool {
	for facet, values := range state {
		if len(values) == 0 {
			continue
		}
		if !values[FacetValue(r, facet)] {
			return false
		}
	}
	return true
}

// FacetValue returns the trimmed value of a record's facet column
func FacetValue(r models.CatalogRecord, facet string) string {
	return strings.TrimSpace(r.Field(facet))
}

// ParseQuery builds a state from query parameters such as ?type=UAV&type=MLRS.
// Only the listed facets are read; blank values are ignored.
func ParseQuery(query url.Values, facets []string) State {
	state := make(State, len(facets))
	for _, f := range facets {
		f = normalizeFacet(f)
		set := make(map[string]bool)
		for _, v := range query[f] {
			if v = strings.TrimSpace(v); v != "" {
				set[v] = true
			}
		}
		state[f] = set
	}
	return state
}

// Query encodes a state as query parameters, the inverse of ParseQuery
func (s State) Query() url.Values {
	q := url.Values{}
	for facet := range s {
		for _, v := range s.Values(facet) {
			q.Add(facet, v)
		}
	}
	return q
}

func normalizeFacet(facet string) string {
	return strings.ToLower(strings.TrimSpace(facet))
}
