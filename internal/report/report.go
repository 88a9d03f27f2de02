package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/models"
	"gopkg.in/yaml.v3"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "yaml"}

// Entry is one record with its resolved media
type Entry struct {
	Record models.CatalogRecord     `json:"record" yaml:"record"`
	Media  []models.MediaDescriptor `json:"media" yaml:"media"`
}

// Listing is the result of a catalog query
type Listing struct {
	Filters map[string][]string `json:"filters" yaml:"filters"`
	Total   int                 `json:"total" yaml:"total"`
	Entries []Entry             `json:"entries" yaml:"entries"`
}

// FacetReport lists each facet's options
type FacetReport struct {
	Facets map[string][]filter.Option `json:"facets" yaml:"facets"`
	Order  []string                   `json:"-" yaml:"-"`
}

// WriteListing writes a listing in the given format
func WriteListing(w io.Writer, listing *Listing, format string) error {
	switch format {
	case "text":
		return writeListingText(w, listing)
	case "json":
		return writeJSON(w, listing)
	case "csv":
		return writeListingCSV(w, listing)
	case "yaml":
		return writeYAML(w, listing)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteMedia writes resolved media descriptors in the given format
func WriteMedia(w io.Writer, media []models.MediaDescriptor, format string) error {
	switch format {
	case "text":
		if len(media) == 0 {
			_, err := fmt.Fprintln(w, "No media found")
			return err
		}
		for i, m := range media {
			if _, err := fmt.Fprintf(w, "%3d  %-5s  %s\n", i+1, m.Kind, m.Filename); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return writeJSON(w, media)
	case "csv":
		writer := csv.NewWriter(w)
		defer writer.Flush()
		if err := writer.Write([]string{"Filename", "Kind", "URL"}); err != nil {
			return err
		}
		for _, m := range media {
			if err := writer.Write([]string{m.Filename, string(m.Kind), m.URL}); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		return writeYAML(w, media)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFacets writes facet options in the given format
func WriteFacets(w io.Writer, facets *FacetReport, format string) error {
	switch format {
	case "text":
		for _, name := range facets.Order {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
			for _, opt := range facets.Facets[name] {
				if _, err := fmt.Fprintf(w, "  %s (%d)\n", opt.Value, opt.Count); err != nil {
					return err
				}
			}
		}
		return nil
	case "json":
		return writeJSON(w, facets)
	case "csv":
		writer := csv.NewWriter(w)
		defer writer.Flush()
		if err := writer.Write([]string{"Facet", "Value", "Count"}); err != nil {
			return err
		}
		for _, name := range facets.Order {
			for _, opt := range facets.Facets[name] {
				if err := writer.Write([]string{name, opt.Value, fmt.Sprintf("%d", opt.Count)}); err != nil {
					return err
				}
			}
		}
		return nil
	case "yaml":
		return writeYAML(w, facets)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeListingText(w io.Writer, listing *Listing) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Catalog: %d record(s)\n", listing.Total)
	for _, facet := range slices.Sorted(maps.Keys(listing.Filters)) {
		if values := listing.Filters[facet]; len(values) > 0 {
			fmt.Fprintf(w, "%s: %s\n", facet, strings.Join(values, ", "))
		}
	}
	fmt.Fprintln(w, "========================================")

	if len(listing.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}

	for i, e := range listing.Entries {
		fmt.Fprintf(w, "\n[%d] %s\n", i+1, e.Record.Name)
		fmt.Fprintf(w, "  Type:        %s\n", e.Record.Type)
		fmt.Fprintf(w, "  Affiliation: %s\n", e.Record.Affiliation)
		if e.Record.Description != "" {
			fmt.Fprintf(w, "  Description: %s\n", truncate(e.Record.Description, 80))
		}
		if _, err := fmt.Fprintf(w, "  Media:       %d file(s)\n", len(e.Media)); err != nil {
			return err
		}
	}
	return nil
}

func writeListingCSV(w io.Writer, listing *Listing) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"ID", "Name", "Type", "Affiliation", "Description", "MediaKey", "Media"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range listing.Entries {
		files := make([]string, 0, len(e.Media))
		for _, m := range e.Media {
			files = append(files, m.Filename)
		}
		row := []string{
			e.Record.ID,
			e.Record.Name,
			e.Record.Type,
			e.Record.Affiliation,
			e.Record.Description,
			e.Record.MediaKey,
			strings.Join(files, ";"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return encoder.Close()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
