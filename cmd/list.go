package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/report"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filters []string
		format  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records matching the given filters",
		Long: `Applies facet filters to the catalog and prints the visible records with their media.

Values of the same facet are OR'ed, different facets are AND'ed.`,
		Example: `  # Every record
  catalog list

  # UAVs and MLRS operated by UA, as JSON
  catalog list --filter type=UAV --filter type=MLRS --filter affiliation=UA --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := filter.New(a.cfg.Facets...)
			for _, f := range filters {
				facet, value, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid filter %q (expected facet=value)", f)
				}
				if !engine.HasFacet(facet) {
					return fmt.Errorf("unknown facet %q (available: %s)", facet, strings.Join(engine.Facets(), ", "))
				}
				engine.Set(facet, value, true)
			}

			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			visible := engine.Apply(store.Records())
			listing := &report.Listing{
				Filters: make(map[string][]string),
				Total:   len(visible),
			}
			for _, facet := range engine.Facets() {
				listing.Filters[facet] = engine.Selected(facet)
			}

			matcher := a.matcher()
			for i, r := range visible {
				if limit > 0 && i >= limit {
					break
				}
				listing.Entries = append(listing.Entries, report.Entry{
					Record: r,
					Media:  matcher.ForRecord(r, store.MediaIndex()),
				})
			}

			return report.WriteListing(cmd.OutOrStdout(), listing, format)
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Facet filter as facet=value (repeatable)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format ("+strings.Join(report.Formats, ", ")+")")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records to print (0 = all)")

	return cmd
}
