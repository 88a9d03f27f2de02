package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/report"
)

func newFacetsCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List the filter options of each facet",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			engine := filter.New(a.cfg.Facets...)
			records := store.Records()
			facets := &report.FacetReport{
				Facets: make(map[string][]filter.Option),
				Order:  engine.Facets(),
			}
			for _, facet := range facets.Order {
				facets.Facets[facet] = filter.Options(records, facet, a.cfg.Language())
			}

			return report.WriteFacets(cmd.OutOrStdout(), facets, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format ("+strings.Join(report.Formats, ", ")+")")

	return cmd
}
