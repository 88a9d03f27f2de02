package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catalog-browser/catalog/internal/models"
	"github.com/catalog-browser/catalog/internal/report"
)

func newMediaCmd(a *app) *cobra.Command {
	var (
		recordID string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "media [media-key]",
		Short: "Resolve the media files for a media key or record",
		Long: `Matches a media key against the media index. A filename belongs to a key when the
text before its first '#' (or its name without extension, if it has no '#') equals the key.`,
		Example: `  # Files for key AB1
  catalog media AB1

  # Files for a record, by ID
  catalog media --record 42 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (recordID == "") {
				return fmt.Errorf("provide either a media key or --record")
			}

			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			matcher := a.matcher()
			var media []models.MediaDescriptor
			if recordID != "" {
				record, err := store.Lookup(recordID)
				if err != nil {
					return err
				}
				media = matcher.ForRecord(record, store.MediaIndex())
			} else {
				media = matcher.ResolveKeys(args[0], store.MediaIndex().Files())
			}

			return report.WriteMedia(cmd.OutOrStdout(), media, format)
		},
	}

	cmd.Flags().StringVar(&recordID, "record", "", "Record ID (or #position) to resolve media for")
	cmd.Flags().StringVar(&format, "format", "text", "Output format ("+strings.Join(report.Formats, ", ")+")")

	return cmd
}
