package cmd

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/catalog-browser/catalog/internal/config"
	"github.com/catalog-browser/catalog/internal/logging"
)

type app struct {
	v         *viper.Viper
	cfgFile   string
	cfg       *config.Config
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{v: config.New()})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse a catalog of equipment entries with filters and media",
		Long: `Catalog loads a catalog table (CSV or Parquet) and a media index, then serves a
filterable card gallery with a per-item media carousel.

The same matching and filtering is available offline through the list, media and
facets subcommands.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			closer, err := logging.Setup(logging.Config{
				Level:      cfg.Logging.Level,
				Format:     cfg.Logging.Format,
				File:       cfg.Logging.File,
				MaxSizeMB:  cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAgeDays: cfg.Logging.MaxAgeDays,
			})
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			a.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeLog()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./catalog.yaml or ~/.config/catalog/catalog.yaml)")
	flags.String("catalog", "", "Catalog table path or URL (.csv or .parquet)")
	flags.String("media-index", "", "Media index path or URL (JSON array, JSON object or directory listing)")
	flags.String("media-dir", "", "Directory media files are served from")
	flags.Bool("media-optional", false, "Continue with no media when the media index is unavailable")
	flags.String("scope", "", "Restrict to one category page, e.g. fpv")
	flags.String("scope-column", "", "Column the scope is matched against (default category)")
	flags.String("scope-match", "", "Scope match mode: equals or contains")
	flags.String("locale", "", "Collation locale for facet values (default uk)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	bindFlag(a.v, "data.catalog", flags.Lookup("catalog"))
	bindFlag(a.v, "data.media_index", flags.Lookup("media-index"))
	bindFlag(a.v, "media.dir", flags.Lookup("media-dir"))
	bindFlag(a.v, "media.optional", flags.Lookup("media-optional"))
	bindFlag(a.v, "scope.value", flags.Lookup("scope"))
	bindFlag(a.v, "scope.column", flags.Lookup("scope-column"))
	bindFlag(a.v, "scope.match", flags.Lookup("scope-match"))
	bindFlag(a.v, "locale", flags.Lookup("locale"))
	bindFlag(a.v, "logging.level", flags.Lookup("log-level"))

	// Add subcommands
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newMediaCmd(a))
	cmd.AddCommand(newFacetsCmd(a))

	return cmd
}

// closeLog flushes and closes the log file, if one is open
func (a *app) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}
