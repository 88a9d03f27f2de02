package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/catalog-browser/catalog/internal/catalog"
	"github.com/catalog-browser/catalog/internal/media"
)

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// loadStore loads the catalog, applies the configured scope and merges remote counts
func (a *app) loadStore(ctx context.Context) (*catalog.Store, error) {
	fetcher := catalog.NewFetcher(a.cfg.Fetch.Timeout, a.cfg.Fetch.Retries)

	store, err := catalog.NewLoader(a.cfg.Sources(), fetcher).Load(ctx)
	if err != nil {
		return nil, err
	}

	scope := a.cfg.CatalogScope()
	if !scope.IsZero() {
		store = store.Scoped(scope)
		slog.Info("Catalog scoped", "column", scope.Column, "value", scope.Value, "match", scope.Match, "records", store.Len())
	}

	if url := a.cfg.Data.CountsURL; url != "" {
		counts, err := fetcher.FetchCounts(ctx, url, scope.Value)
		if err != nil {
			slog.Warn("Unable to fetch counts, continuing without them", "url", url, "err", err)
		} else {
			store = store.WithCounts(counts)
		}
	}

	return store, nil
}

// matcher builds the media matcher; keys may carry the media directory's name as a prefix
func (a *app) matcher() *media.Matcher {
	dir := filepath.Base(filepath.Clean(a.cfg.Media.Dir))
	if dir == "." || dir == string(filepath.Separator) {
		dir = ""
	}
	return media.NewMatcher(dir, a.cfg.Media.URLPrefix)
}
