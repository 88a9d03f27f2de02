package catalog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
	"golang.org/x/sync/errgroup"
)

// Sources names where the catalog table and the media index are read from.
// Each may be a local path or an http(s) URL.
type Sources struct {
	Catalog    string
	MediaIndex string

	// MediaOptional turns a missing media index into an empty one instead of a load error
	MediaOptional bool
}

// Loader handles loading of the catalog table and media index
type Loader struct {
	sources Sources
	fetcher *Fetcher
}

// NewLoader creates a new loader
func NewLoader(sources Sources, fetcher *Fetcher) *Loader {
	return &Loader{
		sources: sources,
		fetcher: fetcher,
	}
}

// Load fetches both data files concurrently and builds a Store once both are in.
// Any failure is reported as a *DataLoadError.
func (l *Loader) Load(ctx context.Context) (*Store, error) {
	var (
		records []models.CatalogRecord
		index   MediaIndex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = l.loadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		index, err = l.loadMediaIndex(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Catalog loaded", "records", len(records), "media_files", index.Len())

	return NewStore(records, index), nil
}

func (l *Loader) loadCatalog(ctx context.Context) ([]models.CatalogRecord, error) {
	source := l.sources.Catalog
	if source == "" {
		return nil, &DataLoadError{Source: "catalog", Err: fmt.Errorf("no catalog source configured")}
	}

	slog.Debug("Loading catalog", "source", source)

	data, err := l.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	var records []models.CatalogRecord
	switch sourceExt(source) {
	case ".parquet":
		records, err = ParseParquet(data)
	default:
		records, err = ParseCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	return records, nil
}

func (l *Loader) loadMediaIndex(ctx context.Context) (MediaIndex, error) {
	source := l.sources.MediaIndex
	if source == "" {
		if l.sources.MediaOptional {
			return NewMediaIndex(nil), nil
		}
		return MediaIndex{}, &DataLoadError{Source: "media index", Err: fmt.Errorf("no media index source configured")}
	}

	slog.Debug("Loading media index", "source", source)

	data, err := l.fetcher.Fetch(ctx, source)
	if err != nil {
		if l.sources.MediaOptional && ctx.Err() == nil {
			slog.Warn("Media index unavailable, continuing without media", "source", source, "err", err)
			return NewMediaIndex(nil), nil
		}
		return MediaIndex{}, &DataLoadError{Source: source, Err: err}
	}

	index, err := ParseMediaIndex(data)
	if err != nil {
		return MediaIndex{}, &DataLoadError{Source: source, Err: err}
	}

	return index, nil
}

// sourceExt returns the lower-cased extension of a path or URL path
func sourceExt(source string) string {
	if IsRemote(source) {
		if u, err := url.Parse(source); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(path.Ext(source))
}
