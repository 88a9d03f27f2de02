package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = "ID,Name,Type,Affiliation,Desc,imgId,Category\n" +
	"1,Shahed-136,UAV,RU,Loitering munition,AB1,fpv\n" +
	"2,Bayraktar TB2,UAV,UA,Strike drone,tb2,fpv\n" +
	"3,HIMARS,MLRS,UA,Rocket launcher,AB10,artillery\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFetcher() *Fetcher {
	return NewFetcher(5*time.Second, 0)
}

func TestLoaderLoadLocal(t *testing.T) {
	dir := t.TempDir()
	sources := Sources{
		Catalog:    writeFile(t, dir, "BK.csv", testCatalog),
		MediaIndex: writeFile(t, dir, "media.json", `["AB1#1.jpg","AB10#1.jpg","tb2.png"]`),
	}

	store, err := NewLoader(sources, testFetcher()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 3, store.MediaIndex().Len())

	record, err := store.Lookup("2")
	require.NoError(t, err)
	assert.Equal(t, "Bayraktar TB2", record.Name)
}

func TestLoaderLoadRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/BK.csv":
			_, _ = w.Write([]byte(testCatalog))
		case "/Media/":
			_, _ = w.Write([]byte(`<html><a href="AB1%231.jpg">AB1#1.jpg</a><a href="tb2.png">tb2.png</a></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sources := Sources{
		Catalog:    server.URL + "/data/BK.csv",
		MediaIndex: server.URL + "/Media/",
	}

	store, err := NewLoader(sources, testFetcher()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, []string{"AB1#1.jpg", "tb2.png"}, store.MediaIndex().Files())
}

func TestLoaderLoadParquet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.parquet")
	rows := []parquetRow{
		{ID: "1", Name: "Shahed-136", Type: "UAV", Affiliation: "RU", MediaKey: "AB1"},
		{ID: "2", Name: "HIMARS", Type: "MLRS", Affiliation: "UA", MediaKey: "AB10"},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	sources := Sources{
		Catalog:    path,
		MediaIndex: writeFile(t, dir, "media.json", `[]`),
	}

	store, err := NewLoader(sources, testFetcher()).Load(context.Background())
	require.NoError(t, err)

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "HIMARS", records[1].Name)
	assert.Equal(t, "AB10", records[1].MediaKey)
	assert.Equal(t, 2, records[1].Position)
}

func TestLoaderLoadErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "BK.csv", testCatalog)
	indexPath := writeFile(t, dir, "media.json", `["AB1#1.jpg"]`)

	tests := []struct {
		name    string
		sources Sources
	}{
		{
			name:    "missing catalog file",
			sources: Sources{Catalog: filepath.Join(dir, "missing.csv"), MediaIndex: indexPath},
		},
		{
			name:    "missing media index file",
			sources: Sources{Catalog: catalogPath, MediaIndex: filepath.Join(dir, "missing.json")},
		},
		{
			name:    "remote catalog not found",
			sources: Sources{Catalog: server.URL + "/BK.csv", MediaIndex: indexPath},
		},
		{
			name:    "malformed media index",
			sources: Sources{Catalog: catalogPath, MediaIndex: writeFile(t, dir, "bad.json", `{"1": 2}`)},
		},
		{
			name:    "no catalog configured",
			sources: Sources{MediaIndex: indexPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewLoader(tt.sources, testFetcher()).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, store)
			assert.True(t, IsDataLoadError(err), "expected DataLoadError, got %T", err)

			var loadErr *DataLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.NotEmpty(t, loadErr.Source)
		})
	}
}

func TestLoaderMediaOptional(t *testing.T) {
	dir := t.TempDir()
	sources := Sources{
		Catalog:       writeFile(t, dir, "BK.csv", testCatalog),
		MediaIndex:    filepath.Join(dir, "missing.json"),
		MediaOptional: true,
	}

	store, err := NewLoader(sources, testFetcher()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 0, store.MediaIndex().Len())
}

func TestSourceExt(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{source: "data/BK.csv", expected: ".csv"},
		{source: "data/catalog.PARQUET", expected: ".parquet"},
		{source: "https://example.org/data/catalog.parquet?v=2", expected: ".parquet"},
		{source: "https://example.org/export", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, sourceExt(tt.source))
		})
	}
}
