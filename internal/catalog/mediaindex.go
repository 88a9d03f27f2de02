package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// MediaIndex is the flat, ordered list of media filenames.
// Indexes published as a JSON object keyed by record ID also keep that grouping.
type MediaIndex struct {
	files    []string
	byRecord map[string][]string
}

// NewMediaIndex wraps an ordered list of filenames
func NewMediaIndex(files []string) MediaIndex {
	return MediaIndex{files: slices.Clone(files)}
}

// Files returns the filenames in their original order
func (m MediaIndex) Files() []string {
	return slices.Clone(m.files)
}

// All yields the filenames in their original order without copying the index
func (m MediaIndex) All() iter.Seq[string] {
	return slices.Values(m.files)
}

// Len returns the number of filenames in the index
func (m MediaIndex) Len() int {
	return len(m.files)
}

// Keyed reports whether the index was published grouped by record ID
func (m MediaIndex) Keyed() bool {
	return m.byRecord != nil
}

// ForRecord returns the filenames listed under a record ID in a keyed index
func (m MediaIndex) ForRecord(id string) ([]string, bool) {
	files, ok := m.byRecord[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(files), true
}

// ParseMediaIndex accepts a JSON array of filenames, a JSON object mapping record IDs
// to filename arrays, or an HTML directory listing.
func ParseMediaIndex(data []byte) (MediaIndex, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return MediaIndex{}, errors.New("media index is empty")
	}

	if gjson.ValidBytes(trimmed) {
		return parseJSONIndex(gjson.ParseBytes(trimmed))
	}

	if trimmed[0] == '<' {
		return parseDirectoryListing(trimmed)
	}

	return MediaIndex{}, errors.New("media index is neither JSON nor an HTML listing")
}

func parseJSONIndex(result gjson.Result) (MediaIndex, error) {
	switch {
	case result.IsArray():
		files, err := stringArray(result)
		if err != nil {
			return MediaIndex{}, err
		}
		return MediaIndex{files: files}, nil

	case result.IsObject():
		index := MediaIndex{files: []string{}, byRecord: make(map[string][]string)}
		var parseErr error
		result.ForEach(func(key, value gjson.Result) bool {
			if !value.IsArray() {
				parseErr = fmt.Errorf("media index entry %q is not an array", key.String())
				return false
			}
			files, err := stringArray(value)
			if err != nil {
				parseErr = fmt.Errorf("media index entry %q: %w", key.String(), err)
				return false
			}
			index.byRecord[key.String()] = files
			index.files = append(index.files, files...)
			return true
		})
		if parseErr != nil {
			return MediaIndex{}, parseErr
		}
		return index, nil
	}

	return MediaIndex{}, fmt.Errorf("unexpected media index JSON type: %s", result.Type)
}

func stringArray(result gjson.Result) ([]string, error) {
	values := result.Array()
	files := make([]string, 0, len(values))
	for i, v := range values {
		if v.Type != gjson.String {
			return nil, fmt.Errorf("entry %d is not a string", i)
		}
		files = append(files, v.Str)
	}
	return files, nil
}

// parseDirectoryListing extracts file links from a web server's autoindex page
func parseDirectoryListing(data []byte) (MediaIndex, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return MediaIndex{}, fmt.Errorf("failed to parse directory listing: %w", err)
	}

	files := []string{}
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		name, ok := listingEntry(href)
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		files = append(files, name)
	})

	if len(files) == 0 {
		return MediaIndex{}, errors.New("directory listing contains no files")
	}

	return MediaIndex{files: files}, nil
}

// listingEntry turns an autoindex href into a bare filename.
// Parent links, sort links and subdirectories are skipped.
func listingEntry(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if strings.HasSuffix(u.Path, "/") {
		return "", false
	}
	name := path.Base(u.Path)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "", false
	}
	return name, true
}
