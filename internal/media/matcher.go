package media

import (
	"iter"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
)

// Delimiter separates a filename's matching key from its disambiguating suffix,
// as in "tb2#1.jpg" or "tb2#front.png".
const Delimiter = "#"

// KeySeparator splits a record's media key into several keys
const KeySeparator = ";"

// DefaultDir is the media subdirectory that keys and filenames may be prefixed with
const DefaultDir = "Media"

var extPattern = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)

var videoExtensions = map[string]bool{
	"mp4":  true,
	"webm": true,
	"mov":  true,
	"ogg":  true,
}

// Matcher resolves record media keys against a filename index
type Matcher struct {
	// Dir is the media subdirectory name stripped from keys and filenames
	Dir string
	// BaseURL is prepended to the escaped filename to build descriptor URLs
	BaseURL string
}

// NewMatcher creates a matcher; an empty dir falls back to DefaultDir
func NewMatcher(dir, baseURL string) *Matcher {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	return &Matcher{Dir: strings.Trim(dir, "/"), BaseURL: baseURL}
}

// NormalizeKey trims the key, strips a leading "<dir>/" and a trailing extension
func NormalizeKey(key, dir string) string {
	key = stripDir(strings.TrimSpace(key), dir)
	return extPattern.ReplaceAllString(key, "")
}

// IdentifierPrefix returns the part of a filename that must equal a normalized key:
// the text before the first '#', or the filename stem when there is no '#'.
func IdentifierPrefix(filename, dir string) string {
	name := stripDir(strings.TrimSpace(filename), dir)
	if i := strings.Index(name, Delimiter); i >= 0 {
		return name[:i]
	}
	return extPattern.ReplaceAllString(name, "")
}

// Classify returns MediaVideo for mp4, webm, mov and ogg files and MediaImage otherwise
func Classify(filename string) models.MediaKind {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if videoExtensions[strings.ToLower(ext)] {
		return models.MediaVideo
	}
	return models.MediaImage
}

// Resolve returns every filename whose identifier prefix equals the normalized key,
// in index order. An empty key or no match yields an empty slice.
func (m *Matcher) Resolve(mediaKey string, index []string) []models.MediaDescriptor {
	out := []models.MediaDescriptor{}
	key := NormalizeKey(mediaKey, m.Dir)
	if key == "" {
		return out
	}
	for _, fn := range index {
		if IdentifierPrefix(fn, m.Dir) == key {
			out = append(out, m.Describe(fn))
		}
	}
	return out
}

// ResolveKeys resolves a ';'-separated list of keys. Matches from all keys are
// merged in index order without duplicates.
func (m *Matcher) ResolveKeys(mediaKey string, index []string) []models.MediaDescriptor {
	return m.resolve(mediaKey, slices.Values(index))
}

func (m *Matcher) resolve(mediaKey string, index iter.Seq[string]) []models.MediaDescriptor {
	keys := make(map[string]bool)
	for _, k := range strings.Split(mediaKey, KeySeparator) {
		if nk := NormalizeKey(k, m.Dir); nk != "" {
			keys[nk] = true
		}
	}

	out := []models.MediaDescriptor{}
	if len(keys) == 0 {
		return out
	}
	seen := make(map[string]bool)
	for fn := range index {
		if seen[fn] || !keys[IdentifierPrefix(fn, m.Dir)] {
			continue
		}
		seen[fn] = true
		out = append(out, m.Describe(fn))
	}
	return out
}

// Describe builds the descriptor for a single filename
func (m *Matcher) Describe(filename string) models.MediaDescriptor {
	name := stripDir(strings.TrimSpace(filename), m.Dir)
	return models.MediaDescriptor{
		Filename: name,
		URL:      m.BaseURL + url.PathEscape(name),
		Kind:     Classify(name),
	}
}

// Cover returns the first image among descriptors, used as a card thumbnail
func Cover(descriptors []models.MediaDescriptor) (models.MediaDescriptor, bool) {
	for _, d := range descriptors {
		if d.Kind == models.MediaImage {
			return d, true
		}
	}
	return models.MediaDescriptor{}, false
}

func stripDir(name, dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return name
	}
	prefix := dir + "/"
	if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		return name[len(prefix):]
	}
	return name
}
