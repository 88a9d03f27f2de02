package models

import (
	"strconv"
	"strings"
)

// CatalogRecord represents one row of the catalog table
type CatalogRecord struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Type        string            `json:"type" yaml:"type"`
	Affiliation string            `json:"affiliation" yaml:"affiliation"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	MediaKey    string            `json:"media_key,omitempty" yaml:"media_key,omitempty"`
	Category    string            `json:"category,omitempty" yaml:"category,omitempty"`
	Extra       map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Position is the 1-based data row the record was read from
	Position int `json:"position" yaml:"position"`
}

// Key returns the identifier used to address the record over HTTP.
// Rows without an ID fall back to their position, e.g. "#12".
func (r CatalogRecord) Key() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return "#" + strconv.Itoa(r.Position)
}

// Field returns a named column value, checking the well-known fields first
// and then any extra columns. Lookup is case-insensitive.
func (r CatalogRecord) Field(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id":
		return r.ID
	case "name":
		return r.Name
	case "type":
		return r.Type
	case "affiliation":
		return r.Affiliation
	case "desc", "description":
		return r.Description
	case "imgid", "mediakey", "media_key", "media":
		return r.MediaKey
	case "category":
		return r.Category
	}
	for k, v := range r.Extra {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// MediaKind distinguishes how a media file is rendered
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaDescriptor is a resolved media file belonging to a record
type MediaDescriptor struct {
	Filename string    `json:"filename" yaml:"filename"`
	URL      string    `json:"url" yaml:"url"`
	Kind     MediaKind `json:"kind" yaml:"kind"`
}

// IsVideo reports whether the descriptor should be rendered as a video element
func (m MediaDescriptor) IsVideo() bool {
	return m.Kind == MediaVideo
}
