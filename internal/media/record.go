package media

import (
	"github.com/catalog-browser/catalog/internal/catalog"
	"github.com/catalog-browser/catalog/internal/models"
)

// ForRecord resolves the media of a record. An index published grouped by record ID
// is consulted by ID first; otherwise the record's media key is matched.
func (m *Matcher) ForRecord(record models.CatalogRecord, index catalog.MediaIndex) []models.MediaDescriptor {
	if index.Keyed() && record.ID != "" {
		if files, ok := index.ForRecord(record.ID); ok {
			out := make([]models.MediaDescriptor, 0, len(files))
			for _, fn := range files {
				out = append(out, m.Describe(fn))
			}
			return out
		}
	}
	return m.resolve(record.MediaKey, index.All())
}
