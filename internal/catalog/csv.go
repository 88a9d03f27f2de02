package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
)

// column identifies which record field a header maps to
type column int

const (
	colExtra column = iota
	colID
	colName
	colType
	colAffiliation
	colDescription
	colMediaKey
	colCategory
)

// headerAliases maps normalized header names to record fields.
// Catalog exports have used both "Desc" and "Description", and "imgId" for the media key.
var headerAliases = map[string]column{
	"id":          colID,
	"name":        colName,
	"type":        colType,
	"affiliation": colAffiliation,
	"desc":        colDescription,
	"description": colDescription,
	"imgid":       colMediaKey,
	"mediakey":    colMediaKey,
	"media_key":   colMediaKey,
	"media":       colMediaKey,
	"category":    colCategory,
}

const utf8BOM = "\ufeff"

// ParseCSV parses a comma-separated catalog table. The first row names the columns.
// Rows shorter than the header get empty strings for the missing trailing fields.
// A header with no data rows yields an empty, non-nil slice.
func ParseCSV(r io.Reader) ([]models.CatalogRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("catalog is empty: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns := make([]column, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		columns[i] = headerAliases[strings.ToLower(names[i])]
	}

	records := make([]models.CatalogRecord, 0)
	rowNum := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				slog.Warn("Skipping unparseable catalog row", "line", parseErr.Line, "err", parseErr.Err)
				continue
			}
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}

		if isBlankRow(fields) {
			continue
		}

		rowNum++
		if len(fields) < len(header) {
			slog.Debug("Catalog row shorter than header", "row", rowNum, "fields", len(fields), "columns", len(header))
		}

		record := models.CatalogRecord{Position: rowNum}
		for i, kind := range columns {
			value := ""
			if i < len(fields) {
				value = strings.TrimSpace(fields[i])
			}
			assign(&record, kind, names[i], value)
		}
		records = append(records, record)
	}

	slog.Debug("Parsed catalog table", "records", len(records), "columns", len(header))

	return records, nil
}

func assign(record *models.CatalogRecord, kind column, name, value string) {
	switch kind {
	case colID:
		record.ID = value
	case colName:
		record.Name = value
	case colType:
		record.Type = value
	case colAffiliation:
		record.Affiliation = value
	case colDescription:
		if record.Description == "" {
			record.Description = value
		}
	case colMediaKey:
		if record.MediaKey == "" {
			record.MediaKey = value
		}
	case colCategory:
		record.Category = value
	default:
		if name == "" {
			return
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		record.Extra[name] = value
	}
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
