package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
	"github.com/parquet-go/parquet-go"
)

// parquetRow is the column layout expected in a Parquet catalog export
type parquetRow struct {
	ID          string `parquet:"id,optional"`
	Name        string `parquet:"name,optional"`
	Type        string `parquet:"type,optional"`
	Affiliation string `parquet:"affiliation,optional"`
	Description string `parquet:"description,optional"`
	MediaKey    string `parquet:"media_key,optional"`
	Category    string `parquet:"category,optional"`
}

// ParseParquet reads catalog records from a Parquet file held in memory
func ParseParquet(data []byte) ([]models.CatalogRecord, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	records := make([]models.CatalogRecord, 0, pf.NumRows())
	rows := make([]parquetRow, 128)

	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			records = append(records, models.CatalogRecord{
				ID:          strings.TrimSpace(row.ID),
				Name:        strings.TrimSpace(row.Name),
				Type:        strings.TrimSpace(row.Type),
				Affiliation: strings.TrimSpace(row.Affiliation),
				Description: strings.TrimSpace(row.Description),
				MediaKey:    strings.TrimSpace(row.MediaKey),
				Category:    strings.TrimSpace(row.Category),
				Position:    len(records) + 1,
			})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet catalog", "total_records", len(records))

	return records, nil
}
