package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/models"
)

// RecordList is the response of record listings
type RecordList struct {
	Total   int                    `json:"total"`
	Records []models.CatalogRecord `json:"records"`
}

// RecordDetail is a record together with its resolved media
type RecordDetail struct {
	Record models.CatalogRecord     `json:"record"`
	Media  []models.MediaDescriptor `json:"media"`
}

// ListRecords returns the records passing the facet selection in the query string.
// GET /api/records?type=UAV&affiliation=UA
func (h *Handler) ListRecords(c echo.Context) error {
	store, err := h.requireStore()
	if err != nil {
		return err
	}

	state := filter.ParseQuery(c.QueryParams(), h.facets)
	records := filter.Apply(store.Records(), state)

	return c.JSON(http.StatusOK, RecordList{Total: len(records), Records: records})
}

// GetRecord returns a record and its media.
// GET /api/records/:id
func (h *Handler) GetRecord(c echo.Context) error {
	store, err := h.requireStore()
	if err != nil {
		return err
	}

	record, err := h.lookupRecordParam(c, store)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RecordDetail{Record: record, Media: h.mediaFor(store, record)})
}

// GetRecordMedia returns only the media of a record; an empty list is a normal result.
// GET /api/records/:id/media
func (h *Handler) GetRecordMedia(c echo.Context) error {
	store, err := h.requireStore()
	if err != nil {
		return err
	}

	record, err := h.lookupRecordParam(c, store)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.mediaFor(store, record))
}

// ListFacets returns every facet's values with record counts.
// GET /api/facets
func (h *Handler) ListFacets(c echo.Context) error {
	store, err := h.requireStore()
	if err != nil {
		return err
	}

	records := store.Records()
	facets := make(map[string][]filter.Option, len(h.facets))
	for _, f := range h.facets {
		facets[f] = filter.Options(records, f, h.lang)
	}

	return c.JSON(http.StatusOK, facets)
}
