package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalog-browser/catalog/internal/catalog"
)

func cardTitles(doc *goquery.Document) []string {
	titles := []string{}
	doc.Find("#gallery .card .title").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	return titles
}

func TestGallery(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore(), Title: "fpv"})

	rec := do(e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "fpv", doc.Find("title").Text())
	assert.Equal(t, []string{"Shahed-136", "Bayraktar TB2", "HIMARS", "Unnamed"}, cardTitles(doc))
	assert.Equal(t, "4", doc.Find("#gallery").AttrOr("data-total", ""))
	assert.Zero(t, doc.Find("#no-results").Length())
	assert.Zero(t, doc.Find("#clear-filters").Length())

	options := doc.Find(`fieldset.facet[data-facet="type"] a.option`)
	require.Equal(t, 2, options.Length())
	assert.Equal(t, "MLRS", options.First().AttrOr("data-value", ""))
	assert.Equal(t, "/?type=MLRS", options.First().AttrOr("href", ""))

	cover, ok := doc.Find("#gallery .card img").First().Attr("src")
	require.True(t, ok)
	assert.Equal(t, "/media/AB1%231.jpg", cover)
}

func TestGalleryFiltered(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})

	rec := do(e, http.MethodGet, "/?type=MLRS&affiliation=UA", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, []string{"HIMARS"}, cardTitles(doc))
	assert.Equal(t, 1, doc.Find("#clear-filters").Length())

	checked := doc.Find(`fieldset.facet[data-facet="type"] a.option.checked`)
	require.Equal(t, 1, checked.Length())
	assert.Equal(t, "/?affiliation=UA", checked.AttrOr("href", ""), "toggling a checked value removes it")

	href := doc.Find("#gallery .card").First().AttrOr("href", "")
	assert.Equal(t, "/items/3?back=affiliation%3DUA%26type%3DMLRS", href)
}

func TestGalleryNoResults(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})

	rec := do(e, http.MethodGet, "/?type=Tank", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Empty(t, cardTitles(doc))
	assert.Equal(t, "Нічого не знайдено.", doc.Find("#no-results").Text())
}

func TestGalleryLoadError(t *testing.T) {
	loadErr := &catalog.DataLoadError{Source: "data/BK.csv", Err: errors.New("no such file")}
	e := newTestServer(t, Options{LoadErr: loadErr})

	rec := do(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	doc := document(t, rec)

	banner := doc.Find("#load-error")
	require.Equal(t, 1, banner.Length())
	assert.Contains(t, banner.Text(), "data/BK.csv")
	assert.Zero(t, doc.Find("#gallery .card").Length())
	assert.Zero(t, doc.Find("#filters").Length())
}

func TestItemPage(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})

	rec := do(e, http.MethodGet, "/items/1?back=type%3DUAV", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "Shahed-136", doc.Find("#modalTitle").Text())
	assert.Equal(t, "UAV", doc.Find("#modalType").Text())
	assert.Equal(t, "RU", doc.Find("#modalAff").Text())
	assert.Equal(t, "munition", doc.Find("#modalDesc strong").Text())
	assert.Zero(t, doc.Find("#modalDesc script").Length())

	assert.Equal(t, "1 / 2", doc.Find("#counter").Text())
	assert.Equal(t, "img", goquery.NodeName(doc.Find("#carouselMedia")))
	assert.Equal(t, "/?type=UAV", doc.Find("#close").AttrOr("href", ""))
	assert.Equal(t, "/items/1?back=type%3DUAV&i=1", doc.Find("#next").AttrOr("href", ""))
	assert.Equal(t, "/items/1?back=type%3DUAV&i=1", doc.Find("#prev").AttrOr("href", ""))
}

func TestItemPageSeek(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})

	rec := do(e, http.MethodGet, "/items/1?i=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "2 / 2", doc.Find("#counter").Text())
	assert.Equal(t, "video", goquery.NodeName(doc.Find("#carouselMedia")))
	assert.Equal(t, "/items/1?i=0", doc.Find("#next").AttrOr("href", ""))
}

func TestItemPageWithoutMedia(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})

	rec := do(e, http.MethodGet, "/items/%234", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "Медіа відсутні", doc.Find("#no-media").Text())
	assert.Equal(t, "0 / 0", doc.Find("#counter").Text())
	assert.Zero(t, doc.Find("#prev").Length())
	assert.Zero(t, doc.Find("#next").Length())
}

func TestItemPageSingleMedia(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})

	rec := do(e, http.MethodGet, "/items/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "1 / 1", doc.Find("#counter").Text())
	assert.Zero(t, doc.Find("#next").Length())
}

func TestItemPageNotFound(t *testing.T) {
	e := newTestServer(t, Options{Store: testStore()})
	rec := do(e, http.MethodGet, "/items/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
