package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/catalog-browser/catalog/internal/carousel"
	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/media"
	"github.com/catalog-browser/catalog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() *template.Template {
	return template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))
}

type facetView struct {
	Name     string
	ClearURL string
	Options  []optionView
}

type optionView struct {
	Value     string
	Count     int
	Checked   bool
	ToggleURL string
}

type cardView struct {
	Name     string
	Type     string
	URL      string
	CoverURL string
}

type galleryPage struct {
	Title    string
	Error    string
	Facets   []facetView
	Cards    []cardView
	Total    int
	ClearURL string
	Filtered bool
}

type itemPage struct {
	Title       string
	Error       string
	Record      models.CatalogRecord
	Description template.HTML
	BackURL     string
	Current     *models.MediaDescriptor
	Counter     string
	ShowNav     bool
	PrevURL     string
	NextURL     string
	MediaKey    string
}

// HandleGallery renders the filterable card gallery.
// GET /?type=UAV&affiliation=UA
func (h *Handler) HandleGallery(c echo.Context) error {
	page := galleryPage{Title: h.title}
	if h.loadErr != nil {
		page.Error = h.loadErr.Error()
		return h.render(c, http.StatusServiceUnavailable, "gallery", page)
	}

	records := h.store.Records()
	state := filter.ParseQuery(c.QueryParams(), h.facets)
	visible := filter.Apply(records, state)
	back := state.Query().Encode()

	page.Filtered = state.Active()
	page.Total = len(visible)
	page.ClearURL = "/"

	for _, f := range h.facets {
		fv := facetView{Name: f, ClearURL: clearFacetURL(state, f)}
		for _, opt := range filter.Options(records, f, h.lang) {
			fv.Options = append(fv.Options, optionView{
				Value:     opt.Value,
				Count:     opt.Count,
				Checked:   state[f][opt.Value],
				ToggleURL: toggleURL(state, f, opt.Value),
			})
		}
		page.Facets = append(page.Facets, fv)
	}

	for _, r := range visible {
		card := cardView{
			Name: r.Name,
			Type: r.Type,
			URL:  itemURL(r, back),
		}
		if cover, ok := media.Cover(h.mediaFor(h.store, r)); ok {
			card.CoverURL = cover.URL
		}
		page.Cards = append(page.Cards, card)
	}

	return h.render(c, http.StatusOK, "gallery", page)
}

// HandleItem renders a record's detail view with the carousel positioned at ?i=.
// GET /items/:id
func (h *Handler) HandleItem(c echo.Context) error {
	page := itemPage{Title: h.title}
	if h.loadErr != nil {
		page.Error = h.loadErr.Error()
		return h.render(c, http.StatusServiceUnavailable, "item", page)
	}

	record, err := h.lookupRecordParam(c, h.store)
	if err != nil {
		return err
	}

	back := c.QueryParam("back")
	ctl := carousel.New()
	ctl.Open(h.mediaFor(h.store, record))
	if i, err := strconv.Atoi(c.QueryParam("i")); err == nil {
		ctl.Seek(i)
	}

	page.Record = record
	page.Description = h.renderDescription(record.Description)
	page.BackURL = "/"
	if back != "" {
		page.BackURL = "/?" + back
	}
	page.Counter = ctl.Counter()
	page.ShowNav = ctl.ShowNavigation()
	page.MediaKey = record.MediaKey
	if cur, ok := ctl.Current(); ok {
		page.Current = &cur

		ctl.Previous()
		page.PrevURL = itemURLAt(record, back, ctl.Index())
		ctl.Next()
		ctl.Next()
		page.NextURL = itemURLAt(record, back, ctl.Index())
		ctl.Previous()
	}

	return h.render(c, http.StatusOK, "item", page)
}

func (h *Handler) render(c echo.Context, code int, name string, data any) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	if err := h.pages.ExecuteTemplate(c.Response(), name, data); err != nil {
		slog.Error("Unable to render page", "template", name, "err", err)
		return err
	}
	return nil
}

func toggleURL(state filter.State, facet, value string) string {
	next := state.Clone()
	if next[facet] == nil {
		next[facet] = make(map[string]bool)
	}
	if next[facet][value] {
		delete(next[facet], value)
	} else {
		next[facet][value] = true
	}
	return withQuery("/", next.Query())
}

func clearFacetURL(state filter.State, facet string) string {
	next := state.Clone()
	delete(next, facet)
	return withQuery("/", next.Query())
}

func itemURL(r models.CatalogRecord, back string) string {
	q := url.Values{}
	if back != "" {
		q.Set("back", back)
	}
	return withQuery("/items/"+url.PathEscape(r.Key()), q)
}

func itemURLAt(r models.CatalogRecord, back string, i int) string {
	q := url.Values{}
	if back != "" {
		q.Set("back", back)
	}
	q.Set("i", strconv.Itoa(i))
	return withQuery("/items/"+url.PathEscape(r.Key()), q)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
