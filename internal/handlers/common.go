package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/text/language"

	"github.com/catalog-browser/catalog/internal/catalog"
	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/media"
	"github.com/catalog-browser/catalog/internal/models"
	"github.com/catalog-browser/catalog/internal/storage"
)

// Options configures a Handler
type Options struct {
	// Store is the loaded catalog; it is nil when loading failed
	Store *catalog.Store
	// LoadErr is the load failure rendered in place of the gallery
	LoadErr  error
	Matcher  *media.Matcher
	Sessions *storage.SessionStore
	Facets   []string
	Language language.Tag
	// MediaDir is the local directory media files are served from
	MediaDir string
	Title    string
}

type Handler struct {
	store    *catalog.Store
	loadErr  error
	matcher  *media.Matcher
	sessions *storage.SessionStore
	facets   []string
	lang     language.Tag
	mediaDir string
	title    string

	pages    *template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func New(opts Options) *Handler {
	facets := filter.New(opts.Facets...).Facets()
	matcher := opts.Matcher
	if matcher == nil {
		matcher = media.NewMatcher("", "/media/")
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = storage.New(facets...)
	}
	title := opts.Title
	if title == "" {
		title = "Catalog"
	}
	loadErr := opts.LoadErr
	if opts.Store == nil && loadErr == nil {
		loadErr = &catalog.DataLoadError{Source: "catalog", Err: errors.New("no data loaded")}
	}

	return &Handler{
		store:    opts.Store,
		loadErr:  loadErr,
		matcher:  matcher,
		sessions: sessions,
		facets:   facets,
		lang:     opts.Language,
		mediaDir: opts.MediaDir,
		title:    title,
		pages:    parsePages(),
		markdown: goldmark.New(),
		policy:   newDescriptionPolicy(),
	}
}

// Register mounts all routes on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.HandleGallery)
	e.GET("/items/:id", h.HandleItem)
	e.GET("/media/*", h.HandleMedia)
	e.GET("/healthcheck", h.HandleHealthcheck)

	api := e.Group("/api")
	api.GET("/records", h.ListRecords)
	api.GET("/records/:id", h.GetRecord)
	api.GET("/records/:id/media", h.GetRecordMedia)
	api.GET("/facets", h.ListFacets)

	sessions := api.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.GET("/:id/records", h.SessionRecords)
	sessions.POST("/:id/filters/toggle", h.ToggleFilter)
	sessions.DELETE("/:id/filters", h.ClearFilters)
	sessions.POST("/:id/carousel/open", h.OpenCarousel)
	sessions.POST("/:id/carousel/next", h.NextMedia)
	sessions.POST("/:id/carousel/previous", h.PreviousMedia)
	sessions.POST("/:id/carousel/swipe", h.SwipeMedia)
	sessions.POST("/:id/carousel/close", h.CloseCarousel)
}

func (h *Handler) HandleHealthcheck(c echo.Context) error {
	if h.loadErr != nil {
		return c.String(http.StatusServiceUnavailable, "DEGRADED")
	}
	return c.String(http.StatusOK, "OK")
}

// requireStore fails API requests while the catalog is unavailable
func (h *Handler) requireStore() (*catalog.Store, error) {
	if h.loadErr != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, h.loadErr.Error())
	}
	return h.store, nil
}

// pathParam returns a decoded path parameter. Echo routes on RawPath when the
// request carries one, leaving its parameters escaped; otherwise they are already decoded.
func pathParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

// lookupRecord resolves a decoded record key
func (h *Handler) lookupRecord(store *catalog.Store, key string) (models.CatalogRecord, error) {
	record, err := store.Lookup(key)
	if err != nil {
		if errors.Is(err, catalog.ErrRecordNotFound) {
			return models.CatalogRecord{}, echo.NewHTTPError(http.StatusNotFound, "Record not found")
		}
		return models.CatalogRecord{}, err
	}
	return record, nil
}

// lookupRecordParam resolves the :id path parameter
func (h *Handler) lookupRecordParam(c echo.Context, store *catalog.Store) (models.CatalogRecord, error) {
	key, err := pathParam(c, "id")
	if err != nil {
		return models.CatalogRecord{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid record ID")
	}
	return h.lookupRecord(store, key)
}

func (h *Handler) mediaFor(store *catalog.Store, record models.CatalogRecord) []models.MediaDescriptor {
	return h.matcher.ForRecord(record, store.MediaIndex())
}

// renderDescription converts Markdown descriptions to sanitized HTML
func (h *Handler) renderDescription(text string) template.HTML {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(text), &buf); err != nil {
		slog.Warn("Unable to render description", "err", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(h.policy.SanitizeBytes(buf.Bytes()))
}

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}
