package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/catalog-browser/catalog/internal/carousel"
	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/storage"
)

// SessionView is the JSON form of a viewer session
type SessionView struct {
	ID         string              `json:"id"`
	Filters    map[string][]string `json:"filters"`
	Visible    int                 `json:"visible"`
	OpenRecord string              `json:"open_record,omitempty"`
	Carousel   carousel.Snapshot   `json:"carousel"`
}

type toggleRequest struct {
	Facet string `json:"facet"`
	Value string `json:"value"`
}

type openRequest struct {
	RecordID string `json:"record_id"`
}

type swipeRequest struct {
	DX float64 `json:"dx"`
}

// CreateSession starts a viewer session.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	if _, err := h.requireStore(); err != nil {
		return err
	}
	session := h.sessions.Create()
	return c.JSON(http.StatusCreated, h.sessionView(session))
}

// GetSession returns the session's filters and carousel.
// GET /api/sessions/:id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.getSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sessionView(session))
}

// DeleteSession ends a session.
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c echo.Context) error {
	if _, err := h.getSession(c); err != nil {
		return err
	}
	h.sessions.Delete(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// SessionRecords returns the records visible under the session's filters.
// GET /api/sessions/:id/records
func (h *Handler) SessionRecords(c echo.Context) error {
	store, err := h.requireStore()
	if err != nil {
		return err
	}
	session, err := h.getSession(c)
	if err != nil {
		return err
	}

	var list RecordList
	session.Do(func(filters *filter.Engine, _ *carousel.Controller, _ *string) {
		list.Records = filters.Apply(store.Records())
	})
	list.Total = len(list.Records)

	return c.JSON(http.StatusOK, list)
}

// ToggleFilter flips one facet value.
// POST /api/sessions/:id/filters/toggle {"facet":"type","value":"UAV"}
func (h *Handler) ToggleFilter(c echo.Context) error {
	session, err := h.getSession(c)
	if err != nil {
		return err
	}

	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON: "+err.Error())
	}
	if strings.TrimSpace(req.Value) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "value is required")
	}

	var known bool
	session.Do(func(filters *filter.Engine, _ *carousel.Controller, _ *string) {
		if known = filters.HasFacet(req.Facet); known {
			filters.Toggle(req.Facet, req.Value)
		}
	})
	if !known {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown facet: "+req.Facet)
	}

	return c.JSON(http.StatusOK, h.sessionView(session))
}

// ClearFilters empties one facet (?facet=type) or all of them.
// DELETE /api/sessions/:id/filters
func (h *Handler) ClearFilters(c echo.Context) error {
	session, err := h.getSession(c)
	if err != nil {
		return err
	}

	facet := c.QueryParam("facet")
	session.Do(func(filters *filter.Engine, _ *carousel.Controller, _ *string) {
		if facet == "" {
			filters.ClearAll()
		} else {
			filters.Clear(facet)
		}
	})

	return c.JSON(http.StatusOK, h.sessionView(session))
}

// OpenCarousel opens a record's detail view, replacing any open one.
// POST /api/sessions/:id/carousel/open {"record_id":"42"}
func (h *Handler) OpenCarousel(c echo.Context) error {
	store, err := h.requireStore()
	if err != nil {
		return err
	}
	session, err := h.getSession(c)
	if err != nil {
		return err
	}

	var req openRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON: "+err.Error())
	}
	record, err := h.lookupRecord(store, req.RecordID)
	if err != nil {
		return err
	}
	items := h.mediaFor(store, record)

	session.Do(func(_ *filter.Engine, ctl *carousel.Controller, openRecord *string) {
		ctl.Open(items)
		*openRecord = record.Key()
	})

	return c.JSON(http.StatusOK, h.sessionView(session))
}

// NextMedia advances the carousel.
// POST /api/sessions/:id/carousel/next
func (h *Handler) NextMedia(c echo.Context) error {
	return h.navigate(c, (*carousel.Controller).Next)
}

// PreviousMedia moves the carousel back.
// POST /api/sessions/:id/carousel/previous
func (h *Handler) PreviousMedia(c echo.Context) error {
	return h.navigate(c, (*carousel.Controller).Previous)
}

// CloseCarousel closes the detail view.
// POST /api/sessions/:id/carousel/close
func (h *Handler) CloseCarousel(c echo.Context) error {
	session, err := h.getSession(c)
	if err != nil {
		return err
	}
	session.Do(func(_ *filter.Engine, ctl *carousel.Controller, openRecord *string) {
		ctl.Close()
		*openRecord = ""
	})
	return c.JSON(http.StatusOK, h.sessionView(session))
}

// SwipeMedia navigates for a touch gesture.
// POST /api/sessions/:id/carousel/swipe {"dx":-80}
func (h *Handler) SwipeMedia(c echo.Context) error {
	var req swipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON: "+err.Error())
	}
	return h.navigate(c, func(ctl *carousel.Controller) { ctl.Swipe(req.DX) })
}

func (h *Handler) navigate(c echo.Context, move func(*carousel.Controller)) error {
	session, err := h.getSession(c)
	if err != nil {
		return err
	}
	session.Do(func(_ *filter.Engine, ctl *carousel.Controller, _ *string) {
		move(ctl)
	})
	return c.JSON(http.StatusOK, h.sessionView(session))
}

func (h *Handler) getSession(c echo.Context) (*storage.Session, error) {
	session, err := h.sessions.Get(c.Param("id"))
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Session not found")
	}
	return session, err
}

func (h *Handler) sessionView(session *storage.Session) SessionView {
	view := SessionView{ID: session.ID, Filters: make(map[string][]string)}
	session.Do(func(filters *filter.Engine, ctl *carousel.Controller, openRecord *string) {
		for _, f := range filters.Facets() {
			view.Filters[f] = filters.Selected(f)
		}
		if h.store != nil {
			view.Visible = len(filters.Apply(h.store.Records()))
		}
		view.OpenRecord = *openRecord
		view.Carousel = ctl.Snapshot()
	})
	return view
}
