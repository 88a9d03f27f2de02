// Package carousel implements the circular media cursor of a record's detail view.
package carousel

import (
	"fmt"
	"slices"

	"github.com/catalog-browser/catalog/internal/models"
)

// State is the controller's externally visible state
type State string

const (
	// Empty means no record is open or the open record has no media
	Empty State = "empty"
	// Active means a non-empty media list is open and Index points into it
	Active State = "active"
)

// SwipeThreshold is the minimum horizontal travel, in CSS pixels, treated as a swipe
const SwipeThreshold = 50.0

// Controller keeps the cursor over the media of the currently open record.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	items []models.MediaDescriptor
	index int
}

// New returns a controller in the Empty state
func New() *Controller {
	return &Controller{}
}

// Open starts a new carousel over items. A non-empty list becomes Active at index 0;
// an empty list leaves the controller Empty.
func (c *Controller) Open(items []models.MediaDescriptor) {
	c.items = slices.Clone(items)
	c.index = 0
}

// Close discards the items and returns to Empty
func (c *Controller) Close() {
	c.items = nil
	c.index = 0
}

// State reports Empty or Active
func (c *Controller) State() State {
	if len(c.items) == 0 {
		return Empty
	}
	return Active
}

// Next advances the cursor, wrapping to the first item. No-op when Empty.
func (c *Controller) Next() {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.index = (c.index + 1) % n
}

// Previous moves the cursor back, wrapping to the last item. No-op when Empty.
func (c *Controller) Previous() {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.index = (c.index - 1 + n) % n
}

// Seek moves the cursor to i, clamped into range. No-op when Empty.
func (c *Controller) Seek(i int) {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.index = min(max(i, 0), n-1)
}

// Swipe navigates for a horizontal touch gesture of dx pixels: leftward swipes
// advance, rightward swipes go back, short movements are ignored.
func (c *Controller) Swipe(dx float64) {
	switch {
	case dx <= -SwipeThreshold:
		c.Next()
	case dx >= SwipeThreshold:
		c.Previous()
	}
}

// Current returns the descriptor under the cursor; ok is false when Empty
func (c *Controller) Current() (models.MediaDescriptor, bool) {
	if len(c.items) == 0 {
		return models.MediaDescriptor{}, false
	}
	return c.items[c.index], true
}

// Index returns the cursor position; it is 0 when Empty
func (c *Controller) Index() int {
	return c.index
}

// Len returns the number of items
func (c *Controller) Len() int {
	return len(c.items)
}

// Items returns a copy of the open items
func (c *Controller) Items() []models.MediaDescriptor {
	return slices.Clone(c.items)
}

// Counter renders the position as "i / n", or "0 / 0" when Empty
func (c *Controller) Counter() string {
	if len(c.items) == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", c.index+1, len(c.items))
}

// ShowNavigation reports whether previous/next controls are useful
func (c *Controller) ShowNavigation() bool {
	return len(c.items) > 1
}

// Snapshot is a serializable view of the controller
type Snapshot struct {
	State   State                    `json:"state"`
	Index   int                      `json:"index"`
	Count   int                      `json:"count"`
	Counter string                   `json:"counter"`
	Current *models.MediaDescriptor  `json:"current,omitempty"`
	Items   []models.MediaDescriptor `json:"items"`
	ShowNav bool                     `json:"show_navigation"`
}

// Snapshot captures the controller's state
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:   c.State(),
		Index:   c.index,
		Count:   len(c.items),
		Counter: c.Counter(),
		Items:   c.Items(),
		ShowNav: c.ShowNavigation(),
	}
	if s.Items == nil {
		s.Items = []models.MediaDescriptor{}
	}
	if cur, ok := c.Current(); ok {
		s.Current = &cur
	}
	return s
}
