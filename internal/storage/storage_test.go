package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/catalog-browser/catalog/internal/carousel"
	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/catalog-browser/catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	store := New()
	session := store.Create()
	require.NotEmpty(t, session.ID)

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionsAreIndependent(t *testing.T) {
	store := New(filter.DefaultFacets...)
	a := store.Create()
	b := store.Create()
	assert.NotEqual(t, a.ID, b.ID)

	a.Do(func(filters *filter.Engine, c *carousel.Controller, openRecord *string) {
		filters.Toggle(filter.FacetType, "UAV")
		c.Open([]models.MediaDescriptor{{Filename: "a.jpg"}})
		*openRecord = "1"
	})

	b.Do(func(filters *filter.Engine, c *carousel.Controller, openRecord *string) {
		assert.Empty(t, filters.Selected(filter.FacetType))
		assert.Equal(t, carousel.Empty, c.State())
		assert.Empty(t, *openRecord)
	})

	a.Do(func(filters *filter.Engine, c *carousel.Controller, openRecord *string) {
		assert.Equal(t, []string{"UAV"}, filters.Selected(filter.FacetType))
		assert.Equal(t, carousel.Active, c.State())
		assert.Equal(t, "1", *openRecord)
	})
}

func TestDelete(t *testing.T) {
	store := New()
	session := store.Create()
	store.Delete(session.ID)

	_, err := store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestPrune(t *testing.T) {
	store := New()
	idle := store.Create()
	time.Sleep(20 * time.Millisecond)
	active := store.Create()

	removed := store.Prune(10 * time.Millisecond)
	assert.Equal(t, 1, removed)

	_, err := store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(active.ID)
	assert.NoError(t, err)
}

func TestConcurrentAccess(t *testing.T) {
	store := New()
	session := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Do(func(filters *filter.Engine, c *carousel.Controller, _ *string) {
				filters.Toggle(filter.FacetType, "UAV")
				c.Next()
			})
			store.Create()
			_ = store.Len()
		}()
	}
	wg.Wait()

	assert.Equal(t, 51, store.Len())
	session.Do(func(filters *filter.Engine, _ *carousel.Controller, _ *string) {
		assert.Empty(t, filters.Selected(filter.FacetType), "an even number of toggles leaves the value unselected")
	})
}
