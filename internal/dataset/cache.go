// Package dataset holds the in-memory snapshot of enriched trips that the
// analytics services compute over. The snapshot is immutable; a reload
// replaces it with a single atomic pointer swap so concurrent readers
// never observe a half-populated collection.
package dataset

import (
	"sync/atomic"
	"time"

	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// Snapshot is an immutable view of the trip dataset. Callers must not
// mutate the Trips slice.
type Snapshot struct {
	Trips    []models.Trip
	LoadedAt time.Time
}

// Cache holds the current snapshot.
type Cache struct {
	cur atomic.Pointer[Snapshot]
}

// NewCache creates a cache with an empty snapshot, so readers are always
// safe even before the first load.
func NewCache() *Cache {
	c := &Cache{}
	c.cur.Store(&Snapshot{Trips: []models.Trip{}, LoadedAt: time.Now()})
	return c
}

// Get returns the current snapshot.
func (c *Cache) Get() *Snapshot {
	return c.cur.Load()
}

// Replace swaps in a new snapshot built from the given trips.
func (c *Cache) Replace(trips []models.Trip) {
	if trips == nil {
		trips = []models.Trip{}
	}
	c.cur.Store(&Snapshot{Trips: trips, LoadedAt: time.Now()})
}

// Len returns the number of trips in the current snapshot.
func (c *Cache) Len() int {
	return len(c.Get().Trips)
}
