package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/remote"
)

// NotAuthenticatedMessage is the error a cache reports when no credential is present.
const NotAuthenticatedMessage = "not authenticated"

// FetchFunc loads the full list for a cache.
type FetchFunc[T any] func(ctx context.Context) (remote.ListResponse[T], error)

// State is a point-in-time copy of a cache.
type State[T any] struct {
	Items      []T
	HasFetched bool
	Loading    bool
	Err        string
}

// Cache keeps the last known list of one catalog kind.
//
// A successful fetch that returned items is kept until ForceRefresh or Reset;
// there is no time based expiry. Fetch failures never escape: they are
// recorded in Err and the previous list stays in place.
//
// Every fetch is numbered. A response that arrives after a newer one has been
// applied is dropped.
type Cache[T models.Listing] struct {
	log      *slog.Logger
	kind     models.Kind
	tokens   remote.TokenSource
	fetch    FetchFunc[T]
	observer Observer

	mu         sync.Mutex
	items      []T
	hasFetched bool
	inFlight   int
	err        string
	issued     uint64
	applied    uint64
	lastDiff   models.Changes[T]
}

// NewCache creates an empty cache. observer may be nil.
func NewCache[T models.Listing](
	log *slog.Logger,
	kind models.Kind,
	tokens remote.TokenSource,
	fetch FetchFunc[T],
	observer Observer,
) *Cache[T] {
	if observer == nil {
		observer = nopObserver{}
	}

	return &Cache[T]{
		log:      log.With("kind", string(kind)),
		kind:     kind,
		tokens:   tokens,
		fetch:    fetch,
		observer: observer,
		items:    []T{},
	}
}

// Kind returns the catalog kind held by the cache.
func (c *Cache[T]) Kind() models.Kind {
	return c.kind
}

// EnsureLoaded fetches unless a previous fetch already produced a non-empty list.
func (c *Cache[T]) EnsureLoaded(ctx context.Context) {
	c.mu.Lock()
	hit := c.hasFetched && len(c.items) > 0
	c.mu.Unlock()

	if hit {
		c.observer.CacheHit(c.kind)
		return
	}

	c.load(ctx)
}

// ForceRefresh always fetches.
func (c *Cache[T]) ForceRefresh(ctx context.Context) {
	c.load(ctx)
}

func (c *Cache[T]) load(ctx context.Context) {
	const opn = "catalog.Cache.load"
	log := c.log.With("op", opn)

	if c.tokens.Token() == "" {
		c.mu.Lock()
		c.items = []T{}
		c.hasFetched = false
		c.err = NotAuthenticatedMessage
		c.applied = c.issued
		c.mu.Unlock()

		log.DebugContext(ctx, "Skipping fetch without credentials")
		c.observer.FetchDone(c.kind, OutcomeUnauthenticated)
		return
	}

	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inFlight++
	c.mu.Unlock()

	log.DebugContext(ctx, "Fetching list", "seq", seq)
	list, err := c.fetch(ctx)

	outcome := c.apply(ctx, log, seq, list, err)
	c.observer.FetchDone(c.kind, outcome)
}

func (c *Cache[T]) apply(
	ctx context.Context,
	log *slog.Logger,
	seq uint64,
	list remote.ListResponse[T],
	err error,
) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight--

	if seq <= c.applied {
		log.DebugContext(ctx, "Discarding stale response", "seq", seq, "applied", c.applied)
		return OutcomeStale
	}
	c.applied = seq

	if err != nil {
		if errors.Is(err, remote.ErrNotAuthenticated) {
			c.err = NotAuthenticatedMessage
			return OutcomeUnauthenticated
		}

		log.WarnContext(ctx, "Fetch failed, keeping previous list", "error", err, "cached", len(c.items))
		c.err = err.Error()
		return OutcomeError
	}

	outcome := OutcomeOK
	if list.Shape == remote.ShapeUnknown {
		log.WarnContext(ctx, "Unrecognized list response, treating as empty", "reason", list.Reason)
		outcome = OutcomeMalformed
	}

	items := list.Items
	if items == nil {
		items = []T{}
	}

	if c.hasFetched && len(c.items) > 0 {
		c.lastDiff = detectChanges(c.items, items)
		log.InfoContext(ctx, "List refreshed",
			"added", len(c.lastDiff.Added),
			"removed", len(c.lastDiff.Removed),
			"changed", len(c.lastDiff.Changed),
		)
	} else {
		c.lastDiff = models.Changes[T]{Added: slices.Clone(items)}
	}

	c.items = items
	c.hasFetched = true
	c.err = ""

	return outcome
}

// ApplyLocalUpdate replaces the item with the given id in place.
// It reports false when id is not cached or item does not carry the same id.
func (c *Cache[T]) ApplyLocalUpdate(id string, item T) bool {
	if newID := item.Common().ID; newID != id {
		c.log.Warn("Refusing local update that changes the item id",
			"op", "catalog.Cache.ApplyLocalUpdate", "id", id, "new_id", newID)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	c.items[idx] = models.Clone(item)
	return true
}

// ApplyLocalRemoval drops the item with the given id. It reports false when id is not cached.
func (c *Cache[T]) ApplyLocalRemoval(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	c.items = slices.Delete(c.items, idx, idx+1)
	return true
}

func (c *Cache[T]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool {
		return item.Common().ID == id
	})
}

// Get returns the cached item with the given id.
func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, false
	}

	return models.Clone(c.items[idx]), true
}

// Items returns a deep copy of the cached list in fetch order.
func (c *Cache[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneAll(c.items)
}

func cloneAll[T models.Listing](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = models.Clone(item)
	}
	return out
}

// Loading reports whether at least one fetch is outstanding.
func (c *Cache[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inFlight > 0
}

// Err returns the message of the last failed fetch, or an empty string.
func (c *Cache[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// State returns a consistent copy of everything the cache holds.
func (c *Cache[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State[T]{
		Items:      cloneAll(c.items),
		HasFetched: c.hasFetched,
		Loading:    c.inFlight > 0,
		Err:        c.err,
	}
}

// LastChanges returns what the most recent applied fetch changed.
func (c *Cache[T]) LastChanges() models.Changes[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastDiff
}

// Reset empties the cache and makes every outstanding fetch stale.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []T{}
	c.hasFetched = false
	c.err = ""
	c.applied = c.issued
	c.lastDiff = models.Changes[T]{}
}
