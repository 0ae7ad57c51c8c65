package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/remote"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultResolverSize bounds the items remembered from by-id lookups.
const DefaultResolverSize = 64

// Getter loads a single item by id. A missing item matches remote.ErrNotFound.
type Getter[T any] interface {
	FetchByID(ctx context.Context, id string) (*T, error)
}

// Comparison is the result of resolving a selection. Missing lists the ids
// that could not be resolved; they are left out of Items.
type Comparison[T any] struct {
	Items   []T
	Missing []string
}

// Resolver turns selected ids into items, preferring the cache, then items
// fetched earlier by id, then the service.
type Resolver[T models.Listing] struct {
	log     *slog.Logger
	cache   *Cache[T]
	getter  Getter[T]
	fetched *lru.Cache[string, T]
}

// NewResolver creates a resolver that remembers up to size fetched items.
func NewResolver[T models.Listing](log *slog.Logger, cache *Cache[T], getter Getter[T], size int) (*Resolver[T], error) {
	fetched, err := lru.New[string, T](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver cache: %w", err)
	}

	return &Resolver[T]{log: log, cache: cache, getter: getter, fetched: fetched}, nil
}

// Resolve looks up ids in order. Lookups that fail are skipped and reported in Missing.
func (r *Resolver[T]) Resolve(ctx context.Context, ids []string) Comparison[T] {
	const opn = "catalog.Resolver.Resolve"
	log := r.log.With("op", opn)

	result := Comparison[T]{Items: make([]T, 0, len(ids))}
	for _, id := range ids {
		if item, ok := r.cache.Get(id); ok {
			result.Items = append(result.Items, item)
			continue
		}
		if item, ok := r.fetched.Get(id); ok {
			result.Items = append(result.Items, item)
			continue
		}

		item, err := r.getter.FetchByID(ctx, id)
		if err != nil {
			if errors.Is(err, remote.ErrNotFound) {
				log.DebugContext(ctx, "Selected item no longer exists", "id", id)
			} else {
				log.WarnContext(ctx, "Failed to fetch selected item", "id", id, "error", err)
			}
			result.Missing = append(result.Missing, id)
			continue
		}

		r.fetched.Add(id, *item)
		result.Items = append(result.Items, *item)
	}

	return result
}

// Forget drops id from the by-id memory.
func (r *Resolver[T]) Forget(id string) {
	r.fetched.Remove(id)
}

// Purge drops everything fetched by id.
func (r *Resolver[T]) Purge() {
	r.fetched.Purge()
}
