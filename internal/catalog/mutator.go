package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Houeta/rentcatalog/internal/models"
)

var ErrDeleteDeclined = errors.New("delete was not confirmed")

// Writer performs writes against the remote service. A nil item with a nil
// error means the service answered without echoing the item.
type Writer[T any] interface {
	Create(ctx context.Context, draft models.Draft) (*T, error)
	Update(ctx context.Context, id string, draft models.Draft) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Mutator writes through the remote service and then brings the cache in line
// with the least network traffic that keeps it correct. A failed write
// leaves the cache untouched.
type Mutator[T models.Listing] struct {
	log    *slog.Logger
	cache  *Cache[T]
	writer Writer[T]
}

// NewMutator binds writer to cache.
func NewMutator[T models.Listing](log *slog.Logger, cache *Cache[T], writer Writer[T]) *Mutator[T] {
	return &Mutator[T]{log: log, cache: cache, writer: writer}
}

// Create stores a new item and refetches the list, since generated fields
// are only known to the service.
func (m *Mutator[T]) Create(ctx context.Context, draft models.Draft) (*T, error) {
	const opn = "catalog.Mutator.Create"

	created, err := m.writer.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	m.cache.ForceRefresh(ctx)
	return created, nil
}

// Update stores changes to item id. When the service echoes the item it
// replaces the cached one in place; otherwise the list is refetched.
func (m *Mutator[T]) Update(ctx context.Context, id string, draft models.Draft) (*T, error) {
	const opn = "catalog.Mutator.Update"
	log := m.log.With("op", opn, "id", id)

	updated, err := m.writer.Update(ctx, id, draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	if updated != nil && m.cache.ApplyLocalUpdate(id, *updated) {
		log.DebugContext(ctx, "Applied echoed item to cache")
		return updated, nil
	}

	log.DebugContext(ctx, "No usable echo, refreshing list")
	m.cache.ForceRefresh(ctx)
	return updated, nil
}

// Delete removes item id after confirm approves it. ErrDeleteDeclined is
// returned when the user says no.
func (m *Mutator[T]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	const opn = "catalog.Mutator.Delete"

	ok, err := confirm.Confirm(ctx, m.deletePrompt(id))
	if err != nil {
		return fmt.Errorf("%s: confirmation failed: %w", opn, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", opn, ErrDeleteDeclined)
	}

	if err = m.writer.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	m.cache.ApplyLocalRemoval(id)
	return nil
}

func (m *Mutator[T]) deletePrompt(id string) string {
	if item, ok := m.cache.Get(id); ok {
		common := item.Common()
		return fmt.Sprintf("Delete %s %s (%s)?", common.Brand, common.Model, id)
	}
	return fmt.Sprintf("Delete item %s?", id)
}
