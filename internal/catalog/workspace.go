package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/remote"
)

// Credentials is the session a workspace belongs to.
type Credentials interface {
	remote.TokenSource
	OwnerID() string
}

// Source is the remote side of one catalog kind.
type Source[T any] interface {
	Writer[T]
	Getter[T]
	FetchAll(ctx context.Context) (remote.ListResponse[T], error)
	FetchByOwner(ctx context.Context, ownerID string) (remote.ListResponse[T], error)
}

// Catalog bundles everything a view needs for one kind.
type Catalog[T models.Listing] struct {
	Cache     *Cache[T]
	Selection *Selection
	Mutator   *Mutator[T]
	Resolver  *Resolver[T]
}

// NewCatalog wires a catalog of kind to src. The list is scoped to the
// session owner when one is set.
func NewCatalog[T models.Listing](
	log *slog.Logger,
	kind models.Kind,
	src Source[T],
	creds Credentials,
	observer Observer,
) (*Catalog[T], error) {
	var fetch FetchFunc[T] = func(ctx context.Context) (remote.ListResponse[T], error) {
		if owner := creds.OwnerID(); owner != "" {
			return src.FetchByOwner(ctx, owner)
		}
		return src.FetchAll(ctx)
	}

	cache := NewCache(log, kind, creds, fetch, observer)
	resolver, err := NewResolver[T](log, cache, src, DefaultResolverSize)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", kind, err)
	}

	return &Catalog[T]{
		Cache:     cache,
		Selection: NewSelection(),
		Mutator:   NewMutator[T](log, cache, src),
		Resolver:  resolver,
	}, nil
}

// View loads the list if needed and returns the page described by params.
func (c *Catalog[T]) View(ctx context.Context, params Params) Page[T] {
	c.Cache.EnsureLoaded(ctx)
	return View(c.Cache.Items(), params)
}

// Compare resolves the current selection.
func (c *Catalog[T]) Compare(ctx context.Context) Comparison[T] {
	return c.Resolver.Resolve(ctx, c.Selection.IDs())
}

// Delete removes item id after confirmation and forgets it everywhere but the selection.
func (c *Catalog[T]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if err := c.Mutator.Delete(ctx, id, confirm); err != nil {
		return err
	}

	c.Resolver.Forget(id)
	return nil
}

// Close drops all state held for the session.
func (c *Catalog[T]) Close() {
	c.Cache.Reset()
	c.Selection.Clear()
	c.Resolver.Purge()
}

// Workspace is the catalog state of one signed-in session. It is created
// after login and closed on logout.
type Workspace struct {
	Cameras     *Catalog[models.Camera]
	Accessories *Catalog[models.Accessory]
}

// NewWorkspace builds both catalogs on top of client.
func NewWorkspace(log *slog.Logger, client *remote.Client, creds Credentials, observer Observer) (*Workspace, error) {
	cameras, err := NewCatalog[models.Camera](log, models.KindCamera,
		remote.NewResource[models.Camera](client, models.KindCamera), creds, observer)
	if err != nil {
		return nil, err
	}

	accessories, err := NewCatalog[models.Accessory](log, models.KindAccessory,
		remote.NewResource[models.Accessory](client, models.KindAccessory), creds, observer)
	if err != nil {
		return nil, err
	}

	return &Workspace{Cameras: cameras, Accessories: accessories}, nil
}

// Close tears down both catalogs.
func (w *Workspace) Close() {
	w.Cameras.Close()
	w.Accessories.Close()
}
