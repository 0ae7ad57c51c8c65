package bot

import (
	"context"
	"sync"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/session"
)

// chat is the state of one Telegram chat. Updates for the same chat are
// handled one at a time.
type chat struct {
	mu      sync.Mutex
	creds   *session.Session
	ws      *catalog.Workspace
	kind    models.Kind
	queries map[models.Kind]*catalog.Query
}

func newChat(creds *session.Session, ws *catalog.Workspace, pageSize int) *chat {
	return &chat{
		creds: creds,
		ws:    ws,
		kind:  models.KindCamera,
		queries: map[models.Kind]*catalog.Query{
			models.KindCamera:    catalog.NewQuery(pageSize),
			models.KindAccessory: catalog.NewQuery(pageSize),
		},
	}
}

func (c *chat) query() *catalog.Query {
	return c.queries[c.kind]
}

// active returns the catalog the chat is currently browsing.
func (c *chat) active() listing {
	if c.kind == models.KindAccessory {
		return listingOf[models.Accessory]{kind: c.kind, cat: c.ws.Accessories}
	}
	return listingOf[models.Camera]{kind: c.kind, cat: c.ws.Cameras}
}

// reset forgets everything cached for the chat and clears the view state.
func (c *chat) reset() {
	c.ws.Close()
	for _, q := range c.queries {
		q.Reset()
	}
}

// listing hides the item type of a catalog from the handlers.
type listing interface {
	page(ctx context.Context, params catalog.Params) string
	refresh(ctx context.Context, params catalog.Params) string
	brands(ctx context.Context) ([]string, string)
	selection() *catalog.Selection
	compare(ctx context.Context) string
}

type listingOf[T models.Listing] struct {
	kind models.Kind
	cat  *catalog.Catalog[T]
}

func (l listingOf[T]) page(ctx context.Context, params catalog.Params) string {
	page := l.cat.View(ctx, params)
	return renderPage(l.kind, page, l.cat.Cache.State(), l.cat.Selection)
}

func (l listingOf[T]) refresh(ctx context.Context, params catalog.Params) string {
	l.cat.Cache.ForceRefresh(ctx)
	page := catalog.View(l.cat.Cache.Items(), params)
	return renderPage(l.kind, page, l.cat.Cache.State(), l.cat.Selection) + renderChanges(l.cat.Cache.LastChanges())
}

func (l listingOf[T]) brands(ctx context.Context) ([]string, string) {
	l.cat.Cache.EnsureLoaded(ctx)
	return catalog.Brands(l.cat.Cache.Items()), l.cat.Cache.Err()
}

func (l listingOf[T]) selection() *catalog.Selection {
	return l.cat.Selection
}

func (l listingOf[T]) compare(ctx context.Context) string {
	return renderComparison(l.kind, l.cat.Compare(ctx))
}
