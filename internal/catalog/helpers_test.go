package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/remote"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func camera(id, brand, model string) models.Camera {
	return models.Camera{Item: models.Item{ID: id, Brand: brand, Model: model}}
}

func rated(id string, rate int64) models.Camera {
	return models.Camera{Item: models.Item{ID: id, BaseDailyRate: decimal.NewFromInt(rate)}}
}

func ids[T models.Listing](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Common().ID)
	}
	return out
}

func listOf(items ...models.Camera) remote.ListResponse[models.Camera] {
	return remote.ListResponse[models.Camera]{Shape: remote.ShapeBareList, Items: items}
}

// fakeFetcher answers fetches from a script and counts them.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     int
	responses []remote.ListResponse[models.Camera]
	errs      []error
}

func (f *fakeFetcher) fetch(_ context.Context) (remote.ListResponse[models.Camera], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.calls
	f.calls++

	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	if err != nil {
		return remote.ListResponse[models.Camera]{}, err
	}
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingObserver keeps every notification.
type recordingObserver struct {
	mu       sync.Mutex
	hits     int
	outcomes []catalog.Outcome
}

func (o *recordingObserver) CacheHit(models.Kind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits++
}

func (o *recordingObserver) FetchDone(_ models.Kind, outcome catalog.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) snapshot() (int, []catalog.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hits, append([]catalog.Outcome(nil), o.outcomes...)
}

// creds is a fixed Credentials value.
type creds struct {
	token string
	owner string
}

func (c creds) Token() string   { return c.token }
func (c creds) OwnerID() string { return c.owner }

// fakeSource is an in-memory Source for cameras.
type fakeSource struct {
	mu       sync.Mutex
	items    []models.Camera
	echo     bool
	writeErr error
	getErr   map[string]error

	listCalls  int
	ownerCalls []string
	getCalls   []string
	deleted    []string
}

func newFakeSource(items ...models.Camera) *fakeSource {
	return &fakeSource{items: items, echo: true, getErr: map[string]error{}}
}

func (s *fakeSource) snapshot() []models.Camera {
	return append([]models.Camera{}, s.items...)
}

func (s *fakeSource) FetchAll(context.Context) (remote.ListResponse[models.Camera], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return listOf(s.snapshot()...), nil
}

func (s *fakeSource) FetchByOwner(_ context.Context, ownerID string) (remote.ListResponse[models.Camera], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.ownerCalls = append(s.ownerCalls, ownerID)

	owned := []models.Camera{}
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			owned = append(owned, item)
		}
	}
	return listOf(owned...), nil
}

func (s *fakeSource) FetchByID(_ context.Context, id string) (*models.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls = append(s.getCalls, id)

	if err := s.getErr[id]; err != nil {
		return nil, err
	}
	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, remote.ErrNotFound
}

func (s *fakeSource) Create(_ context.Context, draft models.Draft) (*models.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return nil, s.writeErr
	}

	created := camera("new", draft.Brand, draft.Model)
	s.items = append(s.items, created)
	if !s.echo {
		return nil, nil
	}
	return &created, nil
}

func (s *fakeSource) Update(_ context.Context, id string, draft models.Draft) (*models.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return nil, s.writeErr
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Brand = draft.Brand
			s.items[i].Model = draft.Model
			if !s.echo {
				return nil, nil
			}
			updated := s.items[i]
			return &updated, nil
		}
	}
	return nil, remote.ErrNotFound
}

func (s *fakeSource) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}

	s.deleted = append(s.deleted, id)
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// answer is a Confirmer with a fixed reply that remembers its prompt.
type answer struct {
	yes    bool
	err    error
	prompt string
	asked  int
}

func (a *answer) Confirm(_ context.Context, prompt string) (bool, error) {
	a.asked++
	a.prompt = prompt
	return a.yes, a.err
}

// listFunc returns a fetch that always answers with items.
func listFunc(items ...models.Camera) catalog.FetchFunc[models.Camera] {
	return func(context.Context) (remote.ListResponse[models.Camera], error) {
		return listOf(items...), nil
	}
}
