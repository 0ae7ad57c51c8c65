package cli_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Houeta/rentcatalog/internal/cli"
	"github.com/Houeta/rentcatalog/internal/config"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const camerasBody = `{"cameras":[
	{"id":"c1","brand":"Canon","model":"R5","baseDailyRate":100,"specs":"{\"mp\":45}"},
	{"id":"c2","brand":"Sony","model":"A7 IV","baseDailyRate":50},
	{"id":"c3","brand":"Nikon","model":"Z6","baseDailyRate":200}
]}`

const pagedCamerasBody = `{"page":2,"pageSize":2,"total":3,"items":[
	{"id":"c3","brand":"Nikon","model":"Z6","baseDailyRate":200}
]}`

// fakeService answers the catalog endpoints and records every request.
type fakeService struct {
	mu       sync.Mutex
	requests []string
	queries  []string
	auth     []string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.queries = append(f.queries, r.URL.RawQuery)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/cameras" && r.URL.Query().Has("page"):
		_, _ = io.WriteString(w, pagedCamerasBody)
	case r.Method == http.MethodGet && r.URL.Path == "/cameras":
		_, _ = io.WriteString(w, camerasBody)
	case r.Method == http.MethodGet && r.URL.Path == "/accessories":
		_, _ = io.WriteString(w, `[]`)
	case r.Method == http.MethodGet && r.URL.Path == "/cameras/c9":
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"data":{"id":"c9","brand":"Leica","model":"SL2"}}`)
	case r.Method == http.MethodPost && r.URL.Path == "/cameras",
		r.Method == http.MethodPut && r.URL.Path == "/cameras/c2":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && r.URL.Path == "/cameras/c1":
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"no such item"}`)
	}
}

func (f *fakeService) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeService) seenQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func discard(string) *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T, token string) *fakeService {
	t.Helper()

	svc := &fakeService{}
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)

	t.Setenv("RC_API_URL", server.URL)
	t.Setenv("RC_API_TOKEN", token)
	t.Setenv("RC_API_RETRIES", "0")
	t.Setenv("RC_OWNER_ID", "")
	t.Setenv("RC_PAGE_SIZE", "2")
	t.Setenv("RC_ENV", "local")

	return svc
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCmd(discard)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestList(t *testing.T) {
	t.Run("sorted page", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "", "list", "cameras", "--sort", "baseDailyRate", "--desc")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.True(t, strings.HasPrefix(lines[1], "c3"))
		assert.True(t, strings.HasPrefix(lines[2], "c1"))
		assert.Equal(t, "page 1 of 2, 3 items", lines[3])
		assert.Equal(t, []string{"GET /cameras"}, svc.seen())
	})

	t.Run("search and brand", func(t *testing.T) {
		setup(t, "tok")

		out, err := run(t, "", "list", "cameras", "--search", "a7", "--brand", "Sony")
		require.NoError(t, err)
		assert.Contains(t, out, "c2")
		assert.Contains(t, out, "page 1 of 1, 1 items")
	})

	t.Run("owner scope", func(t *testing.T) {
		svc := setup(t, "tok")

		_, err := run(t, "", "list", "cameras", "--owner", "o-1")
		require.Error(t, err, "owner endpoint is unknown to the fake service")
		assert.Equal(t, []string{"GET /cameras/owner/o-1"}, svc.seen())
	})

	t.Run("without credentials", func(t *testing.T) {
		svc := setup(t, "")

		_, err := run(t, "", "list", "cameras")
		require.ErrorContains(t, err, "not authenticated")
		assert.Empty(t, svc.seen())
	})

	t.Run("server side page", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "", "list", "cameras", "--server", "--page", "2",
			"--brand", "Nikon", "--search", "z", "--sort", "baseDailyRate", "--desc")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[1], "c3"))
		assert.Equal(t, "page 2 of 2, 3 items", lines[2])
		assert.Equal(t, []string{"GET /cameras"}, svc.seen())

		query, err := url.ParseQuery(svc.seenQueries()[0])
		require.NoError(t, err)
		assert.Equal(t, url.Values{
			"page":     {"2"},
			"pageSize": {"2"},
			"brand":    {"Nikon"},
			"model":    {"z"},
			"sortBy":   {"baseDailyRate"},
			"sortDir":  {"desc"},
		}, query)
	})

	t.Run("server side page omits unset filters", func(t *testing.T) {
		svc := setup(t, "tok")

		_, err := run(t, "", "list", "cameras", "--server")
		require.NoError(t, err)
		assert.Equal(t, []string{"page=1&pageSize=2"}, svc.seenQueries())
	})

	t.Run("server side page without credentials", func(t *testing.T) {
		svc := setup(t, "")

		_, err := run(t, "", "list", "accessories", "--server")
		require.ErrorContains(t, err, "failed to load accessories")
		require.ErrorContains(t, err, "not authenticated")
		assert.Empty(t, svc.seen())
	})

	t.Run("server and owner together", func(t *testing.T) {
		setup(t, "tok")

		_, err := run(t, "", "list", "cameras", "--server", "--owner", "o-1")
		require.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		setup(t, "tok")

		_, err := run(t, "", "list", "lenses")
		require.ErrorContains(t, err, `unknown kind "lenses"`)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		setup(t, "tok")

		_, err := run(t, "", "list", "accessories", "--sort", "color")
		require.ErrorContains(t, err, "unknown sort field")
	})

	t.Run("missing base url", func(t *testing.T) {
		setup(t, "tok")
		t.Setenv("RC_API_URL", "")

		_, err := run(t, "", "list", "cameras")
		require.ErrorIs(t, err, config.ErrEmptyBaseURL)
	})
}

func TestCompare(t *testing.T) {
	t.Run("cached, fetched and missing ids", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "", "compare", "cameras", "c1", "c9", "c404")
		require.NoError(t, err)

		assert.Contains(t, out, "Canon")
		assert.Contains(t, out, "Leica")
		assert.Contains(t, out, "mp")
		assert.Contains(t, out, "not found: c404")
		assert.Equal(t, []string{"GET /cameras", "GET /cameras/c9", "GET /cameras/c404"}, svc.seen())
	})

	t.Run("too many ids", func(t *testing.T) {
		setup(t, "tok")

		_, err := run(t, "", "compare", "cameras", "c1", "c2", "c3", "c4")
		require.Error(t, err)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		setup(t, "tok")

		_, err := run(t, "", "compare", "cameras", "c1", "c1")
		require.ErrorContains(t, err, "must be unique")
	})
}

func TestDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "y\n", "delete", "cameras", "c1")
		require.NoError(t, err)

		assert.Contains(t, out, "Delete Canon R5 (c1)? [y/N]: ")
		assert.Contains(t, out, "Deleted c1.")
		assert.Equal(t, []string{"GET /cameras", "DELETE /cameras/c1"}, svc.seen())
	})

	t.Run("declined", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "\n", "delete", "cameras", "c1")
		require.NoError(t, err)

		assert.Contains(t, out, "Aborted.")
		assert.Equal(t, []string{"GET /cameras"}, svc.seen())
	})

	t.Run("closed stdin declines", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "", "delete", "cameras", "c1")
		require.NoError(t, err)

		assert.Contains(t, out, "Aborted.")
		assert.NotContains(t, svc.seen(), "DELETE /cameras/c1")
	})

	t.Run("yes flag skips the prompt", func(t *testing.T) {
		svc := setup(t, "tok")

		out, err := run(t, "", "delete", "cameras", "c1", "--yes")
		require.NoError(t, err)

		assert.NotContains(t, out, "[y/N]")
		assert.Contains(t, svc.seen(), "DELETE /cameras/c1")
	})

	t.Run("service error", func(t *testing.T) {
		setup(t, "tok")

		_, err := run(t, "", "delete", "cameras", "c2", "--yes")
		require.ErrorContains(t, err, "no such item")
	})
}

func TestBot_RequiresTelegramToken(t *testing.T) {
	setup(t, "tok")
	t.Setenv("RC_TELEGRAM_TOKEN", "")

	_, err := run(t, "", "bot")
	require.ErrorIs(t, err, config.ErrEmptyToken)
}

func TestCreate(t *testing.T) {
	t.Run("uploads the draft", func(t *testing.T) {
		svc := setup(t, "tok")

		media := filepath.Join(t.TempDir(), "front.jpg")
		require.NoError(t, os.WriteFile(media, []byte("jpeg"), 0o600))

		out, err := run(t, "", "create", "cameras",
			"--brand", "Fujifilm", "--model", "X-T5", "--rate", "75.50",
			"--field", "mount=X", "--file", media)
		require.NoError(t, err)

		assert.Equal(t, "Saved.\n", out, "the fake service does not echo the item")
		assert.Equal(t, []string{"POST /cameras", "GET /cameras"}, svc.seen())
	})

	t.Run("invalid amount", func(t *testing.T) {
		svc := setup(t, "tok")

		_, err := run(t, "", "create", "cameras", "--brand", "Canon", "--model", "R5", "--rate", "cheap")
		require.ErrorContains(t, err, `invalid --rate "cheap"`)
		assert.Empty(t, svc.seen())
	})

	t.Run("rejected by validation", func(t *testing.T) {
		svc := setup(t, "tok")

		_, err := run(t, "", "create", "cameras", "--brand", "Canon", "--model", "R5", "--rate", "0")
		require.ErrorIs(t, err, models.ErrInvalidDraft)
		assert.Empty(t, svc.seen())
	})
}

func TestUpdate(t *testing.T) {
	svc := setup(t, "tok")

	out, err := run(t, "", "update", "cameras", "c2", "--brand", "Sony", "--model", "A7 V", "--rate", "60")
	require.NoError(t, err)

	assert.Equal(t, "Saved c2.\n", out)
	assert.Equal(t, []string{"GET /cameras", "PUT /cameras/c2", "GET /cameras"}, svc.seen())
}
