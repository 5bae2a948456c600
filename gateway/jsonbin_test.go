package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pinboard"
)

// fakeBin is a minimal JSONBin endpoint for one bin.
type fakeBin struct {
	mu          sync.Mutex
	key         string
	latest      string // body for /latest; empty means 404
	root        string // body for the bin root; empty means 404
	puts        []string
	putStatus   int
	latestCalls int
}

func (f *fakeBin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Header.Get(MasterKeyHeader) != f.key {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v3/b/bin1/latest":
		f.latestCalls++
		if f.latest == "" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, f.latest)
	case r.Method == http.MethodGet && r.URL.Path == "/v3/b/bin1":
		if f.root == "" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, f.root)
	case r.Method == http.MethodPut && r.URL.Path == "/v3/b/bin1":
		body, _ := io.ReadAll(r.Body)
		if f.putStatus != 0 {
			w.WriteHeader(f.putStatus)
			return
		}
		f.puts = append(f.puts, string(body))
		io.WriteString(w, `{"record":`+string(body)+`}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestJSONBin(t *testing.T, f *fakeBin) *JSONBin {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewJSONBin(JSONBinConfig{
		BaseURL:   srv.URL + "/v3/",
		BinID:     "bin1",
		MasterKey: f.key,
		Client:    srv.Client(),
	})
}

func TestJSONBinLoadLatest(t *testing.T) {
	f := &fakeBin{
		key:    "secret",
		latest: `{"record":{"items":[{"id":"a","type":"note"}],"boardConfig":{"nextZIndex":9}},"metadata":{"id":"bin1"}}`,
	}
	j := newTestJSONBin(t, f)

	got, err := j.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HasItems)
	assert.True(t, got.HasConfig)
	assert.Equal(t, "a", got.Items[0].ID)
	assert.Equal(t, 9, got.BoardConfig.NextZIndex)
}

func TestJSONBinLoadFallsBackToRoot(t *testing.T) {
	f := &fakeBin{key: "secret", root: `{"items":[{"id":"root"}]}`}
	j := newTestJSONBin(t, f)

	got, err := j.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.latestCalls)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "root", got.Items[0].ID)
	assert.False(t, got.HasConfig)
}

func TestJSONBinLoadErrors(t *testing.T) {
	_, err := newTestJSONBin(t, &fakeBin{key: "secret"}).Load(context.Background())
	assert.ErrorContains(t, err, "fetch initial bin data")

	j := newTestJSONBin(t, &fakeBin{key: "secret", latest: "{}"})
	j.key = "wrong"
	_, err = j.Load(context.Background())
	assert.ErrorContains(t, err, "status 401")
}

func TestJSONBinUnconfigured(t *testing.T) {
	j := NewJSONBin(JSONBinConfig{})
	assert.False(t, j.Configured())

	got, err := j.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, pinboard.DefaultBoardConfig(), got.BoardConfig)

	assert.ErrorIs(t, j.Save(context.Background(), pinboard.DefaultSnapshot()), ErrNotConfigured)
}

func TestJSONBinSave(t *testing.T) {
	f := &fakeBin{key: "secret"}
	j := newTestJSONBin(t, f)

	snap := pinboard.DefaultSnapshot()
	snap.Items = append(snap.Items, pinboard.Item{ID: "a", Scale: 1, Interactable: true})
	require.NoError(t, j.Save(context.Background(), snap))
	require.Len(t, f.puts, 1)
	assert.Contains(t, f.puts[0], `"boardConfig"`)

	f.putStatus = http.StatusServiceUnavailable
	assert.ErrorContains(t, j.Save(context.Background(), snap), "status 503")
}

func TestJSONBinWithSession(t *testing.T) {
	f := &fakeBin{key: "secret", latest: `{"record":{"items":[{"id":"a","type":"note","position":{"x":0,"y":0}}]}}`}
	j := newTestJSONBin(t, f)

	s := pinboard.NewSession(pinboard.Options{
		Gateway:  j,
		Board:    pinboard.Rect{Width: 1000, Height: 800},
		Viewport: pinboard.Size{Width: 1000, Height: 800},
	})
	s.Load(context.Background())
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 2, s.Config().NextZIndex, "a missing config derives the counter from the items")

	require.True(t, s.Save(context.Background()))
	s.Close()
	require.Len(t, f.puts, 1)
	assert.Contains(t, f.puts[0], `"nextZIndex":2`)
}
