package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvfinder/tvfinder/internal/catalog"
	"github.com/tvfinder/tvfinder/internal/tvmaze"
	"github.com/tvfinder/tvfinder/internal/view"
)

const (
	defaultWait = 2 * time.Second
	pollEvery   = 5 * time.Millisecond
)

type fakeCatalog struct {
	mu       sync.Mutex
	shows    map[string][]catalog.Show
	seasons  map[int][]catalog.Season
	episodes map[int][]catalog.Episode
	err      error

	// gates block a call keyed by term or show ID until closed.
	gates map[string]chan struct{}
	calls []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		shows:    map[string][]catalog.Show{},
		seasons:  map[int][]catalog.Season{},
		episodes: map[int][]catalog.Episode{},
		gates:    map[string]chan struct{}{},
	}
}

func (f *fakeCatalog) wait(key string) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	gate := f.gates[key]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeCatalog) SearchShows(_ context.Context, term string) ([]catalog.Show, error) {
	f.wait("search:" + term)
	if f.err != nil {
		return nil, f.err
	}
	return f.shows[term], nil
}

func (f *fakeCatalog) ListSeasons(_ context.Context, showID int) ([]catalog.Season, error) {
	f.wait(fmt.Sprintf("seasons:%d", showID))
	if f.err != nil {
		return nil, f.err
	}
	return f.seasons[showID], nil
}

func (f *fakeCatalog) ListEpisodesForSeason(_ context.Context, season catalog.Season) ([]catalog.Episode, error) {
	f.wait(fmt.Sprintf("episodes:%d", season.ID))
	if f.err != nil {
		return nil, f.err
	}
	return f.episodes[season.ID], nil
}

type harness struct {
	ctrl     *Controller
	ui       *view.UIContext
	cat      *fakeCatalog
	shows    *view.MemoryRegion
	episodes *view.MemoryRegion
}

func newHarness() *harness {
	ui, shows, episodes := view.NewMemoryUIContext()
	cat := newFakeCatalog()
	ctrl := New(cat, view.NewRenderer(ui, view.Text()), zerolog.Nop())
	return &harness{ctrl: ctrl, ui: ui, cat: cat, shows: shows, episodes: episodes}
}

func TestSearch_RendersShowsAndHidesEpisodes(t *testing.T) {
	h := newHarness()
	h.cat.shows["girls"] = []catalog.Show{
		{ID: 139, Name: "Girls", Summary: "<p>Four friends</p>", Image: catalog.DefaultImageURL},
	}
	require.NoError(t, h.episodes.SetVisible(true))

	require.NoError(t, h.ctrl.Search(context.Background(), "girls"))

	assert.Contains(t, h.shows.Content(), "Girls")
	assert.Contains(t, h.shows.Content(), "[139]")
	assert.False(t, h.episodes.Visible())
	assert.Equal(t, "girls", h.ui.Search.Term())
}

func TestSearch_FailureLeavesShowListUntouched(t *testing.T) {
	h := newHarness()
	h.cat.shows["girls"] = []catalog.Show{{ID: 139, Name: "Girls", Image: catalog.DefaultImageURL}}
	require.NoError(t, h.ctrl.Search(context.Background(), "girls"))
	before := h.shows.Content()

	h.cat.err = &tvmaze.NetworkError{URL: "http://catalog/search/shows", Status: 500}
	err := h.ctrl.Search(context.Background(), "boys")

	require.Error(t, err)
	assert.True(t, errors.Is(err, tvmaze.ErrNetwork))
	assert.Equal(t, before, h.shows.Content())
}

func TestSearch_EmptyResultClearsList(t *testing.T) {
	h := newHarness()
	h.cat.shows["girls"] = []catalog.Show{{ID: 139, Name: "Girls", Image: catalog.DefaultImageURL}}
	require.NoError(t, h.ctrl.Search(context.Background(), "girls"))

	require.NoError(t, h.ctrl.Search(context.Background(), "zzzz"))

	assert.NotContains(t, h.shows.Content(), "Girls")
}

func TestShowEpisodes_RendersSeasonsInOrder(t *testing.T) {
	h := newHarness()
	h.cat.seasons[1] = []catalog.Season{{ID: 10, Number: 1}, {ID: 20, Number: 2}}
	h.cat.episodes[10] = []catalog.Episode{{ID: 100, Name: "A", Season: 1, Number: 1}}
	h.cat.episodes[20] = []catalog.Episode{{ID: 200, Name: "B", Season: 2, Number: 1}}

	require.NoError(t, h.ctrl.ShowEpisodes(context.Background(), 1))

	content := h.episodes.Content()
	assert.True(t, h.episodes.Visible())
	s1 := strings.Index(content, "Season 1")
	a := strings.Index(content, "A (Season 1, Number 1)")
	s2 := strings.Index(content, "Season 2")
	b := strings.Index(content, "B (Season 2, Number 1)")
	require.True(t, s1 >= 0 && a >= 0 && s2 >= 0 && b >= 0, content)
	assert.True(t, s1 < a && a < s2 && s2 < b, content)

	assert.Equal(t, []string{"seasons:1", "episodes:10", "episodes:20"}, h.cat.calls)
}

func TestShowEpisodes_FailureLeavesRegionUntouched(t *testing.T) {
	h := newHarness()
	h.cat.seasons[1] = []catalog.Season{{ID: 10, Number: 1}}
	h.cat.err = &tvmaze.MalformedResponseError{Entity: "episode", Field: "id"}

	err := h.ctrl.ShowEpisodes(context.Background(), 1)

	require.ErrorIs(t, err, tvmaze.ErrMalformedResponse)
	assert.Empty(t, h.episodes.Content())
	assert.False(t, h.episodes.Visible())
}

func TestShowEpisodes_StaleChainIsDropped(t *testing.T) {
	h := newHarness()
	h.cat.seasons[1] = []catalog.Season{{ID: 10, Number: 1}}
	h.cat.seasons[2] = []catalog.Season{{ID: 20, Number: 1}}
	h.cat.episodes[10] = []catalog.Episode{{ID: 100, Name: "First show", Season: 1, Number: 1}}
	h.cat.episodes[20] = []catalog.Episode{{ID: 200, Name: "Second show", Season: 1, Number: 1}}

	gate := make(chan struct{})
	h.cat.gates["seasons:1"] = gate

	done := make(chan error, 1)
	go func() { done <- h.ctrl.ShowEpisodes(context.Background(), 1) }()

	// Wait until the first chain is blocked inside the catalog.
	waitForCall(t, h.cat, "seasons:1")

	require.NoError(t, h.ctrl.ShowEpisodes(context.Background(), 2))
	close(gate)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Contains(t, h.episodes.Content(), "Second show")
	assert.NotContains(t, h.episodes.Content(), "First show")
}

func TestSearch_StaleSearchDoesNotHideNewerEpisodes(t *testing.T) {
	h := newHarness()
	h.cat.shows["girls"] = []catalog.Show{{ID: 139, Name: "Girls", Image: catalog.DefaultImageURL}}
	h.cat.seasons[139] = []catalog.Season{{ID: 10, Number: 1}}
	h.cat.episodes[10] = []catalog.Episode{{ID: 100, Name: "Pilot", Season: 1, Number: 1}}

	gate := make(chan struct{})
	h.cat.gates["search:girls"] = gate

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Search(context.Background(), "girls") }()
	waitForCall(t, h.cat, "search:girls")

	require.NoError(t, h.ctrl.ShowEpisodes(context.Background(), 139))
	close(gate)

	require.NoError(t, <-done)
	assert.True(t, h.episodes.Visible())
	assert.Contains(t, h.shows.Content(), "Girls")
}

func TestSearch_NewSearchDropsOlderEpisodes(t *testing.T) {
	h := newHarness()
	h.cat.shows["girls"] = []catalog.Show{{ID: 139, Name: "Girls", Image: catalog.DefaultImageURL}}
	h.cat.seasons[139] = []catalog.Season{{ID: 10, Number: 1}}
	h.cat.episodes[10] = []catalog.Episode{{ID: 100, Name: "Pilot", Season: 1, Number: 1}}

	gate := make(chan struct{})
	h.cat.gates["seasons:139"] = gate

	done := make(chan error, 1)
	go func() { done <- h.ctrl.ShowEpisodes(context.Background(), 139) }()
	waitForCall(t, h.cat, "seasons:139")

	require.NoError(t, h.ctrl.Search(context.Background(), "girls"))
	close(gate)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.False(t, h.episodes.Visible())
	assert.Empty(t, h.episodes.Content())
}

func TestSearch_OlderSearchDoesNotOverwriteNewer(t *testing.T) {
	h := newHarness()
	h.cat.shows["old"] = []catalog.Show{{ID: 1, Name: "Old Show", Image: catalog.DefaultImageURL}}
	h.cat.shows["new"] = []catalog.Show{{ID: 2, Name: "New Show", Image: catalog.DefaultImageURL}}

	gate := make(chan struct{})
	h.cat.gates["search:old"] = gate

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Search(context.Background(), "old") }()
	waitForCall(t, h.cat, "search:old")

	require.NoError(t, h.ctrl.Search(context.Background(), "new"))
	close(gate)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Contains(t, h.shows.Content(), "New Show")
}

func waitForCall(t *testing.T, f *fakeCatalog, key string) {
	t.Helper()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, c := range f.calls {
			if c == key {
				return true
			}
		}
		return false
	}, defaultWait, pollEvery)
}
