package browse

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogtoml "github.com/bnema/academix-cli/internal/adapters/catalog/toml"
	"github.com/bnema/academix-cli/internal/application"
	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/testutil"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, identity domain.Identity) (Model, *application.Core, *testutil.ManualClock) {
	t.Helper()

	catalog, err := catalogtoml.NewCatalog(filepath.Join(t.TempDir(), "catalog.toml"))
	require.NoError(t, err)

	clock := testutil.NewManualClock(testStart)
	cfg := application.DefaultCoreConfig()
	cfg.Identity = identity
	cfg.FeatureCount = FeatureCount()
	cfg.TestimonialCount = TestimonialCount()
	core, err := application.NewCore(context.Background(), application.CoreDeps{
		Endpoint:  catalog,
		Snapshots: testutil.NewMemoryStore(),
		Clock:     clock,
	}, cfg)
	require.NoError(t, err)
	t.Cleanup(core.Close)

	return New(context.Background(), core), core, clock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func searchSettled(t *testing.T, m Model, core *application.Core, clock *testutil.ManualClock) Model {
	t.Helper()

	clock.Advance(application.DefaultSearchDebounce)
	require.Eventually(t, func() bool {
		return core.Search().State().Status == application.SearchReady
	}, 2*time.Second, 5*time.Millisecond)

	m, _ = update(t, m, searchStateMsg(core.Search().State()))
	return m
}

func TestModelTypingSearchesAndRendersResults(t *testing.T) {
	t.Parallel()

	m, core, clock := newTestModel(t, domain.Identity{})

	m = typeText(t, m, "sci")
	assert.Equal(t, "sci", core.Search().Query())
	assert.Equal(t, application.SearchDebouncing, core.Search().State().Status)

	m = searchSettled(t, m, core, clock)
	view := m.View()
	assert.Contains(t, view, "Science")
	assert.Contains(t, view, "Science Advances")
	assert.Contains(t, view, "Nature")
	assert.Contains(t, view, "Sign in to sync your watchlist")
}

func TestModelIgnoresOlderSearchState(t *testing.T) {
	t.Parallel()

	m, core, clock := newTestModel(t, domain.Identity{})
	m = typeText(t, m, "cell")
	m = searchSettled(t, m, core, clock)
	require.Len(t, m.search.Results, 1)

	stale := m.search
	stale.Revision--
	stale.Results = nil
	m, _ = update(t, m, searchStateMsg(stale))
	assert.Len(t, m.search.Results, 1)
}

func TestModelEnterAddsSelectedMatch(t *testing.T) {
	t.Parallel()

	m, core, clock := newTestModel(t, domain.Identity{User: &domain.User{ID: "u1", Name: "Ada"}})
	m = typeText(t, m, "sci")
	m = searchSettled(t, m, core, clock)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(addDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.True(t, done.added)
	assert.Equal(t, domain.ItemID("6"), done.item.ID)

	m, _ = update(t, m, msg)
	m, _ = update(t, m, notificationsMsg(core.Notifications().Snapshot()))
	view := m.View()
	assert.True(t, core.Watchlist().Has("6"))
	assert.Contains(t, view, "[saved]")
	assert.Contains(t, view, "(1)")
	assert.Contains(t, view, "Science Advances added to watchlist")
}

func TestModelCursorStaysInRange(t *testing.T) {
	t.Parallel()

	m, core, clock := newTestModel(t, domain.Identity{})
	m = typeText(t, m, "cell")
	m = searchSettled(t, m, core, clock)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.cursor)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestModelNotificationKeys(t *testing.T) {
	t.Parallel()

	m, core, _ := newTestModel(t, domain.Identity{})
	_, err := core.AddToWatchlist(context.Background(), domain.WatchlistItem{ID: "1", Name: "Nature"})
	require.NoError(t, err)
	m, _ = update(t, m, notificationsMsg(core.Notifications().Snapshot()))
	require.Len(t, m.notifications.Visible, 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = update(t, m, notificationsMsg(core.Notifications().Snapshot()))
	require.Len(t, m.notifications.Visible, 1)
	assert.True(t, m.notifications.Visible[0].Paused())
	assert.Contains(t, m.View(), "(paused)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = update(t, m, notificationsMsg(core.Notifications().Snapshot()))
	assert.False(t, m.notifications.Visible[0].Paused())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m, _ = update(t, m, notificationsMsg(core.Notifications().Snapshot()))
	assert.Empty(t, m.notifications.Visible)
	assert.NotContains(t, m.View(), "Nature added to watchlist")
}

func TestModelRotationMessages(t *testing.T) {
	t.Parallel()

	m, core, clock := newTestModel(t, domain.Identity{})
	assert.Contains(t, m.View(), features[0].Title)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, 1, core.Features().Index())
	assert.Contains(t, m.View(), features[1].Title)

	clock.Advance(application.DefaultTestimonialInterval)
	m, _ = update(t, m, rotationMsg{carousel: carouselTestimonials, state: core.Testimonials().State()})
	assert.Contains(t, m.View(), testimonials[1].Name)
}

func TestModelFrameRefreshesStatsAndTooltip(t *testing.T) {
	t.Parallel()

	m, _, clock := newTestModel(t, domain.Identity{})
	assert.True(t, m.tooltip)

	clock.Advance(application.DefaultTooltipDelay)
	m, cmd := update(t, m, frameMsg{})
	assert.False(t, m.tooltip)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "50000+")
	assert.Contains(t, m.View(), "98%")
}

func TestBindForwardsCoreEvents(t *testing.T) {
	t.Parallel()

	_, core, _ := newTestModel(t, domain.Identity{})
	msgs := make(chan tea.Msg, 16)
	unbind := Bind(core, func(msg tea.Msg) { msgs <- msg })

	_, err := core.AddToWatchlist(context.Background(), domain.WatchlistItem{ID: "1", Name: "Nature"})
	require.NoError(t, err)

	var sawWatchlist, sawNotifications bool
	for len(msgs) > 0 {
		switch (<-msgs).(type) {
		case watchlistMsg:
			sawWatchlist = true
		case notificationsMsg:
			sawNotifications = true
		}
	}
	assert.True(t, sawWatchlist)
	assert.True(t, sawNotifications)

	unbind()
	_, err = core.AddToWatchlist(context.Background(), domain.WatchlistItem{ID: "2", Name: "Science"})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestModelEscQuits(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, domain.Identity{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
