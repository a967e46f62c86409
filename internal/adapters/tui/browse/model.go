package browse

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/academix-cli/internal/application"
	"github.com/bnema/academix-cli/internal/domain"
)

const frameInterval = time.Second / 30

type searchStateMsg application.SearchState

type notificationsMsg application.NotificationSnapshot

type watchlistMsg application.WatchlistEvent

type rotationMsg struct {
	carousel string
	state    domain.RotationState
}

type frameMsg struct{}

type addDoneMsg struct {
	item  domain.WatchlistItem
	added bool
	err   error
}

const (
	carouselFeatures     = "features"
	carouselTestimonials = "testimonials"
)

// Model is the interactive browse surface. It only reads core state and
// calls core operations; every change arrives back as a message.
type Model struct {
	ctx    context.Context
	core   *application.Core
	styles styles

	input   textinput.Model
	spinner spinner.Model

	search        application.SearchState
	notifications application.NotificationSnapshot
	feature       int
	testimonial   int
	stats         []application.StatValue
	tooltip       bool
	cursor        int
	lastErr       error
	quitting      bool
}

func New(ctx context.Context, core *application.Core) Model {
	input := textinput.New()
	input.Placeholder = "Search journals"
	input.Prompt = "> "
	input.CharLimit = 120
	input.Focus()

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		ctx:           ctx,
		core:          core,
		styles:        newStyles(core.Theme()),
		input:         input,
		spinner:       s,
		search:        core.Search().State(),
		notifications: core.Notifications().Snapshot(),
		feature:       core.Features().Index(),
		testimonial:   core.Testimonials().Index(),
		stats:         core.Stats(),
		tooltip:       core.TooltipVisible(),
	}
}

// Bind forwards core events to send, usually tea.Program.Send. The returned
// function removes every subscription.
func Bind(core *application.Core, send func(tea.Msg)) func() {
	unsubs := []func(){
		core.Search().Subscribe(func(s application.SearchState) { send(searchStateMsg(s)) }),
		core.Notifications().Subscribe(func(s application.NotificationSnapshot) { send(notificationsMsg(s)) }),
		core.Watchlist().Subscribe(func(e application.WatchlistEvent) { send(watchlistMsg(e)) }),
		core.Features().Subscribe(func(s domain.RotationState) {
			send(rotationMsg{carousel: carouselFeatures, state: s})
		}),
		core.Testimonials().Subscribe(func(s domain.RotationState) {
			send(rotationMsg{carousel: carouselTestimonials, state: s})
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, frameTick())
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case searchStateMsg:
		if msg.Revision >= m.search.Revision {
			m.search = application.SearchState(msg)
			m.cursor = clampCursor(m.cursor, len(m.search.Results))
		}
		return m, nil
	case notificationsMsg:
		if msg.Revision >= m.notifications.Revision {
			m.notifications = application.NotificationSnapshot(msg)
		}
		return m, nil
	case watchlistMsg:
		// Has and the badge are read from the store on render.
		return m, nil
	case rotationMsg:
		if msg.carousel == carouselFeatures {
			m.feature = msg.state.Index
		} else {
			m.testimonial = msg.state.Index
		}
		return m, nil
	case addDoneMsg:
		m.lastErr = msg.err
		return m, nil
	case frameMsg:
		m.stats = m.core.Stats()
		m.tooltip = m.core.TooltipVisible()
		if m.animating() {
			return m, frameTick()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyUp:
		m.cursor = clampCursor(m.cursor-1, len(m.search.Results))
		return m, nil
	case tea.KeyDown:
		m.cursor = clampCursor(m.cursor+1, len(m.search.Results))
		return m, nil
	case tea.KeyEnter:
		return m, m.addSelected()
	case tea.KeyCtrlD:
		if top, ok := m.topNotification(); ok {
			m.core.Notifications().Dismiss(top.ID)
		}
		return m, nil
	case tea.KeyCtrlP:
		if top, ok := m.topNotification(); ok {
			if top.Paused() {
				m.core.Notifications().Resume(top.ID)
			} else {
				m.core.Notifications().Pause(top.ID)
			}
		}
		return m, nil
	case tea.KeyCtrlN:
		next := (m.feature + 1) % FeatureCount()
		if err := m.core.Features().Select(next); err == nil {
			m.feature = next
		}
		return m, nil
	case tea.KeyCtrlT:
		m.core.HideTooltip()
		m.tooltip = false
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.core.Search().OnQueryChange(value)
	}
	return m, cmd
}

func (m Model) addSelected() tea.Cmd {
	if len(m.search.Results) == 0 {
		return nil
	}
	item := m.search.Results[clampCursor(m.cursor, len(m.search.Results))].Item()
	core := m.core
	ctx := m.ctx

	return func() tea.Msg {
		added, err := core.AddToWatchlist(ctx, item)
		return addDoneMsg{item: item, added: added, err: err}
	}
}

func (m Model) topNotification() (domain.Notification, bool) {
	if len(m.notifications.Visible) == 0 {
		return domain.Notification{}, false
	}
	return m.notifications.Visible[0], true
}

func (m Model) animating() bool {
	if m.tooltip {
		return true
	}
	for _, stat := range m.stats {
		if !stat.Done {
			return true
		}
	}
	return false
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
