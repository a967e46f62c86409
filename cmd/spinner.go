package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/academix-cli/internal/application"
)

type searchProgressMsg struct {
	state application.SearchState
}

// searchProgressModel mirrors a SearchController until it settles.
type searchProgressModel struct {
	spinner  spinner.Model
	start    tea.Cmd
	state    application.SearchState
	revision uint64
	done     bool
}

func newSearchProgressModel(initial application.SearchState, start tea.Cmd) searchProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return searchProgressModel{spinner: s, start: start, state: initial, revision: initial.Revision}
}

func (m searchProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start)
}

func (m searchProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case searchProgressMsg:
		if msg.state.Revision < m.revision {
			return m, nil
		}
		m.state = msg.state
		m.revision = msg.state.Revision
		if settled(msg.state.Status) {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m searchProgressModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), progressLabel(m.state))
}

func settled(status application.SearchStatus) bool {
	return status == application.SearchReady || status == application.SearchFailed
}

func progressLabel(state application.SearchState) string {
	switch state.Status {
	case application.SearchDebouncing:
		return "Waiting for input..."
	case application.SearchLoading:
		return fmt.Sprintf("Searching journals for %q...", state.Query)
	default:
		return "Preparing search..."
	}
}

// searchSummary describes where a settled result came from.
func searchSummary(state application.SearchState) string {
	noun := "journals"
	if len(state.Results) == 1 {
		noun = "journal"
	}

	source := fmt.Sprintf("request #%d", state.AppliedSeq)
	if state.FromCache {
		source = "cached"
	}

	return fmt.Sprintf("Found %d %s for %q (%s)", len(state.Results), noun, state.Query, source)
}

// runSearchProgress feeds query to controller and renders its state on output
// until the result is applied.
func runSearchProgress(ctx context.Context, output io.Writer, controller *application.SearchController, query string) (application.SearchState, error) {
	// The query is submitted from a command so that state updates are only
	// sent once the event loop is running.
	start := func() tea.Msg {
		controller.OnQueryChange(query)
		return nil
	}

	p := tea.NewProgram(
		newSearchProgressModel(controller.State(), start),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	unsubscribe := controller.Subscribe(func(state application.SearchState) {
		p.Send(searchProgressMsg{state: state})
	})
	defer unsubscribe()

	finalModel, err := p.Run()
	if err != nil {
		return application.SearchState{}, err
	}

	result, ok := finalModel.(searchProgressModel)
	if !ok {
		return application.SearchState{}, fmt.Errorf("unexpected final progress model type %T", finalModel)
	}
	if result.state.Status == application.SearchFailed {
		return result.state, result.state.Err
	}

	return result.state, nil
}
