package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/academix-cli/internal/application"
	"github.com/bnema/academix-cli/internal/domain"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.styles
	sections := []string{
		m.headerView(),
		s.section.Render(m.statsView()),
		s.section.Render(m.carouselView()),
		s.section.Render(m.searchView()),
	}
	if toasts := m.notificationsView(); toasts != "" {
		sections = append(sections, s.section.Render(toasts))
	}
	sections = append(sections, s.section.Render(s.help.Render("enter: add  ctrl+d: dismiss  ctrl+p: pause/resume  ctrl+n: next feature  esc: quit")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	s := m.styles
	parts := []string{s.brand.Render("Academix")}

	if m.core.Affordance() == domain.AffordanceAuthenticated {
		label := "Watchlist"
		if n, ok := m.core.WatchlistBadge(); ok {
			label += " " + s.badge.Render(fmt.Sprintf("(%d)", n))
		}
		parts = append(parts, "  ", s.header.Render(m.core.Identity().User.Name), "  ", label)
	} else {
		parts = append(parts, "  ", s.header.Render("Sign in to sync your watchlist"))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if m.tooltip {
		header = lipgloss.JoinVertical(lipgloss.Left, header, s.tooltip.Render("Need help? Start typing a journal name."))
	}
	return header
}

func (m Model) statsView() string {
	s := m.styles
	parts := make([]string, 0, len(m.stats))
	for _, stat := range m.stats {
		parts = append(parts, fmt.Sprintf("%s %s", s.stat.Render(formatStat(stat)), s.statName.Render(stat.Name)))
	}
	return strings.Join(parts, "   ")
}

func formatStat(stat application.StatValue) string {
	if stat.Name == "success" {
		return fmt.Sprintf("%d%%", stat.Value)
	}
	if stat.Target >= 1000 {
		return fmt.Sprintf("%d+", stat.Value)
	}
	return fmt.Sprintf("%d", stat.Value)
}

func (m Model) carouselView() string {
	s := m.styles
	f := features[clampCursor(m.feature, len(features))]
	t := testimonials[clampCursor(m.testimonial, len(testimonials))]

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", s.feature.Render(f.Title), s.header.Render(dots(m.feature, len(features)))),
		s.result.Render(f.Description),
		s.quote.Render(fmt.Sprintf("%q", t.Quote)),
		s.header.Render(fmt.Sprintf("%s, %s %s", t.Name, t.Role, dots(m.testimonial, len(testimonials)))),
	)
}

func dots(active, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i == active {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}

func (m Model) searchView() string {
	s := m.styles
	lines := []string{m.input.View()}

	switch m.search.Status {
	case application.SearchDebouncing, application.SearchLoading:
		lines = append(lines, fmt.Sprintf("%s searching...", m.spinner.View()))
	case application.SearchFailed:
		lines = append(lines, s.failure.Render("Search failed. Retype to try again."))
	case application.SearchReady:
		if len(m.search.Results) == 0 {
			lines = append(lines, s.empty.Render("No journals match."))
		}
	}

	for i, match := range m.search.Results {
		prefix := "  "
		line := s.result.Render(match.Label)
		if i == m.cursor {
			prefix = s.cursor.Render("› ")
			line = s.cursor.Render(match.Label)
		}
		if category := match.Metadata["category"]; category != "" {
			line += " " + s.header.Render(category)
		}
		if m.core.Watchlist().Has(match.ID) {
			line += " " + s.saved.Render("[saved]")
		}
		lines = append(lines, prefix+line)
	}

	if m.lastErr != nil {
		lines = append(lines, s.failure.Render(m.lastErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) notificationsView() string {
	s := m.styles
	if len(m.notifications.Visible) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.notifications.Visible)+1)
	for _, n := range m.notifications.Visible {
		style, ok := s.toast[n.Kind]
		if !ok {
			style = s.toast[domain.NotificationInfo]
		}
		line := style.Render(n.Title)
		if n.Message != "" {
			line += " " + s.header.Render(n.Message)
		}
		if n.Paused() {
			line += " " + s.header.Render("(paused)")
		}
		lines = append(lines, line)
	}
	if pending := len(m.notifications.Pending); pending > 0 {
		lines = append(lines, s.header.Render(fmt.Sprintf("+%d more", pending)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
