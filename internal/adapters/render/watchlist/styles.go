package watchlist

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/academix-cli/internal/domain"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	item       lipgloss.Style
	detail     lipgloss.Style
	saved      lipgloss.Style
	empty      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles(theme domain.Theme) styles {
	if theme == domain.ThemeLight {
		return styles{
			title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")),
			header:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
			item:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
			detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			saved:      lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			empty:      lipgloss.NewStyle().Faint(true),
			barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("31")),
			barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		}
	}

	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		item:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		saved:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		empty:      lipgloss.NewStyle().Faint(true),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
