package browse

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/academix-cli/internal/domain"
)

type styles struct {
	brand    lipgloss.Style
	header   lipgloss.Style
	badge    lipgloss.Style
	tooltip  lipgloss.Style
	stat     lipgloss.Style
	statName lipgloss.Style
	feature  lipgloss.Style
	quote    lipgloss.Style
	cursor   lipgloss.Style
	result   lipgloss.Style
	saved    lipgloss.Style
	failure  lipgloss.Style
	empty    lipgloss.Style
	section  lipgloss.Style
	help     lipgloss.Style
	toast    map[domain.NotificationKind]lipgloss.Style
}

func newStyles(theme domain.Theme) styles {
	accent := lipgloss.Color("39")
	text := lipgloss.Color("252")
	muted := lipgloss.Color("241")
	if theme == domain.ThemeLight {
		accent = lipgloss.Color("25")
		text = lipgloss.Color("235")
		muted = lipgloss.Color("245")
	}

	return styles{
		brand:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		header:   lipgloss.NewStyle().Foreground(muted),
		badge:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		tooltip:  lipgloss.NewStyle().Italic(true).Foreground(muted),
		stat:     lipgloss.NewStyle().Bold(true).Foreground(text),
		statName: lipgloss.NewStyle().Foreground(muted),
		feature:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		quote:    lipgloss.NewStyle().Italic(true).Foreground(text),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		result:   lipgloss.NewStyle().Foreground(text),
		saved:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		failure:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:    lipgloss.NewStyle().Faint(true),
		section:  lipgloss.NewStyle().MarginTop(1),
		help:     lipgloss.NewStyle().Faint(true),
		toast: map[domain.NotificationKind]lipgloss.Style{
			domain.NotificationSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			domain.NotificationWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
			domain.NotificationError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			domain.NotificationInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		},
	}
}
