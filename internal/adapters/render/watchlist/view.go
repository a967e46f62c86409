package watchlist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/academix-cli/internal/domain"
)

const (
	impactBarWidth = 20
	impactScale    = 100.0
)

type RenderOptions struct {
	Theme domain.Theme
}

// RenderWatchlist renders saved journals in insertion order.
func RenderWatchlist(items []domain.WatchlistItem, opts RenderOptions) (string, error) {
	return run(opts, func(s styles) string {
		return watchlistView(items, s)
	})
}

// RenderMatches renders search results, marking the ones already saved.
func RenderMatches(query string, matches []domain.Match, saved func(domain.ItemID) bool, opts RenderOptions) (string, error) {
	return run(opts, func(s styles) string {
		return matchesView(query, matches, saved, s)
	})
}

// RenderCatalog renders the full journal catalog.
func RenderCatalog(journals []domain.Journal, opts RenderOptions) (string, error) {
	return run(opts, func(s styles) string {
		return catalogView(journals, s)
	})
}

func catalogView(journals []domain.Journal, s styles) string {
	lines := []string{
		s.title.Render("Catalog"),
		s.header.Render(fmt.Sprintf("journals: %d", len(journals))),
	}

	for _, journal := range journals {
		m := journal.Match()
		lines = append(lines, journalLine(m.ID, m.Label, m.Metadata, "", s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func watchlistView(items []domain.WatchlistItem, s styles) string {
	lines := []string{
		s.title.Render("Watchlist"),
		s.header.Render(fmt.Sprintf("journals: %d", len(items))),
	}

	if len(items) == 0 {
		lines = append(lines, s.empty.Render("Your watchlist is empty."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, item := range items {
		lines = append(lines, journalLine(item.ID, item.Name, item.Metadata, "", s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func matchesView(query string, matches []domain.Match, saved func(domain.ItemID) bool, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Results for %q", query)),
		s.header.Render(fmt.Sprintf("matches: %d", len(matches))),
	}

	if len(matches) == 0 {
		lines = append(lines, s.empty.Render("No journals match."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, m := range matches {
		marker := ""
		if saved != nil && saved(m.ID) {
			marker = s.saved.Render("[saved]")
		}
		lines = append(lines, journalLine(m.ID, m.Label, m.Metadata, marker, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func journalLine(id domain.ItemID, name string, metadata map[string]string, marker string, s styles) string {
	parts := []string{s.item.Render(fmt.Sprintf("%s (%s)", name, id))}
	if category := metadata["category"]; category != "" {
		parts = append(parts, " ", s.detail.Render(category))
	}
	if impact, ok := parseImpact(metadata["impact"]); ok {
		parts = append(parts, " ", renderImpactBar(impact, impactBarWidth, s), " ", s.detail.Render(fmt.Sprintf("IF %.3f", impact)))
	}
	if marker != "" {
		parts = append(parts, " ", marker)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func parseImpact(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func renderImpactBar(impact float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := math.Min(impact, impactScale) / impactScale
	filled := int(math.Round(float64(width) * fraction))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}
