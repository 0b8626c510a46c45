package runs

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kekayan/runs-cli/internal/domain"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	repo    lipgloss.Style
	detail  lipgloss.Style
	warning lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	sha     lipgloss.Style
	when    lipgloss.Style
	status  map[domain.ColorTag]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		repo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		sha:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		when:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		status: map[domain.ColorTag]lipgloss.Style{
			domain.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			domain.ColorRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			domain.ColorGray:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			domain.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
			domain.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			domain.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		},
	}
}

func (s styles) statusStyle(tag domain.ColorTag) lipgloss.Style {
	if style, ok := s.status[tag]; ok {
		return style
	}
	return s.detail
}
