package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title          lipgloss.Style
	subtitle       lipgloss.Style
	userLabel      lipgloss.Style
	assistantLabel lipgloss.Style
	body           lipgloss.Style
	sidebarTitle   lipgloss.Style
	sidebarItem    lipgloss.Style
	sidebarIndex   lipgloss.Style
	empty          lipgloss.Style
	notice         lipgloss.Style
	failure        lipgloss.Style
	section        lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:          lipgloss.NewStyle().Bold(true),
		subtitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		userLabel:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		assistantLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		body:           lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
		sidebarTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		sidebarItem:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		sidebarIndex:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		empty:          lipgloss.NewStyle().Faint(true),
		notice:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		failure:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:        lipgloss.NewStyle().MarginTop(1),
	}
}
