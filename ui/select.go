package ui

import (
	"fmt"
	"strings"

	"curse-modpack/addon"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectModel lets the user pick mods out of search results.
type SelectModel struct {
	mods          []addon.Mod
	installed     map[int]bool
	selected      map[int]bool
	selectedIndex int
	confirmed     bool
	width         int
}

// NewSelect creates the model. Installed mods are shown but cannot be picked.
func NewSelect(mods []addon.Mod, installed func(modID int) bool) SelectModel {
	m := SelectModel{
		mods:      mods,
		installed: make(map[int]bool),
		selected:  make(map[int]bool),
		width:     80,
	}
	for _, mod := range mods {
		if installed != nil && installed(mod.ID) {
			m.installed[mod.ID] = true
		}
	}
	return m
}

func (m SelectModel) Init() tea.Cmd { return nil }

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.selected = map[int]bool{}
			return m, tea.Quit
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
		case "down", "j":
			if m.selectedIndex < len(m.mods)-1 {
				m.selectedIndex++
			}
		case " ":
			if len(m.mods) > 0 {
				id := m.mods[m.selectedIndex].ID
				if !m.installed[id] {
					m.selected[id] = !m.selected[id]
				}
			}
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Chosen returns the picked mods in list order; empty unless confirmed.
func (m SelectModel) Chosen() []addon.Mod {
	if !m.confirmed {
		return nil
	}
	var out []addon.Mod
	for _, mod := range m.mods {
		if m.selected[mod.ID] {
			out = append(out, mod)
		}
	}
	return out
}

func (m SelectModel) View() string {
	if len(m.mods) == 0 {
		return "No mods found. Try refreshing the index with --refresh.\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader())
	b.WriteString("\n")
	for i, mod := range m.mods {
		b.WriteString(m.renderModRow(i, mod))
		b.WriteString("\n")
	}
	b.WriteString("\n" + renderFooter() + "\n")
	return b.String()
}

func renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	return headerStyle.Render(fmt.Sprintf("  %-32s %s", "Mod Name", "Summary"))
}

func renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	return footerStyle.Render("↑/k: up  ↓/j: down  space: select  enter: install  q: cancel")
}

func (m SelectModel) renderModRow(index int, mod addon.Mod) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.
			Background(lipgloss.Color("8")).
			Bold(true)
	}

	indicator := " "
	switch {
	case m.installed[mod.ID]:
		indicator = "-"
	case m.selected[mod.ID]:
		indicator = "✓"
	}

	summaryWidth := max(m.width-40, 10)
	row := fmt.Sprintf("%s %-32s %s",
		indicator,
		truncate(mod.Name, 32),
		truncate(mod.Summary, summaryWidth),
	)
	return rowStyle.Render(row)
}
