package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const menuHeight = 16

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

// slashCommands feeds both the popup menu and /help.
var slashCommands = []item{
	{title: "/help", desc: "Show commands and shortcuts"},
	{title: "/keywords", desc: "Most frequent words shoppers used"},
	{title: "/dislikes", desc: "Products you told me you dislike"},
	{title: "/export", desc: "Save the chat transcript to a file"},
	{title: "/clear", desc: "Clear the screen"},
	{title: "/quit", desc: "Exit"},
}

type MenuModel struct {
	list   list.Model
	active bool
}

func NewMenuModel() MenuModel {
	items := make([]list.Item, len(slashCommands))
	for i, c := range slashCommands {
		items[i] = c
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Green).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Green).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(DimGreen)

	l := list.New(items, d, 40, menuHeight-2)
	l.Title = "Commands"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(Green).Bold(true).MarginLeft(2)

	return MenuModel{list: l}
}

func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the highlighted command, or "" when the filter hides all.
func (m MenuModel) Selected() string {
	if it, ok := m.list.SelectedItem().(item); ok {
		return it.title
	}
	return ""
}

func (m MenuModel) View() string {
	if !m.active {
		return ""
	}
	return MenuBoxStyle.Render(m.list.View())
}
