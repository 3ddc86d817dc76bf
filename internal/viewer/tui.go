package viewer

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"textqa-enrich/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Padding(1, 2)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	paneStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	focusColor = lipgloss.Color("205")
	blurColor  = lipgloss.Color("240")
)

// docItem adapts a row to list.Item
type docItem struct {
	index int
}

func (i docItem) Title() string       { return Title(i.index) }
func (i docItem) Description() string { return "" }
func (i docItem) FilterValue() string { return Title(i.index) }

// Model is the terminal viewer: a document list on the left and the selected row on the right.
type Model struct {
	ds       types.Dataset
	err      error
	list     list.Model
	viewport viewport.Model
	width    int
	height   int

	focusViewport bool
	selected      int
}

// New builds the viewer. A non-nil loadErr is shown instead of the dataset.
func New(ds types.Dataset, loadErr error) Model {
	items := make([]list.Item, DocumentCount(ds))
	for i := range items {
		items[i] = docItem{index: i}
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false

	l := list.New(items, d, 0, 0)
	l.Title = "Documents"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	m := Model{ds: ds, err: loadErr, list: l, viewport: viewport.New(0, 0), selected: -1}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab":
			m.focusViewport = !m.focusViewport
			return m, nil
		}
	}
	if m.err != nil {
		return m, nil
	}

	_, isKey := msg.(tea.KeyMsg)
	var cmd tea.Cmd
	if !isKey || !m.focusViewport {
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !isKey || m.focusViewport {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.sync()
	return m, tea.Batch(cmds...)
}

// sync refreshes the viewport when the list selection changed.
func (m *Model) sync() {
	i := m.list.Index()
	if len(m.list.Items()) == 0 || i == m.selected {
		return
	}
	m.selected = i
	m.viewport.SetContent(m.Content())
	m.viewport.GotoTop()
}

// Selected is the index of the row on display, or -1.
func (m Model) Selected() int { return m.selected }

// Content renders the selected row.
func (m Model) Content() string {
	doc, ok := Build(m.ds, m.selected)
	if !ok {
		return mutedStyle.Render("No documents to show.")
	}
	colWidth := 0
	if m.viewport.Width > 0 {
		colWidth = max(m.viewport.Width/2-1, 10)
	}

	column := func(fields []Field) string {
		blocks := make([]string, 0, len(fields))
		for _, f := range fields {
			block := labelStyle.Render(f.Label) + "\n" + f.Value + "\n"
			if colWidth > 0 {
				block = lipgloss.NewStyle().Width(colWidth).Render(block)
			}
			blocks = append(blocks, block)
		}
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}

	parts := []string{titleStyle.Render(doc.Title), ""}
	left, right := column(doc.Left), column(doc.Right)
	if len(doc.Right) > 0 {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	} else {
		parts = append(parts, left)
	}
	if len(doc.Bottom) > 0 {
		parts = append(parts, column(doc.Bottom))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Could not load dataset: "+m.err.Error()) + "\n" +
			mutedStyle.Render(" q: quit")
	}
	if m.width == 0 {
		return m.Content()
	}

	listWidth := max(m.width/4, 20)
	viewWidth := m.width - listWidth

	listStyle, viewStyle := paneStyle.BorderForeground(focusColor), paneStyle.BorderForeground(blurColor)
	if m.focusViewport {
		listStyle, viewStyle = paneStyle.BorderForeground(blurColor), paneStyle.BorderForeground(focusColor)
	}
	listView := listStyle.Width(listWidth - 4).Render(m.list.View())
	contentView := viewStyle.Width(viewWidth - 4).Render(m.viewport.View())

	main := lipgloss.JoinHorizontal(lipgloss.Top, listView, contentView)
	help := mutedStyle.Render(" ↑/↓: select • tab: focus switch • q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

func (m *Model) setSize(w, h int) {
	m.width, m.height = w, h
	paneH := max(h-3-2, 1)
	listWidth := max(w/4, 20)
	m.list.SetSize(listWidth-4, paneH)
	m.viewport.Width = max(w-listWidth-4, 10)
	m.viewport.Height = paneH
	if m.selected >= 0 {
		m.viewport.SetContent(m.Content())
	}
}

// Run starts the full-screen viewer and blocks until the user quits.
func Run(ds types.Dataset, loadErr error) error {
	_, err := tea.NewProgram(New(ds, loadErr), tea.WithAltScreen()).Run()
	return err
}

// Plain renders row i without styling, for non-interactive output.
func Plain(doc Document) string {
	var b strings.Builder
	b.WriteString(doc.Title + "\n")
	for _, group := range [][]Field{doc.Left, doc.Right, doc.Bottom} {
		for _, f := range group {
			b.WriteString(f.Label + ": " + f.Value + "\n")
		}
	}
	return b.String()
}
