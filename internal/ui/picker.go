package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/unicode/norm"
)

// pickerItem is one selectable line; index is its position in the
// caller's slice, which survives filtering.
type pickerItem struct {
	index int
	text  string
}

func (i pickerItem) Title() string       { return i.text }
func (i pickerItem) Description() string { return "" }

// FilterValue is NFC-normalized so composed input matches decomposed titles.
func (i pickerItem) FilterValue() string { return norm.NFC.String(i.text) }

type pickerModel struct {
	list      list.Model
	chosen    int
	cancelled bool
}

func newPicker(prompt string, items []string) pickerModel {
	listItems := make([]list.Item, len(items))
	for i, text := range items {
		listItems[i] = pickerItem{index: i, text: text}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(listItems, delegate, 80, 20)
	l.Title = prompt
	l.SetShowHelp(false)

	return pickerModel{list: l, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(pickerItem); ok {
				m.chosen = it.index
				return m, tea.Quit
			}
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string { return m.list.View() }

// pick runs an in-terminal list on stderr, used when fzf is not installed.
func pick(prompt string, items []string) (int, error) {
	p := tea.NewProgram(newPicker(prompt, items), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.chosen < 0 {
		return -1, ErrCancelled
	}
	return m.chosen, nil
}
