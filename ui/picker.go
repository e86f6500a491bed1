// Package ui holds the interactive interface picker shown when capture is
// started without --interface on a terminal.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shakedown/shakedown/internal/iface"
)

// PickInterface shows a selection list over the discovered interfaces and
// returns the chosen one. Returns an error if the user cancels.
func PickInterface(ifaces []iface.WirelessInterface) (*iface.WirelessInterface, error) {
	if len(ifaces) == 0 {
		return nil, fmt.Errorf("no wireless interfaces to pick from")
	}

	m := pickerModel{ifaces: ifaces}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}

	picked := final.(pickerModel)
	if picked.cancelled {
		return nil, fmt.Errorf("interface selection cancelled")
	}
	return &picked.ifaces[picked.cursor], nil
}

type pickerModel struct {
	ifaces    []iface.WirelessInterface
	cursor    int
	done      bool
	cancelled bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.ifaces)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

func (m pickerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	s := titleStyle.Render("Select wireless interface") + "\n\n"
	for i, w := range m.ifaces {
		row := w.String()
		if i == m.cursor {
			s += selectedRowStyle.Render("> "+row) + "\n"
		} else {
			s += normalRowStyle.Render(row) + "\n"
		}
	}
	s += "\n" + hintStyle.Render("↑/↓ move · enter select · q cancel") + "\n"
	return s
}
