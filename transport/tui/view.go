package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	xStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	oStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	winStyle    = lipgloss.NewStyle().Background(lipgloss.Color("28"))
	tieStyle    = lipgloss.NewStyle().Background(lipgloss.Color("136"))
	statusStyle = lipgloss.NewStyle().MarginTop(1).Bold(true)
	helpStyle   = lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("241"))
)

const help = "arrows/hjkl move • 1-9/enter play • r reset • a computer • q quit"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Tic-Tac-Toe   X: %d   O: %d", m.state.Score.X, m.state.Score.O)))
	b.WriteString("\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.state.Message))
	b.WriteString("\n")
	b.WriteString("Computer opponent: " + onOff(m.state.Game.AIEnabled))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderBoard() string {
	rows := make([]string, 0, boardSide)

	for row := range boardSide {
		cells := make([]string, 0, boardSide)
		for col := range boardSide {
			cells = append(cells, m.renderCell(row*boardSide+col))
		}
		rows = append(rows, strings.Join(cells, "│"))
	}

	return strings.Join(rows, "\n───┼───┼───\n")
}

func (m Model) renderCell(cell int) string {
	var text string

	switch mark := m.state.Game.Board[cell]; mark {
	case entity.PlayerX:
		text = xStyle.Render(" X ")
	case entity.PlayerO:
		text = oStyle.Render(" O ")
	default:
		text = emptyStyle.Render(" " + strconv.Itoa(cell+1) + " ")
	}

	switch {
	case cell == m.cursor && m.state.Game.IsOngoing():
		return cursorStyle.Render(text)
	case slices.Contains(m.state.Highlight, cell) && m.state.Game.IsTie():
		return tieStyle.Render(text)
	case slices.Contains(m.state.Highlight, cell):
		return winStyle.Render(text)
	default:
		return text
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
