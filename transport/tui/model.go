package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const boardSide = 3

type gameUseCase interface {
	State() entity.Snapshot
	MakeTurn(ctx context.Context, cell int) (entity.MoveResult, entity.Snapshot, error)
	Reset(ctx context.Context) entity.Snapshot
	SetAIEnabled(ctx context.Context, enabled bool) entity.Snapshot
	Subscribe() (string, <-chan entity.Snapshot)
	Unsubscribe(id string)
}

// UpdateMsg carries a snapshot pushed by the game manager.
type UpdateMsg entity.Snapshot

type closedMsg struct{}

// Model is the bubbletea model of the terminal board.
type Model struct {
	ctx  context.Context
	game gameUseCase

	subscription string
	updates      <-chan entity.Snapshot

	state  entity.Snapshot
	cursor int
}

func NewModel(ctx context.Context, game gameUseCase) Model {
	id, updates := game.Subscribe()

	return Model{
		ctx:          ctx,
		game:         game,
		subscription: id,
		updates:      updates,
		state:        game.State(),
		cursor:       entity.BoardSize / 2,
	}
}

// Close stops the subscription.
func (m Model) Close() {
	m.game.Unsubscribe(m.subscription)
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func waitForUpdate(updates <-chan entity.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return UpdateMsg(snapshot)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case UpdateMsg:
		m.state = entity.Snapshot(msg)
		return m, waitForUpdate(m.updates)
	case closedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor >= boardSide {
			m.cursor -= boardSide
		}
	case "down", "j":
		if m.cursor < entity.BoardSize-boardSide {
			m.cursor += boardSide
		}
	case "left", "h":
		if m.cursor%boardSide > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%boardSide < boardSide-1 {
			m.cursor++
		}
	case "enter", " ":
		m.play(m.cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.cursor = int(key[0] - '1')
		m.play(m.cursor)
	case "r":
		m.state = m.game.Reset(m.ctx)
	case "a":
		m.state = m.game.SetAIEnabled(m.ctx, !m.state.Game.AIEnabled)
	}
	return m, nil
}

// play ignores rejected moves; the board simply does not change.
func (m *Model) play(cell int) {
	_, snapshot, err := m.game.MakeTurn(m.ctx, cell)
	if err != nil {
		return
	}
	m.state = snapshot
}
