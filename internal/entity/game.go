package entity

import "fmt"

// Mark is the content of a board cell or the identity of a player.
type Mark string

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"

	EmptyCell Mark = ""
)

// BoardSize is the number of cells on the 3x3 board, addressed 0..8 in row-major order.
const BoardSize = 9

// WinCombos are the 3 rows, 3 columns and 2 diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

type Game struct {
	Board       Board  `json:"board"`
	Turn        Mark   `json:"player_turn"`
	Status      string `json:"status"`
	Winner      Mark   `json:"winner"`
	WinningLine []int  `json:"winning_line,omitempty"`
	AIEnabled   bool   `json:"ai_enabled"`
}

func NewGame(aiEnabled bool) *Game {
	return &Game{
		Board:     Board{},
		Turn:      PlayerX,
		Status:    StatusOngoing,
		AIEnabled: aiEnabled,
	}
}

// Opponent returns the other player.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// ValidCell reports whether cell addresses a board position.
func ValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// WinningCells returns every cell of every line whose three cells all hold
// mark, ascending and without duplicates. A fork yields two lines' worth.
func (that Board) WinningCells(mark Mark) []int {
	if !mark.IsPlayer() {
		return nil
	}

	var owned [BoardSize]bool
	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			owned[combo[0]], owned[combo[1]], owned[combo[2]] = true, true, true
		}
	}

	var cells []int
	for cell, ok := range owned {
		if ok {
			cells = append(cells, cell)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// EmptyCells returns the indices of all empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsTie() bool {
	return that.IsFinished() && that.Winner == PlayerTie
}

// StatusMessage is the line shown above the board.
func (that *Game) StatusMessage() string {
	switch {
	case that.IsTie():
		return "It's a tie!"
	case that.IsFinished():
		return fmt.Sprintf("Player %s wins!", that.Winner)
	default:
		return fmt.Sprintf("Player %s's turn", that.Turn)
	}
}

// Highlight returns the cells to mark after the game ends: the winning lines
// after a win, the empty cells after a tie.
func (that *Game) Highlight() []int {
	switch {
	case that.IsTie():
		return that.Board.EmptyCells()
	case that.IsFinished():
		return append([]int(nil), that.WinningLine...)
	default:
		return nil
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (that *Game) Clone() *Game {
	clone := *that
	if that.WinningLine != nil {
		clone.WinningLine = append([]int(nil), that.WinningLine...)
	}
	return &clone
}
