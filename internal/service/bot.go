package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

// Chooser picks one of the candidate cells. Candidates is never empty.
type Chooser func(candidates []int) int

// RandomChooser picks a candidate uniformly at random.
func RandomChooser(candidates []int) int {
	return candidates[rand.IntN(len(candidates))] //nolint: gosec // it's ok
}

type BotService interface {
	PickCell(board entity.Board) (int, error)
}

type botService struct {
	choose Chooser
}

// NewBotService returns the computer opponent. It looks at nothing but the
// set of empty cells: no lookahead, no blocking, no winning moves.
func NewBotService(choose Chooser) BotService {
	if choose == nil {
		choose = RandomChooser
	}

	return &botService{
		choose: choose,
	}
}

func (that *botService) PickCell(board entity.Board) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	cell := that.choose(availableCells)
	if !isCandidate(availableCells, cell) {
		return 0, fmt.Errorf("%w: chooser returned cell %d", apperror.ErrInvalidCell, cell)
	}

	return cell, nil
}

func isCandidate(candidates []int, cell int) bool {
	for _, candidate := range candidates {
		if candidate == cell {
			return true
		}
	}
	return false
}
