package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type bot interface {
	PickCell(board entity.Board) (int, error)
}

// GameController owns one game and the running score. It is not safe for
// concurrent use; callers serialize access.
type GameController struct {
	game  *entity.Game
	score entity.Score
	bot   bot
}

func NewGameController(score entity.Score, aiEnabled bool, bot bot) *GameController {
	return &GameController{
		game:  entity.NewGame(aiEnabled),
		score: score,
		bot:   bot,
	}
}

// ApplyMove places the current player's mark on cell and evaluates the outcome.
// A rejected move leaves the game untouched.
func (that *GameController) ApplyMove(cell int) (entity.MoveResult, error) {
	if err := that.validateMove(cell); err != nil {
		return entity.MoveResult{Outcome: entity.OutcomeRejected, Cell: cell}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	player := that.game.Turn
	that.game.Board[cell] = player

	return that.updateGameStatus(cell, player), nil
}

// RequestAIMove lets the bot play O's turn.
func (that *GameController) RequestAIMove() (entity.MoveResult, error) {
	rejected := entity.MoveResult{Outcome: entity.OutcomeRejected, Cell: -1}

	switch {
	case that.game.IsFinished():
		return rejected, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	case !that.game.AIEnabled || that.game.Turn != entity.PlayerO:
		return rejected, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	cell, err := that.bot.PickCell(that.game.Board)
	if err != nil {
		return rejected, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	return that.ApplyMove(cell)
}

// Reset starts a fresh game. Score and the AI switch survive.
func (that *GameController) Reset() {
	that.game = entity.NewGame(that.game.AIEnabled)
}

func (that *GameController) SetAIEnabled(enabled bool) {
	that.game.AIEnabled = enabled
}

// Game returns a copy of the current game.
func (that *GameController) Game() *entity.Game {
	return that.game.Clone()
}

func (that *GameController) Score() entity.Score {
	return that.score
}

// validateMove - checks if the move is valid.
func (that *GameController) validateMove(cell int) error {
	if that.game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !entity.ValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - win check, then tie check, then hand the turn over.
func (that *GameController) updateGameStatus(cell int, player entity.Mark) entity.MoveResult {
	if line := that.game.Board.WinningCells(player); len(line) > 0 {
		that.game.Status = entity.StatusFinished
		that.game.Winner = player
		that.game.WinningLine = line

		return entity.MoveResult{
			Outcome:      entity.OutcomeWin,
			Cell:         cell,
			Player:       player,
			Line:         append([]int(nil), line...),
			ScoreChanged: that.score.Increment(player),
		}
	}

	if that.game.Board.IsFull() {
		that.game.Status = entity.StatusFinished
		that.game.Winner = entity.PlayerTie

		return entity.MoveResult{
			Outcome: entity.OutcomeTie,
			Cell:    cell,
			Player:  player,
		}
	}

	that.game.Turn = player.Opponent()

	return entity.MoveResult{
		Outcome: entity.OutcomeContinue,
		Cell:    cell,
		Player:  player,
		Next:    that.game.Turn,
	}
}
