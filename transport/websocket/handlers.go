package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
)

func (that *Server) handleGameState(_ context.Context, _ *Message, client *client) error {
	message, err := newMessage(actionGameState, that.game.State())
	if err != nil {
		return err
	}

	client.reply(message)

	return nil
}

// handleGameTurn relays the move. Every subscriber, the sender included, gets
// the new state as game:update; a rejected move is dropped silently.
func (that *Server) handleGameTurn(ctx context.Context, msg *Message, _ *client) error {
	var payload TurnPayload
	if err := decodePayload(msg, &payload); err != nil {
		return err
	}

	if payload.Cell == nil {
		return errors.New("cell is required")
	}

	_, _, err := that.game.MakeTurn(ctx, *payload.Cell)
	if errors.Is(err, apperror.ErrInvalidMove) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, _ *Message, _ *client) error {
	that.game.Reset(ctx)
	return nil
}

func (that *Server) handleGameAI(ctx context.Context, msg *Message, _ *client) error {
	var payload AIPayload
	if err := decodePayload(msg, &payload); err != nil {
		return err
	}

	if payload.Enabled == nil {
		return errors.New("enabled is required")
	}

	that.game.SetAIEnabled(ctx, *payload.Enabled)

	return nil
}

func (that *Server) sendError(client *client, action, errorMsg string) {
	message, err := newMessage(actionError, ErrorPayload{Action: action, Error: errorMsg})
	if err != nil {
		that.logger.Error("failed to build error response", "error", err)
		return
	}

	client.reply(message)
}
