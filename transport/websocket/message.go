package websocket

import (
	"encoding/json"
	"fmt"
)

const (
	actionGameState  = "game:state"
	actionGameTurn   = "game:turn"
	actionGameReset  = "game:reset"
	actionGameAI     = "game:ai"
	actionGameUpdate = "game:update"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Cell *int `json:"cell"`
}

type AIPayload struct {
	Enabled *bool `json:"enabled"`
}

type ErrorPayload struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}

func newMessage(action string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return Message{Action: action, Payload: raw}, nil
}

func decodePayload(msg *Message, dst any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: payload is required", msg.Action)
	}

	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("%s: failed to unmarshal payload: %w", msg.Action, err)
	}

	return nil
}
