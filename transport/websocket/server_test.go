package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-local/internal/service"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
)

const readTimeout = 2 * time.Second

func newTestServer(t *testing.T) (*httptest.Server, *usecase.GameManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(
		context.Background(),
		logger,
		repository.NewScoreRepository(storage.NewMemoryStorage()),
		scheduler.New(),
		service.NewBotService(nil),
		usecase.Options{},
	)
	t.Cleanup(manager.Close)

	server := httptest.NewServer(New(logger, manager).Handler())
	t.Cleanup(server.Close)

	return server, manager
}

func dial(t *testing.T, server *httptest.Server) (*websocket.Conn, *http.Response) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// the first reply proves the connection is subscribed to updates
	send(t, conn, actionGameState, nil)
	require.Equal(t, actionGameState, read(t, conn).Action)

	return conn, resp
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	message := Message{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		message.Payload = raw
	}

	require.NoError(t, conn.WriteJSON(message))
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	return message
}

func readSnapshot(t *testing.T, conn *websocket.Conn, action string) entity.Snapshot {
	t.Helper()

	message := read(t, conn)
	require.Equal(t, action, message.Action)

	var snapshot entity.Snapshot
	require.NoError(t, json.Unmarshal(message.Payload, &snapshot))

	return snapshot
}

func readError(t *testing.T, conn *websocket.Conn) ErrorPayload {
	t.Helper()

	message := read(t, conn)
	require.Equal(t, actionError, message.Action)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return payload
}

func TestUpgrade_SetsSessionCookie(t *testing.T) {
	server, _ := newTestServer(t)

	_, resp := dial(t, server)

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie {
			session = cookie
		}
	}

	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
}

func TestUpgrade_RejectsForeignOrigin(t *testing.T) {
	server, _ := newTestServer(t)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSameHostname(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{name: "No origin", host: "localhost:7777", want: true},
		{name: "Page port differs", host: "localhost:7777", origin: "http://localhost:9090", want: true},
		{name: "Host without port", host: "localhost", origin: "http://localhost:9090", want: true},
		{name: "IPv6 with port", host: "[::1]:7777", origin: "http://[::1]:9090", want: true},
		{name: "IPv6 without port", host: "[::1]", origin: "http://[::1]:9090", want: true},
		{name: "Foreign host", host: "localhost:7777", origin: "http://evil.example", want: false},
		{name: "Broken origin", host: "localhost:7777", origin: "http://%zz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.want, sameHostname(req))
		})
	}
}

func TestGameState(t *testing.T) {
	// Given: X already played the corner
	server, manager := newTestServer(t)
	_, _, err := manager.MakeTurn(context.Background(), 0)
	require.NoError(t, err)
	conn, _ := dial(t, server)

	// When: the client asks for the state
	send(t, conn, actionGameState, nil)

	// Then: only the sender gets it
	snapshot := readSnapshot(t, conn, actionGameState)
	assert.Equal(t, entity.PlayerX, snapshot.Game.Board[0])
	assert.Equal(t, "Player O's turn", snapshot.Message)
}

func TestGameTurn(t *testing.T) {
	t.Run("Every client receives the update", func(t *testing.T) {
		// Given: two connected browsers
		server, _ := newTestServer(t)
		first, _ := dial(t, server)
		second, _ := dial(t, server)

		// When: the first one plays the centre
		send(t, first, actionGameTurn, TurnPayload{Cell: ptr(4)})

		// Then: both see X in the centre
		for _, conn := range []*websocket.Conn{first, second} {
			snapshot := readSnapshot(t, conn, actionGameUpdate)
			assert.Equal(t, entity.PlayerX, snapshot.Game.Board[4])
			assert.Equal(t, entity.PlayerO, snapshot.Game.Turn)
			assert.Equal(t, "move", snapshot.Event)
		}
	})

	t.Run("Rejected move produces nothing", func(t *testing.T) {
		// Given: X holds the centre
		server, manager := newTestServer(t)
		_, _, err := manager.MakeTurn(context.Background(), 4)
		require.NoError(t, err)
		conn, _ := dial(t, server)

		// When: O clicks the centre and then asks for the state
		send(t, conn, actionGameTurn, TurnPayload{Cell: ptr(4)})
		send(t, conn, actionGameState, nil)

		// Then: the next message is the state reply, not an update or an error
		snapshot := readSnapshot(t, conn, actionGameState)
		assert.Equal(t, entity.PlayerO, snapshot.Game.Turn)
	})

	t.Run("Win", func(t *testing.T) {
		server, _ := newTestServer(t)
		conn, _ := dial(t, server)

		var snapshot entity.Snapshot
		for _, cell := range []int{0, 3, 1, 4, 2} {
			send(t, conn, actionGameTurn, TurnPayload{Cell: ptr(cell)})
			snapshot = readSnapshot(t, conn, actionGameUpdate)
		}

		assert.Equal(t, "Player X wins!", snapshot.Message)
		assert.Equal(t, []int{0, 1, 2}, snapshot.Highlight)
		assert.Equal(t, entity.Score{X: 1}, snapshot.Score)
		assert.Equal(t, "win", snapshot.Event)
	})

	t.Run("Missing cell", func(t *testing.T) {
		server, _ := newTestServer(t)
		conn, _ := dial(t, server)

		send(t, conn, actionGameTurn, map[string]any{})

		payload := readError(t, conn)
		assert.Equal(t, actionGameTurn, payload.Action)
		assert.Equal(t, "cell is required", payload.Error)
	})
}

func TestGameReset(t *testing.T) {
	// Given: a game in progress
	server, manager := newTestServer(t)
	_, _, err := manager.MakeTurn(context.Background(), 8)
	require.NoError(t, err)
	conn, _ := dial(t, server)

	// When: the client resets
	send(t, conn, actionGameReset, nil)

	// Then: the fresh board is pushed
	snapshot := readSnapshot(t, conn, actionGameUpdate)
	assert.Equal(t, entity.Board{}, snapshot.Game.Board)
	assert.Equal(t, "reset", snapshot.Event)
}

func TestGameAI(t *testing.T) {
	server, manager := newTestServer(t)
	conn, _ := dial(t, server)

	send(t, conn, actionGameAI, AIPayload{Enabled: ptr(true)})

	snapshot := readSnapshot(t, conn, actionGameUpdate)
	assert.True(t, snapshot.Game.AIEnabled)
	assert.True(t, manager.State().Game.AIEnabled)
}

func TestBadMessages(t *testing.T) {
	server, _ := newTestServer(t)
	conn, _ := dial(t, server)

	t.Run("Malformed JSON", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

		assert.Equal(t, "malformed message", readError(t, conn).Error)
	})

	t.Run("Unknown action", func(t *testing.T) {
		send(t, conn, "game:undo", nil)

		payload := readError(t, conn)
		assert.Equal(t, "game:undo", payload.Action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Connection stays usable", func(t *testing.T) {
		send(t, conn, actionGameState, nil)

		readSnapshot(t, conn, actionGameState)
	})
}

func ptr[T any](value T) *T {
	return &value
}
