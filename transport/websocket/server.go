package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tomasen/realip"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	sessionCookie = "user_session"

	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMessageSize  = 1 << 10
	replyBuffer     = 8
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	State() entity.Snapshot
	MakeTurn(ctx context.Context, cell int) (entity.MoveResult, entity.Snapshot, error)
	Reset(ctx context.Context) entity.Snapshot
	SetAIEnabled(ctx context.Context, enabled bool) entity.Snapshot
	Subscribe() (string, <-chan entity.Snapshot)
	Unsubscribe(id string)
}

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, message *Message, client *client) error
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameHostname,
		},

		handlers: make(map[string]func(context.Context, *Message, *client) error),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameAI] = server.handleGameAI

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves it until it closes.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	session, header := that.sessionCookie(req)
	log := that.logger.With("method", "upgradeToWebSocket", "session", session, "client", realip.FromRequest(req))

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		// the upgrader has already answered with an HTTP error
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established")

	that.serve(req.Context(), conn, log)

	log.Info("WebSocket connection closed")
}

// serve runs one writer goroutine and reads client messages until the connection fails.
func (that *Server) serve(ctx context.Context, conn *websocket.Conn, log *slog.Logger) {
	id, updates := that.game.Subscribe()
	client := newClient(conn)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		that.writeLoop(client, updates, log)
	}()

	that.readLoop(ctx, client, log)

	close(client.done)
	<-writerDone

	that.game.Unsubscribe(id)

	if err := conn.Close(); err != nil {
		log.Debug("failed to close connection", "error", err)
	}
}

// readLoop - processes messages from the client.
func (that *Server) readLoop(ctx context.Context, client *client, log *slog.Logger) {
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			that.sendError(client, "", "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			that.sendError(client, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, &message, client); err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
			that.sendError(client, message.Action, err.Error())
		}
	}
}

// writeLoop is the only writer of the connection.
func (that *Server) writeLoop(client *client, updates <-chan entity.Snapshot, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer close(client.writerGone)

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}

			message, err := newMessage(actionGameUpdate, snapshot)
			if err != nil {
				log.Error("failed to build update", "error", err)
				continue
			}

			if err = client.write(message); err != nil {
				log.Debug("failed to send update", "error", err)
				client.abort()
				return
			}

		case message := <-client.replies:
			if err := client.write(message); err != nil {
				log.Debug("failed to send reply", "error", err)
				client.abort()
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.abort()
				return
			}

		case <-client.done:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// sessionCookie - reuses the user session or issues a new one with the upgrade response.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	if cookie, err := req.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    uuid.NewString(),
		Expires:  time.Now().Add(24 * time.Hour),
		Path:     "/ws",
		HttpOnly: true,
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	return cookie.Value, header
}

// sameHostname accepts the page served from the HTTP port of the same host.
func sameHostname(req *http.Request) bool {
	origin := req.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host, _, err := net.SplitHostPort(req.Host)
	if err != nil {
		host = strings.Trim(req.Host, "[]")
	}

	return originURL.Hostname() == host
}
