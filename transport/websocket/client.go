package websocket

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// client is one browser connection. Only the write loop writes to conn.
type client struct {
	conn    *websocket.Conn
	replies chan Message

	done       chan struct{}
	writerGone chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:       conn,
		replies:    make(chan Message, replyBuffer),
		done:       make(chan struct{}),
		writerGone: make(chan struct{}),
	}
}

// reply queues a message for the sender only.
func (that *client) reply(message Message) {
	select {
	case that.replies <- message:
	case <-that.writerGone:
	}
}

func (that *client) write(message Message) error {
	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// abort unblocks the read loop after a failed write.
func (that *client) abort() {
	_ = that.conn.Close()
}
