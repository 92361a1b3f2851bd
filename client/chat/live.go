package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"evently/api/chatwire"
)

// LiveFeed is an open live connection. Incoming message frames arrive on
// Messages, error frames (validation failures on sends, protocol errors)
// on Errors. The feed imposes no reconnect policy; when Messages closes,
// the caller refetches history and dials again if it wants to.
type LiveFeed struct {
	conn *websocket.Conn

	messages chan *chatwire.Message
	errs     chan *chatwire.Envelope

	writeMu sync.Mutex
	once    sync.Once
}

// Connect dials the live endpoint and performs the handshake. The
// returned feed is ready for Send and already receiving deliveries.
func (c *Client) Connect(ctx context.Context) (*LiveFeed, error) {
	wsURL := strings.Replace(c.BaseURL, "http", "ws", 1) + "/ws"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	if err := conn.WriteJSON(chatwire.NewHandshake(c.Token)); err != nil {
		conn.Close()
		return nil, err
	}

	feed := &LiveFeed{
		conn:     conn,
		messages: make(chan *chatwire.Message, 64),
		errs:     make(chan *chatwire.Envelope, 16),
	}
	go feed.readLoop()
	return feed, nil
}

// Messages streams server deliveries. Closed when the connection dies.
func (f *LiveFeed) Messages() <-chan *chatwire.Message {
	return f.messages
}

// Errors streams error frames from the server.
func (f *LiveFeed) Errors() <-chan *chatwire.Envelope {
	return f.errs
}

// Send submits a message over the live connection. A nil error only
// means the frame left this side; the authoritative copy shows up in
// history once stored.
func (f *LiveFeed) Send(receiverID uint64, content string) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.conn.WriteJSON(chatwire.NewSend(receiverID, content))
}

// Close tears the connection down. Messages and Errors are closed by the
// read loop shortly after.
func (f *LiveFeed) Close() error {
	return f.conn.Close()
}

func (f *LiveFeed) readLoop() {
	defer f.once.Do(func() {
		close(f.messages)
		close(f.errs)
		f.conn.Close()
	})

	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			return
		}

		env, err := chatwire.Decode(data)
		if err != nil {
			continue
		}

		switch env.Type {
		case chatwire.TypeMessage:
			if env.Message != nil {
				select {
				case f.messages <- env.Message:
				default:
					// a stalled consumer loses the push, not the message:
					// it is already durable server-side
				}
			}
		case chatwire.TypeError:
			select {
			case f.errs <- env:
			default:
			}
		}
	}
}
