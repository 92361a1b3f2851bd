// Package chatwire defines the JSON frames exchanged over the live chat
// connection and the message shape returned by the REST endpoints. It is
// shared by the server and the Go client.
package chatwire

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope types. Clients may send handshake and send frames; the server
// emits message and error frames. Anything else is rejected outright.
const (
	TypeHandshake = "handshake"
	TypeSend      = "send"
	TypeMessage   = "message"
	TypeError     = "error"
)

// Message is the wire form of a stored message. ID and CreatedAt are
// store-assigned; client-originated frames never carry them.
type Message struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Envelope is the tagged frame on the live channel. Which fields are
// meaningful depends on Type:
//
//	handshake: Token
//	send:      ReceiverID, Content
//	message:   Message
//	error:     Code, Reason
type Envelope struct {
	Type string `json:"type"`

	Token string `json:"token,omitempty"`

	ReceiverID uint64 `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`

	Message *Message `json:"message,omitempty"`

	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Decode parses a frame and rejects unknown tags explicitly.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Type {
	case TypeHandshake, TypeSend, TypeMessage, TypeError:
		return &env, nil
	case "":
		return nil, fmt.Errorf("frame has no type tag")
	default:
		return nil, fmt.Errorf("unknown frame type %q", env.Type)
	}
}

func NewHandshake(token string) *Envelope {
	return &Envelope{Type: TypeHandshake, Token: token}
}

func NewSend(receiverID uint64, content string) *Envelope {
	return &Envelope{Type: TypeSend, ReceiverID: receiverID, Content: content}
}

func NewMessageEvent(msg *Message) *Envelope {
	return &Envelope{Type: TypeMessage, Message: msg}
}

func NewError(code, reason string) *Envelope {
	return &Envelope{Type: TypeError, Code: code, Reason: reason}
}
