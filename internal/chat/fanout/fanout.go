// Package fanout pushes freshly persisted messages to a recipient's live
// connection, when one exists. It is a best-effort latency optimization:
// the store is the source of truth and a failed push is never retried,
// queued, or surfaced to the sender.
package fanout

import (
	"go.uber.org/zap"

	"evently/api/chatwire"
	"evently/internal/chat/registry"
	"evently/internal/dbmysql"
)

// Deliverer is consumed by the chat service after every successful append.
type Deliverer interface {
	Deliver(msg *dbmysql.Message)
}

type deliverer struct {
	reg *registry.Registry
	log *zap.SugaredLogger
}

func NewDeliverer(reg *registry.Registry, log *zap.SugaredLogger) Deliverer {
	return &deliverer{reg: reg, log: log}
}

// Deliver pushes msg to the receiver's live connection if one is
// registered. Absent connection or a failed enqueue are both silent
// no-ops; the recipient sees the message on its next history fetch.
func (d *deliverer) Deliver(msg *dbmysql.Message) {
	conn, ok := d.reg.Lookup(msg.ReceiverID)
	if !ok {
		return
	}

	env := chatwire.NewMessageEvent(WireMessage(msg))
	if err := conn.Send(env); err != nil {
		// transport problem, not a send failure
		d.log.Warnw("live push failed",
			"message_id", msg.ID,
			"receiver_id", msg.ReceiverID,
			"error", err,
		)
	}
}

// WireMessage converts a stored message to its wire form.
func WireMessage(m *dbmysql.Message) *chatwire.Message {
	return &chatwire.Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}
