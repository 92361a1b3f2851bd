// Package chat is the Go client for the evently messaging service. It
// wraps the REST endpoints, the live websocket feed, and the merge logic
// that reconciles the two into a single conversation view.
package chat

import (
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"evently/api/chatwire"
)

// Merge combines a point-in-time history fetch with messages observed
// live since the fetch, producing one deduplicated, time-ordered view.
//
// Both inputs are trusted to carry server-assigned ids except for local
// echoes (ID zero), which are kept under synthetic keys so an optimistic
// send renders immediately. The authoritative copy arriving later is a
// distinct entry until the next history refetch reconciles the pair;
// nothing is ever dropped.
//
// Merge is pure: calling it repeatedly with the same inputs yields the
// same sequence.
func Merge(history, live []*chatwire.Message) []*chatwire.Message {
	type entry struct {
		msg *chatwire.Message
		seq int
	}

	merged := make(map[string]entry, len(history)+len(live))
	seq := 0
	insert := func(key string, m *chatwire.Message) {
		merged[key] = entry{msg: m, seq: seq}
		seq++
	}

	for _, m := range history {
		insert(serverKey(m.ID), m)
	}

	for _, m := range live {
		if m.ID != 0 {
			if _, dup := merged[serverKey(m.ID)]; dup {
				// the history fetch already captured this one
				continue
			}
			insert(serverKey(m.ID), m)
			continue
		}
		// local echo without a server id yet
		insert(localKey(), m)
	}

	entries := make([]entry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.msg.CreatedAt.Equal(b.msg.CreatedAt) {
			return a.msg.CreatedAt.Before(b.msg.CreatedAt)
		}
		if a.msg.ID != 0 && b.msg.ID != 0 {
			return a.msg.ID < b.msg.ID
		}
		return a.seq < b.seq
	})

	out := make([]*chatwire.Message, len(entries))
	for i, e := range entries {
		out[i] = e.msg
	}
	return out
}

func serverKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// localKey never collides with a numeric server key.
func localKey() string {
	return "local:" + uuid.NewString()
}

// ConversationView accumulates the two message sources for one
// conversation and renders them merged. Safe for use from the fetch
// goroutine and the live-feed goroutine at once.
type ConversationView struct {
	mu      sync.Mutex
	history []*chatwire.Message
	live    []*chatwire.Message
}

func NewConversationView() *ConversationView {
	return &ConversationView{}
}

// SetHistory replaces the historical snapshot with a fresh fetch. Live
// observations made since watching began are kept and deduplicated
// against it on the next Render.
func (v *ConversationView) SetHistory(messages []*chatwire.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = append([]*chatwire.Message(nil), messages...)
}

// ObserveLive appends one message seen on the live channel.
func (v *ConversationView) ObserveLive(m *chatwire.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.live = append(v.live, m)
}

// Render produces the current merged view. A failed history fetch simply
// means an empty snapshot: the view degrades to live-only and recovers
// on the next successful SetHistory.
func (v *ConversationView) Render() []*chatwire.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Merge(v.history, v.live)
}
