package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/api/chatwire"
)

func msg(id uint64, at time.Time, content string) *chatwire.Message {
	return &chatwire.Message{ID: id, SenderID: 1, ReceiverID: 2, Content: content, CreatedAt: at}
}

func ids(messages []*chatwire.Message) []uint64 {
	out := make([]uint64, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func TestMerge_DeduplicatesById(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	history := []*chatwire.Message{
		msg(1, base, "one"),
		msg(2, base.Add(time.Second), "two"),
	}
	live := []*chatwire.Message{
		msg(2, base.Add(time.Second), "two"), // duplicate captured by history
		msg(3, base.Add(2*time.Second), "three"),
	}

	merged := Merge(history, live)

	assert.Equal(t, []uint64{1, 2, 3}, ids(merged))
}

func TestMerge_Idempotent(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	history := []*chatwire.Message{msg(1, base, "one"), msg(3, base.Add(2*time.Second), "three")}
	live := []*chatwire.Message{msg(2, base.Add(time.Second), "two"), msg(3, base.Add(2*time.Second), "three")}

	first := Merge(history, live)
	second := Merge(history, live)

	require.Equal(t, len(first), len(second))
	assert.Equal(t, ids(first), ids(second))
	for i := range first {
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestMerge_OrdersByTimestampThenId(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// same timestamp: id breaks the tie
	history := []*chatwire.Message{msg(5, base, "b"), msg(4, base, "a")}
	live := []*chatwire.Message{msg(6, base.Add(-time.Second), "first")}

	merged := Merge(history, live)

	assert.Equal(t, []uint64{6, 4, 5}, ids(merged))
}

func TestMerge_LocalEchoSurvives(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	history := []*chatwire.Message{msg(1, base, "one")}
	echo := &chatwire.Message{SenderID: 1, ReceiverID: 2, Content: "optimistic", CreatedAt: base.Add(time.Second)}

	merged := Merge(history, []*chatwire.Message{echo})

	require.Len(t, merged, 2)
	assert.Equal(t, "optimistic", merged[1].Content)
	assert.Zero(t, merged[1].ID)
}

func TestMerge_TwoLocalEchoesDoNotCollide(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	echoA := &chatwire.Message{Content: "a", CreatedAt: base}
	echoB := &chatwire.Message{Content: "b", CreatedAt: base}

	merged := Merge(nil, []*chatwire.Message{echoA, echoB})

	require.Len(t, merged, 2)
	assert.Equal(t, "a", merged[0].Content)
	assert.Equal(t, "b", merged[1].Content)
}

func TestMerge_DegradedModes(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("live channel down renders history only", func(t *testing.T) {
		history := []*chatwire.Message{msg(1, base, "one"), msg(2, base.Add(time.Second), "two")}
		merged := Merge(history, nil)
		assert.Equal(t, []uint64{1, 2}, ids(merged))
	})

	t.Run("failed history fetch renders live only", func(t *testing.T) {
		live := []*chatwire.Message{msg(3, base, "three")}
		merged := Merge(nil, live)
		assert.Equal(t, []uint64{3}, ids(merged))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Empty(t, Merge(nil, nil))
	})
}

func TestConversationView(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	view := NewConversationView()

	// live messages start arriving before the fetch returns
	view.ObserveLive(msg(2, base.Add(time.Second), "two"))
	assert.Equal(t, []uint64{2}, ids(view.Render()))

	// fetch lands, including the message already seen live
	view.SetHistory([]*chatwire.Message{msg(1, base, "one"), msg(2, base.Add(time.Second), "two")})
	assert.Equal(t, []uint64{1, 2}, ids(view.Render()))

	view.ObserveLive(msg(3, base.Add(2*time.Second), "three"))
	assert.Equal(t, []uint64{1, 2, 3}, ids(view.Render()))

	// rendering twice changes nothing
	assert.Equal(t, []uint64{1, 2, 3}, ids(view.Render()))

	// a refetch replaces the snapshot without losing live messages
	view.SetHistory([]*chatwire.Message{msg(1, base, "one"), msg(2, base.Add(time.Second), "two"), msg(3, base.Add(2*time.Second), "three")})
	assert.Equal(t, []uint64{1, 2, 3}, ids(view.Render()))
}
