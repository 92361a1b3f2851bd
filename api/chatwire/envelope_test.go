package chatwire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantType  string
		expectErr bool
	}{
		{
			name:     "handshake",
			raw:      `{"type":"handshake","token":"abc"}`,
			wantType: TypeHandshake,
		},
		{
			name:     "send",
			raw:      `{"type":"send","receiver_id":2,"content":"hello"}`,
			wantType: TypeSend,
		},
		{
			name:     "message",
			raw:      `{"type":"message","message":{"id":1,"sender_id":1,"receiver_id":2,"content":"x","read":false,"created_at":"2026-08-29T10:00:00Z"}}`,
			wantType: TypeMessage,
		},
		{
			name:     "error frame",
			raw:      `{"type":"error","code":"validation","reason":"content required"}`,
			wantType: TypeError,
		},
		{
			name:      "unknown tag is rejected",
			raw:       `{"type":"typing"}`,
			expectErr: true,
		},
		{
			name:      "missing tag is rejected",
			raw:       `{"content":"hello"}`,
			expectErr: true,
		},
		{
			name:      "malformed json",
			raw:       `{"type":`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.raw))
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, env.Type)
		})
	}
}

func TestSendFrameCarriesNoServerFields(t *testing.T) {
	// client-originated sends must not supply id or created_at
	data, err := json.Marshal(NewSend(2, "hello"))
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"id"`)
	assert.NotContains(t, string(data), `"created_at"`)
}
