package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"evently/internal/chat/service"
	"evently/internal/chat/service/mocks"
	"evently/internal/common"
	"evently/internal/dbmysql"
)

func setupHTTPTest(t *testing.T) (*mocks.MockChatService, *mux.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockSvc := mocks.NewMockChatService(ctrl)
	h := NewHTTPHandler(mockSvc, zap.NewNop().Sugar())

	router := mux.NewRouter()
	h.Routes(router)
	return mockSvc, router
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	token, err := common.GenerateToken(1, "client-anna")
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHTTPHandler_SendMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(svc *mocks.MockChatService)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"receiver_id":2,"content":"hello"}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().
					SendMessage(gomock.Any(), uint64(1), uint64(2), "hello").
					Return(&dbmysql.Message{ID: 42, SenderID: 1, ReceiverID: 2, Content: "hello", CreatedAt: time.Now()}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "validation error",
			body: `{"receiver_id":2,"content":""}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().
					SendMessage(gomock.Any(), uint64(1), uint64(2), "").
					Return(nil, common.ValidationErrorf("message content cannot be empty"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown receiver",
			body: `{"receiver_id":99,"content":"hello"}`,
			mockSetup: func(svc *mocks.MockChatService) {
				svc.EXPECT().
					SendMessage(gomock.Any(), uint64(1), uint64(99), "hello").
					Return(nil, common.UnknownIdentityf("receiver 99"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed body",
			body:       `{`,
			mockSetup:  func(svc *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc, router := setupHTTPTest(t)
			tt.mockSetup(mockSvc)

			req := authedRequest(t, http.MethodPost, "/api/v1/messages", []byte(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				var msg dbmysql.Message
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
				assert.Equal(t, uint64(42), msg.ID)
			}
		})
	}
}

func TestHTTPHandler_SendMessage_RequiresAuth(t *testing.T) {
	_, router := setupHTTPTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPHandler_History(t *testing.T) {
	mockSvc, router := setupHTTPTest(t)

	mockSvc.EXPECT().
		History(gomock.Any(), uint64(1), uint64(2)).
		Return([]*dbmysql.Message{
			{ID: 1, SenderID: 1, ReceiverID: 2, Content: "hey"},
			{ID: 2, SenderID: 2, ReceiverID: 1, Content: "hi"},
		}, nil)

	req := authedRequest(t, http.MethodGet, "/api/v1/messages/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var messages []*dbmysql.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, uint64(1), messages[0].ID)
}

func TestHTTPHandler_MarkRead(t *testing.T) {
	t.Run("marks all ids", func(t *testing.T) {
		mockSvc, router := setupHTTPTest(t)

		mockSvc.EXPECT().MarkRead(gomock.Any(), uint64(5)).Return(&dbmysql.Message{ID: 5, Read: true}, nil)
		mockSvc.EXPECT().MarkRead(gomock.Any(), uint64(6)).Return(&dbmysql.Message{ID: 6, Read: true}, nil)

		req := authedRequest(t, http.MethodPost, "/api/v1/messages/read", []byte(`{"ids":[5,6]}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp markReadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Marked)
	})

	t.Run("missing id is 404", func(t *testing.T) {
		mockSvc, router := setupHTTPTest(t)

		mockSvc.EXPECT().MarkRead(gomock.Any(), uint64(404)).Return(nil, common.ErrNotFound)

		req := authedRequest(t, http.MethodPost, "/api/v1/messages/read", []byte(`{"ids":[404]}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty ids is 400", func(t *testing.T) {
		_, router := setupHTTPTest(t)

		req := authedRequest(t, http.MethodPost, "/api/v1/messages/read", []byte(`{"ids":[]}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHTTPHandler_Conversations(t *testing.T) {
	mockSvc, router := setupHTTPTest(t)

	mockSvc.EXPECT().
		Summarize(gomock.Any(), uint64(1)).
		Return([]service.ConversationSummary{
			{PartnerID: 2, PartnerHandle: "vendor-bo", UnreadCount: 3,
				LastMessage: &dbmysql.Message{ID: 9, Content: "quote attached"}},
		}, nil)

	req := authedRequest(t, http.MethodGet, "/api/v1/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []service.ConversationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, uint64(2), summaries[0].PartnerID)
	assert.Equal(t, 3, summaries[0].UnreadCount)
}
