package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"evently/internal/chat/service"
	"evently/internal/common"
)

// HTTPHandler exposes the request/response side of the messaging core:
// sending without a live connection, history fetch, mark-read and the
// conversation summary list.
type HTTPHandler struct {
	chatService service.ChatService
	log         *zap.SugaredLogger
}

func NewHTTPHandler(chatService service.ChatService, log *zap.SugaredLogger) *HTTPHandler {
	return &HTTPHandler{chatService: chatService, log: log}
}

// Routes mounts the REST endpoints behind the auth middleware.
func (h *HTTPHandler) Routes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(common.AuthMiddleware)

	api.HandleFunc("/messages", h.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages/read", h.MarkRead).Methods(http.MethodPost)
	api.HandleFunc("/messages/{partnerID:[0-9]+}", h.History).Methods(http.MethodGet)
	api.HandleFunc("/conversations", h.Conversations).Methods(http.MethodGet)
}

type sendMessageRequest struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *HTTPHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), senderID, req.ReceiverID, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, msg)
}

func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	partnerID, err := strconv.ParseUint(mux.Vars(r)["partnerID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid partner id", http.StatusBadRequest)
		return
	}

	messages, err := h.chatService.History(r.Context(), userID, partnerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, messages)
}

type markReadRequest struct {
	IDs []uint64 `json:"ids"`
}

type markReadResponse struct {
	Marked int `json:"marked"`
}

func (h *HTTPHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := common.UserIDFromContext(r.Context()); !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		http.Error(w, "ids required", http.StatusBadRequest)
		return
	}

	marked := 0
	for _, id := range req.IDs {
		if _, err := h.chatService.MarkRead(r.Context(), id); err != nil {
			h.writeError(w, err)
			return
		}
		marked++
	}

	h.writeJSON(w, http.StatusOK, markReadResponse{Marked: marked})
}

func (h *HTTPHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	summaries, err := h.chatService.Summarize(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorw("failed to encode response", "error", err)
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrUnknownIdentity):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Errorw("internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
