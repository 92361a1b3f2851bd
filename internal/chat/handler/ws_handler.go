package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"evently/api/chatwire"
	"evently/internal/chat/registry"
	"evently/internal/chat/service"
	"evently/internal/common"
	"evently/internal/config"
)

// WSHandler is the live-connection gateway. The first frame on a fresh
// socket must be a handshake carrying a session token; after that the
// connection is registered for fan-out and inbound send frames are
// processed one at a time, in arrival order.
type WSHandler struct {
	chatService service.ChatService
	reg         *registry.Registry
	cfg         config.ChatConfig
	log         *zap.SugaredLogger
	upgrader    websocket.Upgrader
}

func NewWSHandler(chatService service.ChatService, reg *registry.Registry, cfg config.ChatConfig, log *zap.SugaredLogger) *WSHandler {
	return &WSHandler{
		chatService: chatService,
		reg:         reg,
		cfg:         cfg,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// the dashboard SPA and the Go client both connect cross-origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	claims, err := h.handshake(conn)
	if err != nil {
		_ = conn.WriteJSON(chatwire.NewError("unauthenticated", err.Error()))
		_ = conn.Close()
		return
	}

	client := newWSClient(claims.UserID, conn, h.cfg)
	h.reg.Register(claims.UserID, client)
	h.log.Infow("connection registered", "user_id", claims.UserID)

	go client.writePump()
	h.readPump(client)
}

// handshake reads and validates the first frame. The socket gets a short
// deadline so an idle connection cannot hold the slot open unauthenticated.
func (h *WSHandler) handshake(conn *websocket.Conn) (*common.Claims, error) {
	pongWait := time.Duration(h.cfg.PongWait) * time.Second
	conn.SetReadLimit(int64(h.cfg.ReadLimit))
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, errors.New("handshake not received")
	}

	env, err := chatwire.Decode(data)
	if err != nil {
		return nil, err
	}
	if env.Type != chatwire.TypeHandshake {
		return nil, errors.New("first frame must be a handshake")
	}

	claims, err := common.ValidToken(env.Token)
	if err != nil {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// readPump handles inbound frames for one connection until it closes.
// Frames are processed sequentially, so two sends from the same user
// never interleave; different connections run independently.
func (h *WSHandler) readPump(client *wsClient) {
	conn := client.conn
	pongWait := time.Duration(h.cfg.PongWait) * time.Second

	defer func() {
		// only evict the slot if it still points at this connection; a
		// newer connection for the same user may already own it
		h.reg.Unregister(client.userID, client)
		client.close()
		h.log.Infow("connection closed", "user_id", client.userID)
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		env, err := chatwire.Decode(data)
		if err != nil {
			h.pushError(client, "bad_frame", err.Error())
			continue
		}

		switch env.Type {
		case chatwire.TypeSend:
			h.handleSend(client, env)
		case chatwire.TypeHandshake:
			h.pushError(client, "protocol", "already authenticated")
		default:
			// message/error frames are server-originated only
			h.pushError(client, "protocol", "unexpected frame type "+env.Type)
		}
	}
}

func (h *WSHandler) handleSend(client *wsClient, env *chatwire.Envelope) {
	// the socket has no request context; sends are bounded by the write
	// deadline on the database side
	_, err := h.chatService.SendMessage(
		common.ContextWithUserID(context.Background(), client.userID),
		client.userID, env.ReceiverID, env.Content,
	)
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		h.pushError(client, "validation", err.Error())
	case errors.Is(err, common.ErrUnknownIdentity):
		h.pushError(client, "unknown_identity", err.Error())
	default:
		h.log.Errorw("send over live channel failed", "user_id", client.userID, "error", err)
		h.pushError(client, "internal", "message could not be stored")
	}
}

// pushError reports a failure back to the offending client. Push failures
// here are as best-effort as the fan-out path.
func (h *WSHandler) pushError(client *wsClient, code, reason string) {
	if err := client.Send(chatwire.NewError(code, reason)); err != nil {
		h.log.Warnw("error frame push failed", "user_id", client.userID, "error", err)
	}
}
