package service

import (
	"context"
	"strings"

	"evently/internal/chat/fanout"
	"evently/internal/chat/repository"
	"evently/internal/common"
	"evently/internal/dbmysql"
)

// ChatService is the interface exposed to the transport handlers.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*dbmysql.Message, error)
	History(ctx context.Context, userID, partnerID uint64) ([]*dbmysql.Message, error)
	MarkRead(ctx context.Context, messageID uint64) (*dbmysql.Message, error)
	Summarize(ctx context.Context, userID uint64) ([]ConversationSummary, error)
}

type chatService struct {
	repo      repository.MessageRepository
	deliverer fanout.Deliverer
}

// Constructor used in DI/wire
func NewChatService(repo repository.MessageRepository, deliverer fanout.Deliverer) ChatService {
	return &chatService{repo: repo, deliverer: deliverer}
}

// SendMessage validates the request, resolves both identities, persists
// the message and then hands it to the fan-out. The append is the source
// of truth: by the time Deliver runs the message is durable, and nothing
// the fan-out does can fail the send.
func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*dbmysql.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.ValidationErrorf("message content cannot be empty")
	}
	if receiverID == 0 {
		return nil, common.ValidationErrorf("receiver is required")
	}

	if err := s.resolveIdentity(ctx, senderID, "sender"); err != nil {
		return nil, err
	}
	if err := s.resolveIdentity(ctx, receiverID, "receiver"); err != nil {
		return nil, err
	}

	msg := &dbmysql.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.repo.Append(ctx, msg); err != nil {
		return nil, err
	}

	s.deliverer.Deliver(msg)

	return msg, nil
}

// History returns the full conversation between the caller and partner,
// oldest first.
func (s *chatService) History(ctx context.Context, userID, partnerID uint64) ([]*dbmysql.Message, error) {
	if partnerID == 0 {
		return nil, common.ValidationErrorf("partner is required")
	}
	return s.repo.ListBetween(ctx, userID, partnerID)
}

// MarkRead flips a message's read flag. Idempotent; NotFound for a
// missing id.
func (s *chatService) MarkRead(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	return s.repo.MarkRead(ctx, messageID)
}

func (s *chatService) resolveIdentity(ctx context.Context, userID uint64, role string) error {
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.UnknownIdentityf("%s %d", role, userID)
	}
	return nil
}
