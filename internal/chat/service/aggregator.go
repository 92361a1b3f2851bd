package service

import (
	"context"
	"errors"
	"sort"

	"evently/internal/common"
	"evently/internal/dbmysql"
)

// ConversationSummary is one row of a user's conversation list.
type ConversationSummary struct {
	PartnerID     uint64           `json:"partner_id"`
	PartnerHandle string           `json:"partner_handle"`
	LastMessage   *dbmysql.Message `json:"last_message"`
	UnreadCount   int              `json:"unread_count"`
}

// Summarize derives the conversation list for userID: one entry per
// distinct partner, carrying the most recent message and how many
// messages addressed to userID are still unread. Most recent
// conversation first. Partners whose user record no longer resolves are
// filtered out, not errored.
func (s *chatService) Summarize(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	partners, err := s.repo.ListPartners(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(partners))
	for _, partnerID := range partners {
		partner, err := s.repo.UserByID(ctx, partnerID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}

		messages, err := s.repo.ListBetween(ctx, userID, partnerID)
		if err != nil {
			return nil, err
		}
		if len(messages) == 0 {
			continue
		}

		unread := 0
		for _, m := range messages {
			if m.ReceiverID == userID && !m.Read {
				unread++
			}
		}

		summaries = append(summaries, ConversationSummary{
			PartnerID:     partnerID,
			PartnerHandle: partner.Handle,
			LastMessage:   messages[len(messages)-1],
			UnreadCount:   unread,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})

	return summaries, nil
}
