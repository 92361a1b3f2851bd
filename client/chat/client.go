package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"evently/api/chatwire"
)

// Client is an evently messaging API client. The token comes from the
// identity service; the client never authenticates on its own.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// ConversationSummary mirrors one row of the server's conversation list.
type ConversationSummary struct {
	PartnerID     uint64            `json:"partner_id"`
	PartnerHandle string            `json:"partner_handle"`
	LastMessage   *chatwire.Message `json:"last_message"`
	UnreadCount   int               `json:"unread_count"`
}

// APIError is a non-2xx response from the messaging service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("messaging api: status %d: %s", e.Status, e.Body)
}

// NewClient creates a messaging client for the given base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendMessage sends over request/response; used when no live connection
// is open. The returned message carries the store-assigned id and
// timestamp.
func (c *Client) SendMessage(ctx context.Context, receiverID uint64, content string) (*chatwire.Message, error) {
	body := map[string]any{"receiver_id": receiverID, "content": content}

	var msg chatwire.Message
	if err := c.do(ctx, http.MethodPost, "/api/v1/messages", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// History fetches the point-in-time conversation with partnerID, oldest
// first. Feed the result to Merge/ConversationView together with live
// observations.
func (c *Client) History(ctx context.Context, partnerID uint64) ([]*chatwire.Message, error) {
	var messages []*chatwire.Message
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", partnerID), nil, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead marks the given message ids as read. Already-read ids are
// harmless.
func (c *Client) MarkRead(ctx context.Context, ids []uint64) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, http.MethodPost, "/api/v1/messages/read", body, nil)
}

// Conversations fetches the summary list, most recent conversation first.
func (c *Client) Conversations(ctx context.Context) ([]ConversationSummary, error) {
	var summaries []ConversationSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/conversations", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
