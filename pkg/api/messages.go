package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListMessages returns one page of the current user's messages.
func (c *Client) ListMessages(ctx context.Context, filter MessageFilter) (*Page[Message], error) {
	query := url.Values{}
	if filter.Type != "" {
		query.Set("type", string(filter.Type))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	return do[Page[Message]](ctx, c, http.MethodGet, "/messages", query, nil)
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	return do[Message](ctx, c, http.MethodGet, "/messages/"+url.PathEscape(id), nil, nil)
}

// SendMessage sends an inquiry or a reply and returns the stored message.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	return do[Message](ctx, c, http.MethodPost, "/messages", nil, params)
}

// DeleteMessage removes a message the current user sent or received.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, "/messages/"+url.PathEscape(id), nil, nil)
	return err
}
