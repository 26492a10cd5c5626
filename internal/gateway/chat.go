package gateway

import (
	"context"
	"net/http"

	"TopicChat/internal/model"
)

// GetChat fetches a bare chat by id
func (c *Client) GetChat(ctx context.Context, id int64) (*model.Chat, error) {
	var chat model.Chat
	if err := c.do(ctx, "get_chat", http.MethodGet, "/api/chat", idQuery(id), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChatDetails fetches a chat with its resolved topic
func (c *Client) GetChatDetails(ctx context.Context, id int64) (*model.ChatDetails, error) {
	var chat model.ChatDetails
	if err := c.do(ctx, "get_chat_details", http.MethodGet, "/api/chat/details", idQuery(id), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChatDetailsWithQAs fetches a chat with its full transcript
func (c *Client) GetChatDetailsWithQAs(ctx context.Context, id int64) (*model.ChatDetailsWithQAs, error) {
	var chat model.ChatDetailsWithQAs
	if err := c.do(ctx, "get_chat_transcript", http.MethodGet, "/api/chat/details/qas", idQuery(id), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetAllChatsByUser fetches every chat owned by the user
func (c *Client) GetAllChatsByUser(ctx context.Context, userID int64) ([]model.ChatDetails, error) {
	var chats []model.ChatDetails
	if err := c.do(ctx, "get_user_chats", http.MethodGet, "/api/chat/user-all/details", userIDQuery(userID), nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetAllChatsDetails fetches every chat in the system (admin view)
func (c *Client) GetAllChatsDetails(ctx context.Context) ([]model.ChatDetails, error) {
	var chats []model.ChatDetails
	if err := c.do(ctx, "get_all_chats", http.MethodGet, "/api/chat/all/details", nil, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat creates a chat for the user against the topic
func (c *Client) CreateChat(ctx context.Context, userID, topicID int64) (*model.ChatDetails, error) {
	var chat model.ChatDetails
	payload := struct {
		UserID  int64 `json:"user_id"`
		TopicID int64 `json:"topic_id"`
	}{UserID: userID, TopicID: topicID}
	if err := c.do(ctx, "create_chat", http.MethodPost, "/api/chat", nil, payload, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat removes a chat by id
func (c *Client) DeleteChat(ctx context.Context, id int64) (*Message, error) {
	var msg Message
	if err := c.do(ctx, "delete_chat", http.MethodDelete, "/api/chat", idQuery(id), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
