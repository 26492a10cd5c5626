package gateway

import (
	"context"
	"net/http"

	"TopicChat/internal/model"
)

// GetTopic fetches a single topic by id
func (c *Client) GetTopic(ctx context.Context, id int64) (*model.Topic, error) {
	var topic model.Topic
	if err := c.do(ctx, "get_topic", http.MethodGet, "/api/topic", idQuery(id), nil, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// GetAllTopics fetches every topic
func (c *Client) GetAllTopics(ctx context.Context) ([]model.Topic, error) {
	var topics []model.Topic
	if err := c.do(ctx, "get_all_topics", http.MethodGet, "/api/topic/all", nil, nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// GetAllTopicsDetails fetches the detailed view of every topic
func (c *Client) GetAllTopicsDetails(ctx context.Context) ([]model.TopicDetails, error) {
	var topics []model.TopicDetails
	if err := c.do(ctx, "get_all_topics_details", http.MethodGet, "/api/topic/all/details", nil, nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// GetAvailableTopicsForUser fetches the topics the user has not yet created a
// chat against
func (c *Client) GetAvailableTopicsForUser(ctx context.Context, userID int64) ([]model.TopicDetails, error) {
	var topics []model.TopicDetails
	if err := c.do(ctx, "get_available_topics", http.MethodGet, "/api/topic/available", userIDQuery(userID), nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// CreateTopic creates a topic with the given name
func (c *Client) CreateTopic(ctx context.Context, name string) (*model.TopicDetails, error) {
	var topic model.TopicDetails
	payload := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, "create_topic", http.MethodPost, "/api/topic", nil, payload, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// DeleteTopic removes a topic by id
func (c *Client) DeleteTopic(ctx context.Context, id int64) (*Message, error) {
	var msg Message
	if err := c.do(ctx, "delete_topic", http.MethodDelete, "/api/topic", idQuery(id), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
