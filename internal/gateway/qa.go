package gateway

import (
	"context"
	"net/http"
	"time"

	"TopicChat/internal/model"
)

// CreateQARequest is the payload for creating a question/answer turn. The
// topic name rides along so the backend can route the question without a
// second lookup.
type CreateQARequest struct {
	ChatID     int64     `json:"chat_id"`
	TopicName  string    `json:"topic_name"`
	Question   string    `json:"question"`
	QTimestamp time.Time `json:"q_timestamp"`
}

// CreateQA submits a question. The backend answers synchronously, so the
// returned QA already carries the answer and its source.
func (c *Client) CreateQA(ctx context.Context, req CreateQARequest) (*model.QA, error) {
	var qa model.QA
	if err := c.do(ctx, "create_qa", http.MethodPost, "/api/qa", nil, req, &qa); err != nil {
		return nil, err
	}
	return &qa, nil
}
