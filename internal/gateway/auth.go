package gateway

import (
	"context"
	"net/http"
	"time"

	"TopicChat/internal/model"
)

// LoginResponse is the credential envelope returned by login and register
type LoginResponse struct {
	UserID      int64      `json:"user_id"`
	Role        model.Role `json:"role"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	Expiry      time.Time  `json:"expiry"`
}

type credentialsPayload struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// Login authenticates with the backend. The call itself is unauthenticated;
// the caller folds the result into the session store.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	payload := credentialsPayload{Username: username, Password: password, Role: model.RoleUser}
	if err := c.do(ctx, "login", http.MethodPost, "/api/user/login", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the same envelope as Login
func (c *Client) Register(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	payload := credentialsPayload{Username: username, Password: password, Role: model.RoleUser}
	if err := c.do(ctx, "register", http.MethodPost, "/api/user/register", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
