package gateway

import (
	"context"
	"net/http"

	"TopicChat/internal/model"
)

// GetUser fetches a user without credentials
func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "get_user", http.MethodGet, "/api/user", idQuery(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserDetails fetches a user including credentials (admin view)
func (c *Client) GetUserDetails(ctx context.Context, id int64) (*model.UserCredentials, error) {
	var user model.UserCredentials
	if err := c.do(ctx, "get_user_details", http.MethodGet, "/api/user/details", idQuery(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsersDetails fetches every user including credentials (admin view)
func (c *Client) GetAllUsersDetails(ctx context.Context) ([]model.UserCredentials, error) {
	var users []model.UserCredentials
	if err := c.do(ctx, "get_all_users", http.MethodGet, "/api/user/all/details", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account with an explicit role (admin view)
func (c *Client) CreateUser(ctx context.Context, username, password string, role model.Role) (*model.UserCredentials, error) {
	var user model.UserCredentials
	payload := credentialsPayload{Username: username, Password: password, Role: role}
	if err := c.do(ctx, "create_user", http.MethodPost, "/api/user", nil, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces a user's fields by id (admin view)
func (c *Client) UpdateUser(ctx context.Context, id int64, username, password string, role model.Role) (*model.UserCredentials, error) {
	var user model.UserCredentials
	payload := struct {
		ID       int64      `json:"id"`
		Username string     `json:"username"`
		Password string     `json:"password"`
		Role     model.Role `json:"role"`
	}{ID: id, Username: username, Password: password, Role: role}
	if err := c.do(ctx, "update_user", http.MethodPut, "/api/user", nil, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user by id (admin view)
func (c *Client) DeleteUser(ctx context.Context, id int64) (*Message, error) {
	var msg Message
	if err := c.do(ctx, "delete_user", http.MethodDelete, "/api/user", idQuery(id), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
