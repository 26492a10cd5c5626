// Package admin holds the collection managers behind the admin catalog
// views. Each manager loads one flat collection in full and mutates it
// locally only after the corresponding remote call succeeds; a failed call
// leaves the collection exactly as it was. Deletes go through a confirmation
// step before any remote call is issued.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"TopicChat/internal/gateway"
	"TopicChat/internal/model"
)

// Confirm asks the user to approve a destructive action. Returning false
// cancels it with no remote or local change.
type Confirm func(message string) bool

// UserGateway is the remote surface the user manager needs
type UserGateway interface {
	GetAllUsersDetails(ctx context.Context) ([]model.UserCredentials, error)
	CreateUser(ctx context.Context, username, password string, role model.Role) (*model.UserCredentials, error)
	UpdateUser(ctx context.Context, id int64, username, password string, role model.Role) (*model.UserCredentials, error)
	DeleteUser(ctx context.Context, id int64) (*gateway.Message, error)
}

// UserManager manages the global user catalog
type UserManager struct {
	gw      UserGateway
	confirm Confirm
	logger  *slog.Logger
	users   []model.UserCredentials
}

// NewUserManager creates a user manager. confirm gates every delete.
func NewUserManager(gw UserGateway, confirm Confirm, logger *slog.Logger) *UserManager {
	return &UserManager{gw: gw, confirm: confirm, logger: logger}
}

// Load fetches the full user collection
func (m *UserManager) Load(ctx context.Context) error {
	users, err := m.gw.GetAllUsersDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	m.users = users
	return nil
}

// Users returns a copy of the loaded collection
func (m *UserManager) Users() []model.UserCredentials {
	return append([]model.UserCredentials(nil), m.users...)
}

// Create adds a user remotely and appends it locally on success
func (m *UserManager) Create(ctx context.Context, username, password string, role model.Role) (*model.UserCredentials, error) {
	user, err := m.gw.CreateUser(ctx, username, password, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	m.users = append(m.users, *user)
	m.logger.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Update replaces a user remotely and by id locally on success
func (m *UserManager) Update(ctx context.Context, id int64, username, password string, role model.Role) (*model.UserCredentials, error) {
	user, err := m.gw.UpdateUser(ctx, id, username, password, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i] = *user
			break
		}
	}
	m.logger.Info("user updated", "user_id", id)
	return user, nil
}

// Delete removes a user after confirmation. It reports false with no error
// when the user declined; nothing was sent remotely in that case.
func (m *UserManager) Delete(ctx context.Context, id int64) (bool, error) {
	if !m.confirm(fmt.Sprintf("Delete user %d?", id)) {
		return false, nil
	}
	if _, err := m.gw.DeleteUser(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	users := m.users[:0]
	for _, u := range m.users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	m.users = users
	m.logger.Info("user deleted", "user_id", id)
	return true, nil
}

// TopicGateway is the remote surface the topic manager needs
type TopicGateway interface {
	GetAllTopicsDetails(ctx context.Context) ([]model.TopicDetails, error)
	CreateTopic(ctx context.Context, name string) (*model.TopicDetails, error)
	DeleteTopic(ctx context.Context, id int64) (*gateway.Message, error)
}

// TopicManager manages the global topic catalog
type TopicManager struct {
	gw      TopicGateway
	confirm Confirm
	logger  *slog.Logger
	topics  []model.TopicDetails
}

// NewTopicManager creates a topic manager. confirm gates every delete.
func NewTopicManager(gw TopicGateway, confirm Confirm, logger *slog.Logger) *TopicManager {
	return &TopicManager{gw: gw, confirm: confirm, logger: logger}
}

// Load fetches the full topic collection
func (m *TopicManager) Load(ctx context.Context) error {
	topics, err := m.gw.GetAllTopicsDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch topics: %w", err)
	}
	m.topics = topics
	return nil
}

// Topics returns a copy of the loaded collection
func (m *TopicManager) Topics() []model.TopicDetails {
	return append([]model.TopicDetails(nil), m.topics...)
}

// Create adds a topic remotely and appends it locally on success
func (m *TopicManager) Create(ctx context.Context, name string) (*model.TopicDetails, error) {
	topic, err := m.gw.CreateTopic(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	m.topics = append(m.topics, *topic)
	m.logger.Info("topic created", "topic_id", topic.ID, "name", topic.Name)
	return topic, nil
}

// Delete removes a topic after confirmation
func (m *TopicManager) Delete(ctx context.Context, id int64) (bool, error) {
	if !m.confirm(fmt.Sprintf("Delete topic %d?", id)) {
		return false, nil
	}
	if _, err := m.gw.DeleteTopic(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete topic: %w", err)
	}
	topics := m.topics[:0]
	for _, t := range m.topics {
		if t.ID != id {
			topics = append(topics, t)
		}
	}
	m.topics = topics
	m.logger.Info("topic deleted", "topic_id", id)
	return true, nil
}

// ChatGateway is the remote surface the chat manager needs
type ChatGateway interface {
	GetAllChatsDetails(ctx context.Context) ([]model.ChatDetails, error)
	DeleteChat(ctx context.Context, id int64) (*gateway.Message, error)
}

// ChatManager manages the global chat catalog. Chats are only ever created
// from the chat view, so the admin surface is list and delete.
type ChatManager struct {
	gw      ChatGateway
	confirm Confirm
	logger  *slog.Logger
	chats   []model.ChatDetails
}

// NewChatManager creates a chat manager. confirm gates every delete.
func NewChatManager(gw ChatGateway, confirm Confirm, logger *slog.Logger) *ChatManager {
	return &ChatManager{gw: gw, confirm: confirm, logger: logger}
}

// Load fetches the full chat collection
func (m *ChatManager) Load(ctx context.Context) error {
	chats, err := m.gw.GetAllChatsDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch chats: %w", err)
	}
	m.chats = chats
	return nil
}

// Chats returns a copy of the loaded collection
func (m *ChatManager) Chats() []model.ChatDetails {
	return append([]model.ChatDetails(nil), m.chats...)
}

// Delete removes a chat after confirmation
func (m *ChatManager) Delete(ctx context.Context, id int64) (bool, error) {
	if !m.confirm(fmt.Sprintf("Delete chat %d?", id)) {
		return false, nil
	}
	if _, err := m.gw.DeleteChat(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete chat: %w", err)
	}
	chats := m.chats[:0]
	for _, c := range m.chats {
		if c.ID != id {
			chats = append(chats, c)
		}
	}
	m.chats = chats
	m.logger.Info("chat deleted", "chat_id", id)
	return true, nil
}
