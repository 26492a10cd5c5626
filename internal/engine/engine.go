package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"TopicChat/internal/gateway"
	"TopicChat/internal/model"
)

// ErrBusy is returned when an operation targets an entity that already has a
// call in flight. The first call must resolve before a second one is
// accepted.
var ErrBusy = errors.New("operation already in flight for this entity")

// ValidationError is a precondition failure detected before any network call
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Gateway is the remote capability set the engine consumes
type Gateway interface {
	GetAvailableTopicsForUser(ctx context.Context, userID int64) ([]model.TopicDetails, error)
	GetAllChatsByUser(ctx context.Context, userID int64) ([]model.ChatDetails, error)
	GetChatDetailsWithQAs(ctx context.Context, id int64) (*model.ChatDetailsWithQAs, error)
	CreateChat(ctx context.Context, userID, topicID int64) (*model.ChatDetails, error)
	DeleteChat(ctx context.Context, id int64) (*gateway.Message, error)
	CreateQA(ctx context.Context, req gateway.CreateQARequest) (*model.QA, error)
}

// PendingQuestion is an in-flight or failed question. A question is never
// silently dropped: it stays here until the backend accepts it or the user
// discards it, and a failed one can be retried with its original timestamp.
type PendingQuestion struct {
	ID         string
	ChatID     int64
	TopicName  string
	Question   string
	QTimestamp time.Time
	Failed     bool
}

// Engine keeps the signed-in user's available topics, chats and active
// transcript mutually consistent across create/select/delete operations.
// Every operation either fully applies its state transition or leaves all
// collections untouched.
type Engine struct {
	gw     Gateway
	user   model.User
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	ready    bool
	inflight map[string]struct{}
	pending  []PendingQuestion
}

// New creates an engine for the given signed-in user
func New(gw Gateway, user model.User, logger *slog.Logger) *Engine {
	return &Engine{
		gw:       gw,
		user:     user,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Init fetches the available topics and the user's chats concurrently and
// installs both results together. A failure in either fetch aborts the whole
// initialization: no partial state is ever presented as ready.
func (e *Engine) Init(ctx context.Context) error {
	var (
		wg        sync.WaitGroup
		topics    []model.TopicDetails
		chats     []model.ChatDetails
		topicsErr error
		chatsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		topics, topicsErr = e.gw.GetAvailableTopicsForUser(ctx, e.user.ID)
	}()
	go func() {
		defer wg.Done()
		chats, chatsErr = e.gw.GetAllChatsByUser(ctx, e.user.ID)
	}()
	wg.Wait()

	if topicsErr != nil {
		return fmt.Errorf("failed to fetch available topics: %w", topicsErr)
	}
	if chatsErr != nil {
		return fmt.Errorf("failed to fetch chats: %w", chatsErr)
	}

	e.mu.Lock()
	e.state = applyInitialized(e.state, topics, chats)
	e.ready = true
	e.mu.Unlock()

	e.logger.Info("chat view initialized", "user_id", e.user.ID, "topics", len(topics), "chats", len(chats))
	return nil
}

// Ready reports whether initialization has completed
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// SelectChat makes the given chat the active one, fetching its transcript.
// Selecting the chat that is already active is a no-op and issues no fetch.
func (e *Engine) SelectChat(ctx context.Context, chat model.ChatDetails) error {
	e.mu.Lock()
	if e.state.ActiveChat != nil && e.state.ActiveChat.ID == chat.ID {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	key := fmt.Sprintf("chat/%d", chat.ID)
	if err := e.begin(key); err != nil {
		return err
	}
	defer e.end(key)

	full, err := e.gw.GetChatDetailsWithQAs(ctx, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch chat %d: %w", chat.ID, err)
	}

	e.mu.Lock()
	e.state = applyChatSelected(e.state, full)
	e.mu.Unlock()
	return nil
}

// CreateChat creates a chat against the topic and activates it. The topic
// leaves the available set on success; on failure every collection is left
// exactly as it was.
func (e *Engine) CreateChat(ctx context.Context, topic model.TopicDetails) error {
	if e.user.ID == 0 {
		return &ValidationError{Reason: "no signed-in user to create a chat for"}
	}
	if topic.ID == 0 {
		return &ValidationError{Reason: "no topic selected"}
	}

	key := fmt.Sprintf("topic/%d", topic.ID)
	if err := e.begin(key); err != nil {
		return err
	}
	defer e.end(key)

	chat, err := e.gw.CreateChat(ctx, e.user.ID, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}

	e.mu.Lock()
	e.state = applyChatCreated(e.state, *chat)
	e.mu.Unlock()

	e.logger.Info("chat created", "chat_id", chat.ID, "topic", topic.Name)
	return nil
}

// DeleteChat removes the chat and returns its topic to the available set. If
// the deleted chat was active, the transcript is cleared.
func (e *Engine) DeleteChat(ctx context.Context, chat model.ChatDetails) error {
	key := fmt.Sprintf("chat/%d", chat.ID)
	if err := e.begin(key); err != nil {
		return err
	}
	defer e.end(key)

	if _, err := e.gw.DeleteChat(ctx, chat.ID); err != nil {
		return fmt.Errorf("failed to delete chat %d: %w", chat.ID, err)
	}

	e.mu.Lock()
	e.state = applyChatDeleted(e.state, chat)
	e.mu.Unlock()

	e.logger.Info("chat deleted", "chat_id", chat.ID, "topic", chat.Topic.Name)
	return nil
}

// SendQuestion submits a question against the active chat. Empty text or the
// absence of an active chat is a no-op. The question is tracked as pending
// until the backend accepts it; on failure it is kept, marked failed, for
// RetryQuestion rather than silently dropped.
func (e *Engine) SendQuestion(ctx context.Context, text string) (string, error) {
	e.mu.Lock()
	if text == "" || e.state.ActiveChat == nil {
		e.mu.Unlock()
		return "", nil
	}
	chatID := e.state.ActiveChat.ID
	topicName := e.state.ActiveChat.Topic.Name
	e.mu.Unlock()

	key := fmt.Sprintf("qa/chat/%d", chatID)
	if err := e.begin(key); err != nil {
		return "", err
	}
	defer e.end(key)

	p := PendingQuestion{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		TopicName:  topicName,
		Question:   text,
		QTimestamp: time.Now(),
	}
	e.mu.Lock()
	e.pending = append(e.pending, p)
	e.mu.Unlock()

	return p.ID, e.submit(ctx, p)
}

// RetryQuestion resends a failed pending question with its original
// timestamp
func (e *Engine) RetryQuestion(ctx context.Context, id string) error {
	e.mu.Lock()
	var p *PendingQuestion
	for i := range e.pending {
		if e.pending[i].ID == id {
			p = &e.pending[i]
			break
		}
	}
	if p == nil || !p.Failed {
		e.mu.Unlock()
		return &ValidationError{Reason: "no failed question with that id"}
	}
	retry := *p
	e.mu.Unlock()

	key := fmt.Sprintf("qa/chat/%d", retry.ChatID)
	if err := e.begin(key); err != nil {
		return err
	}
	defer e.end(key)

	return e.submit(ctx, retry)
}

// DiscardQuestion drops a failed pending question without resending it
func (e *Engine) DiscardQuestion(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removePendingLocked(id)
}

// submit performs the QA call for a pending question and settles its fate:
// appended to the transcript on success, marked failed on error. The caller
// holds the in-flight marker for the chat.
func (e *Engine) submit(ctx context.Context, p PendingQuestion) error {
	qa, err := e.gw.CreateQA(ctx, gateway.CreateQARequest{
		ChatID:     p.ChatID,
		TopicName:  p.TopicName,
		Question:   p.Question,
		QTimestamp: p.QTimestamp,
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		for i := range e.pending {
			if e.pending[i].ID == p.ID {
				e.pending[i].Failed = true
				break
			}
		}
		return fmt.Errorf("failed to send question: %w", err)
	}

	e.removePendingLocked(p.ID)
	if e.state.ActiveChat != nil && e.state.ActiveChat.ID == p.ChatID {
		e.state = applyQAAppended(e.state, *qa)
	}
	return nil
}

func (e *Engine) removePendingLocked(id string) {
	pending := e.pending[:0]
	for _, q := range e.pending {
		if q.ID != id {
			pending = append(pending, q)
		}
	}
	e.pending = pending
}

// AvailableTopics returns a copy of the topics the user can still start a
// chat against
func (e *Engine) AvailableTopics() []model.TopicDetails {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.TopicDetails(nil), e.state.AvailableTopics...)
}

// Chats returns a copy of the user's chats
func (e *Engine) Chats() []model.ChatDetails {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.ChatDetails(nil), e.state.Chats...)
}

// ActiveChat returns a copy of the active chat, if one is open
func (e *Engine) ActiveChat() (model.ChatDetailsWithQAs, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.ActiveChat == nil {
		return model.ChatDetailsWithQAs{}, false
	}
	return *e.state.ActiveChat, true
}

// Transcript returns the active chat's turns in display order: question
// timestamp ascending, ties kept in insertion order. Repeated calls over the
// same data yield the same order.
func (e *Engine) Transcript() []model.QA {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.ActiveChat == nil {
		return nil
	}
	qas := append([]model.QA(nil), e.state.ActiveChat.QAs...)
	model.SortQAs(qas)
	return qas
}

// PendingQuestions returns a copy of the questions not yet accepted by the
// backend, failed ones included
func (e *Engine) PendingQuestions() []PendingQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PendingQuestion(nil), e.pending...)
}

func (e *Engine) begin(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.inflight[key]; ok {
		return ErrBusy
	}
	e.inflight[key] = struct{}{}
	return nil
}

func (e *Engine) end(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, key)
}
