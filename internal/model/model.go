package model

import (
	"sort"
	"time"
)

// Role is a user's access level
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// AnswerSource is the provenance of a QA answer
type AnswerSource string

const (
	SourceSystem AnswerSource = "SYSTEM" // served from the backend cache
	SourceOpenAI AnswerSource = "OPENAI" // generated
	SourceNA     AnswerSource = "N/A"
)

// User represents an account as exposed to the client
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UserCredentials augments User with the password field used by admin views.
// The password is write-only from the client's point of view and is never
// rendered back in plaintext.
type UserCredentials struct {
	User
	Password string `json:"password"`
}

// AuthToken is the access credential issued at login
type AuthToken struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// Topic is a subject category a chat is created against
type Topic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TopicDetails is the detailed topic view. The backend exposes no fields
// beyond the name, so it is the same shape as Topic.
type TopicDetails = Topic

// Chat is a conversation thread owned by one user and scoped to one topic
type Chat struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"user_id"`
	TopicID int64 `json:"topic_id"`
}

// ChatDetails augments Chat with the resolved topic and, when the caller is
// allowed to see it, the owning user. Topic.ID always matches TopicID.
type ChatDetails struct {
	Chat
	User  *UserCredentials `json:"user,omitempty"`
	Topic TopicDetails     `json:"topic"`
}

// QA is one question/answer turn within a chat
type QA struct {
	ID         int64        `json:"id"`
	Question   string       `json:"question"`
	QTimestamp time.Time    `json:"q_timestamp"`
	Answer     string       `json:"answer"`
	ATimestamp *time.Time   `json:"a_timestamp"`
	ASource    AnswerSource `json:"a_source"`
}

// ChatDetailsWithQAs is the full transcript of the currently open chat
type ChatDetailsWithQAs struct {
	ChatDetails
	QAs []QA `json:"qas"`
}

// SortQAs orders a transcript by question timestamp ascending. The sort is
// stable so equal timestamps keep their insertion order, which makes the
// displayed order deterministic regardless of how the backend returned the
// rows.
func SortQAs(qas []QA) {
	sort.SliceStable(qas, func(i, j int) bool {
		return qas[i].QTimestamp.Before(qas[j].QTimestamp)
	})
}
