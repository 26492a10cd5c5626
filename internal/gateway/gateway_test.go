package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"TopicChat/internal/model"
	"TopicChat/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, handler http.Handler, sess *session.Store) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, sess, testLogger(), otel.Tracer("test"), otel.Meter("test"))
}

func loggedInStore(t *testing.T, token string) *session.Store {
	t.Helper()
	s := session.NewStore(nil, testLogger())
	s.Login(
		model.User{ID: 7, Username: "maria", Role: model.RoleUser},
		model.AuthToken{Token: token, Expiry: time.Now().Add(time.Hour)},
	)
	return s
}

func TestBearerHeaderAttachedWhenLoggedIn(t *testing.T) {
	var got string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.TopicDetails{})
	})
	c := testClient(t, h, loggedInStore(t, "tok-123"))

	if _, err := c.GetAllTopics(context.Background()); err != nil {
		t.Fatalf("GetAllTopics: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want bearer token", got)
	}
}

func TestNoBearerHeaderWhenLoggedOut(t *testing.T) {
	var got string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.TopicDetails{})
	})
	c := testClient(t, h, session.NewStore(nil, testLogger()))

	if _, err := c.GetAllTopics(context.Background()); err != nil {
		t.Fatalf("GetAllTopics: %v", err)
	}
	if got != "" {
		t.Fatalf("Authorization = %q, want no header", got)
	}
}

func TestRoutesAndQueries(t *testing.T) {
	type seen struct {
		method string
		path   string
		query  string
	}
	var last seen

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = seen{r.Method, r.URL.Path, r.URL.RawQuery}
		io.WriteString(w, "null")
	})
	c := testClient(t, h, loggedInStore(t, "tok"))
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
		want seen
	}{
		{
			"available topics",
			func() error { _, err := c.GetAvailableTopicsForUser(ctx, 7); return err },
			seen{http.MethodGet, "/api/topic/available", "user_id=7"},
		},
		{
			"all chats by user",
			func() error { _, err := c.GetAllChatsByUser(ctx, 7); return err },
			seen{http.MethodGet, "/api/chat/user-all/details", "user_id=7"},
		},
		{
			"chat with transcript",
			func() error { _, err := c.GetChatDetailsWithQAs(ctx, 42); return err },
			seen{http.MethodGet, "/api/chat/details/qas", "id=42"},
		},
		{
			"create chat",
			func() error { _, err := c.CreateChat(ctx, 7, 3); return err },
			seen{http.MethodPost, "/api/chat", ""},
		},
		{
			"delete chat",
			func() error { _, err := c.DeleteChat(ctx, 42); return err },
			seen{http.MethodDelete, "/api/chat", "id=42"},
		},
		{
			"delete topic",
			func() error { _, err := c.DeleteTopic(ctx, 3); return err },
			seen{http.MethodDelete, "/api/topic", "id=3"},
		},
		{
			"update user",
			func() error {
				_, err := c.UpdateUser(ctx, 7, "maria", "s3cret", model.RoleUser)
				return err
			},
			seen{http.MethodPut, "/api/user", ""},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); err != nil {
				t.Fatalf("call: %v", err)
			}
			if last != tc.want {
				t.Fatalf("got %+v, want %+v", last, tc.want)
			}
		})
	}
}

func TestCreateQAPayload(t *testing.T) {
	var body map[string]interface{}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(model.QA{ID: 1, Question: "q", ASource: model.SourceOpenAI})
	})
	c := testClient(t, h, loggedInStore(t, "tok"))

	asked := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	qa, err := c.CreateQA(context.Background(), CreateQARequest{
		ChatID:     42,
		TopicName:  "go",
		Question:   "what is a channel?",
		QTimestamp: asked,
	})
	if err != nil {
		t.Fatalf("CreateQA: %v", err)
	}

	if body["chat_id"] != float64(42) {
		t.Errorf("chat_id = %v, want 42", body["chat_id"])
	}
	if body["topic_name"] != "go" {
		t.Errorf("topic_name = %v, want go", body["topic_name"])
	}
	if body["question"] != "what is a channel?" {
		t.Errorf("question = %v", body["question"])
	}
	if _, ok := body["q_timestamp"]; !ok {
		t.Error("q_timestamp missing from payload")
	}
	if qa.ASource != model.SourceOpenAI {
		t.Errorf("answer source = %q", qa.ASource)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	})
	c := testClient(t, h, loggedInStore(t, "tok"))

	_, err := c.GetTopic(context.Background(), 99)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestLoginBuildsCredentialsAndParsesResponse(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected route %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "maria" || creds["password"] != "s3cret" {
			t.Errorf("unexpected credentials %v", creds)
		}
		json.NewEncoder(w).Encode(LoginResponse{
			UserID:      7,
			Role:        model.RoleUser,
			AccessToken: "tok-456",
			TokenType:   "bearer",
			Expiry:      time.Now().Add(time.Hour),
		})
	})
	c := testClient(t, h, session.NewStore(nil, testLogger()))

	resp, err := c.Login(context.Background(), "maria", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.UserID != 7 || resp.AccessToken != "tok-456" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
