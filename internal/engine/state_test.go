package engine

import (
	"testing"
	"time"

	"TopicChat/internal/model"
)

func topic(id int64, name string) model.TopicDetails {
	return model.TopicDetails{ID: id, Name: name}
}

func chatOn(id int64, t model.TopicDetails) model.ChatDetails {
	return model.ChatDetails{
		Chat:  model.Chat{ID: id, UserID: 7, TopicID: t.ID},
		Topic: t,
	}
}

// topicUnion collects the ids visible across the available set and the
// chats' topics, tracking duplicates.
func topicUnion(t *testing.T, s State) map[int64]int {
	t.Helper()
	seen := map[int64]int{}
	for _, tp := range s.AvailableTopics {
		seen[tp.ID]++
	}
	for _, c := range s.Chats {
		seen[c.TopicID]++
	}
	return seen
}

func checkInvariant(t *testing.T, s State, allTopics []model.TopicDetails) {
	t.Helper()
	seen := topicUnion(t, s)
	if len(seen) != len(allTopics) {
		t.Fatalf("topic union has %d entries, want %d: %v", len(seen), len(allTopics), seen)
	}
	for _, tp := range allTopics {
		if seen[tp.ID] != 1 {
			t.Fatalf("topic %d appears %d times across the collections, want exactly once", tp.ID, seen[tp.ID])
		}
	}
}

func TestTopicAvailabilityInvariant(t *testing.T) {
	a, b, c := topic(1, "go"), topic(2, "sql"), topic(3, "http")
	all := []model.TopicDetails{a, b, c}

	s := applyInitialized(State{}, all, nil)
	checkInvariant(t, s, all)

	chatB := chatOn(10, b)
	s = applyChatCreated(s, chatB)
	checkInvariant(t, s, all)

	if len(s.AvailableTopics) != 2 {
		t.Fatalf("expected 2 available topics after create, got %d", len(s.AvailableTopics))
	}
	for _, tp := range s.AvailableTopics {
		if tp.ID == b.ID {
			t.Fatal("created chat's topic must leave the available set")
		}
	}

	chatA := chatOn(11, a)
	s = applyChatCreated(s, chatA)
	checkInvariant(t, s, all)

	s = applyChatDeleted(s, chatB)
	checkInvariant(t, s, all)

	s = applyChatDeleted(s, chatA)
	checkInvariant(t, s, all)
	if len(s.AvailableTopics) != 3 {
		t.Fatalf("expected all 3 topics available again, got %d", len(s.AvailableTopics))
	}
}

func TestChatCreatedActivatesEmptyTranscript(t *testing.T) {
	b := topic(2, "sql")
	s := applyInitialized(State{}, []model.TopicDetails{b}, nil)

	s = applyChatCreated(s, chatOn(10, b))

	if s.ActiveChat == nil {
		t.Fatal("created chat must become active")
	}
	if s.ActiveChat.ID != 10 {
		t.Fatalf("active chat id = %d, want 10", s.ActiveChat.ID)
	}
	if len(s.ActiveChat.QAs) != 0 {
		t.Fatalf("fresh chat must start with an empty transcript, got %d turns", len(s.ActiveChat.QAs))
	}
}

func TestChatDeletedClearsActiveOnlyWhenDeleted(t *testing.T) {
	a, b := topic(1, "go"), topic(2, "sql")
	s := applyInitialized(State{}, []model.TopicDetails{a, b}, nil)
	s = applyChatCreated(s, chatOn(10, a))
	s = applyChatCreated(s, chatOn(11, b))

	// active is chat 11; deleting chat 10 must not clear it
	s = applyChatDeleted(s, chatOn(10, a))
	if s.ActiveChat == nil || s.ActiveChat.ID != 11 {
		t.Fatal("deleting a non-active chat must leave the active chat alone")
	}

	s = applyChatDeleted(s, chatOn(11, b))
	if s.ActiveChat != nil {
		t.Fatal("deleting the active chat must clear it")
	}
}

func TestReducersDoNotMutateInput(t *testing.T) {
	a, b := topic(1, "go"), topic(2, "sql")
	base := applyInitialized(State{}, []model.TopicDetails{a, b}, []model.ChatDetails{chatOn(10, a)})

	beforeTopics := len(base.AvailableTopics)
	beforeChats := len(base.Chats)

	_ = applyChatCreated(base, chatOn(11, b))
	_ = applyChatDeleted(base, chatOn(10, a))

	if len(base.AvailableTopics) != beforeTopics || len(base.Chats) != beforeChats {
		t.Fatal("reducers must not mutate the state they were given")
	}
}

func TestTranscriptOrderDeterminism(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 3, 1, h, m, 0, 0, time.UTC)
	}

	qas := []model.QA{
		{ID: 3, Question: "third", QTimestamp: at(10, 2)},
		{ID: 1, Question: "first", QTimestamp: at(10, 0)},
		{ID: 2, Question: "second", QTimestamp: at(10, 1)},
	}

	model.SortQAs(qas)

	for i, want := range []int64{1, 2, 3} {
		if qas[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, qas[i].ID, want)
		}
	}

	// ties keep insertion order
	tied := []model.QA{
		{ID: 5, QTimestamp: at(10, 0)},
		{ID: 6, QTimestamp: at(10, 0)},
	}
	model.SortQAs(tied)
	if tied[0].ID != 5 || tied[1].ID != 6 {
		t.Fatal("equal timestamps must keep insertion order")
	}
}
