package engine

import "TopicChat/internal/model"

// State holds the three derived collections the chat view renders from. All
// transitions go through the apply* reducers below, which either return a
// fully updated copy or are never called at all; there is no partially
// applied mutation.
type State struct {
	AvailableTopics []model.TopicDetails
	Chats           []model.ChatDetails
	ActiveChat      *model.ChatDetailsWithQAs
}

// applyInitialized installs the two initial fetches together. Both results
// must be present before the view is considered ready, so this is the only
// reducer that touches both collections from remote data.
func applyInitialized(s State, topics []model.TopicDetails, chats []model.ChatDetails) State {
	s.AvailableTopics = append([]model.TopicDetails(nil), topics...)
	s.Chats = append([]model.ChatDetails(nil), chats...)
	s.ActiveChat = nil
	return s
}

// applyChatSelected replaces the active transcript wholesale
func applyChatSelected(s State, chat *model.ChatDetailsWithQAs) State {
	s.ActiveChat = chat
	return s
}

// applyChatCreated appends the new chat, activates it with an empty
// transcript (a fresh chat has no turns, so no extra fetch is needed) and
// removes its topic from the available set, restoring the availability
// invariant without a re-fetch.
func applyChatCreated(s State, chat model.ChatDetails) State {
	s.Chats = append(append([]model.ChatDetails(nil), s.Chats...), chat)

	topics := make([]model.TopicDetails, 0, len(s.AvailableTopics))
	for _, t := range s.AvailableTopics {
		if t.ID != chat.TopicID {
			topics = append(topics, t)
		}
	}
	s.AvailableTopics = topics

	s.ActiveChat = &model.ChatDetailsWithQAs{
		ChatDetails: chat,
		QAs:         []model.QA{},
	}
	return s
}

// applyChatDeleted removes the chat, clears the active transcript if it was
// the one deleted and re-inserts the chat's topic into the available set,
// symmetric to applyChatCreated.
func applyChatDeleted(s State, chat model.ChatDetails) State {
	chats := make([]model.ChatDetails, 0, len(s.Chats))
	for _, c := range s.Chats {
		if c.ID != chat.ID {
			chats = append(chats, c)
		}
	}
	s.Chats = chats

	if s.ActiveChat != nil && s.ActiveChat.ID == chat.ID {
		s.ActiveChat = nil
	}

	s.AvailableTopics = append(append([]model.TopicDetails(nil), s.AvailableTopics...), chat.Topic)
	return s
}

// applyQAAppended appends an answered turn to the active transcript. The
// transcript keeps insertion order; display order is applied at consumption
// time by model.SortQAs.
func applyQAAppended(s State, qa model.QA) State {
	if s.ActiveChat == nil {
		return s
	}
	updated := *s.ActiveChat
	updated.QAs = append(append([]model.QA(nil), s.ActiveChat.QAs...), qa)
	s.ActiveChat = &updated
	return s
}
