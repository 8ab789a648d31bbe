package handlers

import "sync"

// SentMessage is a bot message shown in a Telegram chat for one block.
type SentMessage struct {
	MessageID int
	Text      string
}

// MessageTracker remembers which Telegram message displays which block, so a
// language switch can edit the messages whose text changed.
type MessageTracker struct {
	mu    sync.Mutex
	chats map[string]map[int]SentMessage
}

// NewMessageTracker creates an empty tracker.
func NewMessageTracker() *MessageTracker {
	return &MessageTracker{chats: make(map[string]map[int]SentMessage)}
}

// Track records that messageID shows block index of conversation id.
func (t *MessageTracker) Track(id string, index, messageID int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.chats[id]
	if !ok {
		m = make(map[int]SentMessage)
		t.chats[id] = m
	}
	m[index] = SentMessage{MessageID: messageID, Text: text}
}

// Messages returns a copy of the tracked messages of conversation id.
func (t *MessageTracker) Messages(id string) map[int]SentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]SentMessage, len(t.chats[id]))
	for k, v := range t.chats[id] {
		out[k] = v
	}
	return out
}

// Forget drops every tracked message of conversation id.
func (t *MessageTracker) Forget(id string) {
	t.mu.Lock()
	delete(t.chats, id)
	t.mu.Unlock()
}
