// Package chat models a single chat conversation as an explicit state value
// with pure transitions.
package chat

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxMessageLength is the maximum number of characters in a user message.
const MaxMessageLength = 500

// Greeting is the assistant's opening message.
const Greeting = "👋 Hello! I'm your AI assistant. How can I help you today?"

// QuickActions are the canned prompts offered under the input box.
var QuickActions = []string{
	"What services do you offer?",
	"Show me recommendations",
	"How does this work?",
}

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message exceeds 500 characters")
	ErrBusy           = errors.New("a response is still pending")
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// State is a conversation snapshot. Transitions return a new State and
// never modify the receiver's message slice.
type State struct {
	Messages []Message
	Loading  bool
	// Pending is the sequence number of the outstanding request, zero when idle.
	Pending uint64
	seq     uint64
}

// NewState starts a conversation with the greeting.
func NewState(now time.Time) State {
	return State{Messages: []Message{newMessage(RoleAssistant, Greeting, now)}}
}

// AppendUserMessage records a user message and marks the session as loading.
// It returns the sequence number the eventual response must carry.
func AppendUserMessage(s State, content string, now time.Time) (State, uint64, error) {
	if strings.TrimSpace(content) == "" {
		return s, 0, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return s, 0, ErrMessageTooLong
	}
	if s.Loading {
		return s, 0, ErrBusy
	}

	next := s.withMessage(newMessage(RoleUser, content, now))
	next.seq = s.seq + 1
	next.Pending = next.seq
	next.Loading = true
	return next, next.seq, nil
}

// ApplyResponse appends the assistant reply for seq and clears loading.
// A reply for any other sequence number is stale and ignored; the second
// result reports whether the reply was applied.
func ApplyResponse(s State, seq uint64, content string, now time.Time) (State, bool) {
	if !s.Loading || seq != s.Pending {
		return s, false
	}
	next := s.withMessage(newMessage(RoleAssistant, content, now))
	next.Loading = false
	next.Pending = 0
	return next, true
}

// ResetLoading abandons the outstanding request.
func ResetLoading(s State) State {
	s.Loading = false
	s.Pending = 0
	return s
}

func (s State) withMessage(m Message) State {
	messages := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(messages, s.Messages)
	s.Messages = append(messages, m)
	return s
}

func newMessage(role Role, content string, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
}
