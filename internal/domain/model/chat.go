package model

import "time"

// ChatMessage is one turn of the AI assistant conversation.
type ChatMessage struct {
	Role      string // "user" | "assistant" | "system"
	Content   string
	Timestamp time.Time
}

// ChatSession holds the short rolling assistant history kept per user.
type ChatSession struct {
	UserID    string
	Messages  []ChatMessage
	UpdatedAt time.Time
}

// Trim keeps only the most recent max messages.
func (s *ChatSession) Trim(max int) {
	if max > 0 && len(s.Messages) > max {
		s.Messages = s.Messages[len(s.Messages)-max:]
	}
}
