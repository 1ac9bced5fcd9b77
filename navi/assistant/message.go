package assistant

import (
	"time"
)

// Role labels one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation entry. The sequence is append-only from
// the orchestration layer's point of view; windowing and persistence belong
// to the calling UI.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ContactContext carries the optional structured lead data the customer
// variant threads into prompt composition. Every field is independently
// optional, and the orchestration layer never mutates it.
type ContactContext struct {
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Appointment *time.Time `json:"appointment,omitempty"`
}

// Empty reports whether no contact field has been collected yet.
func (c ContactContext) Empty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == "" && c.Appointment == nil
}

// windowMessages returns the last n messages. n <= 0 means no truncation.
func windowMessages(messages []Message, n int) []Message {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
