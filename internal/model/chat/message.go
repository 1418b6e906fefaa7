package chat

import "time"

// Role identifies who authored a timeline message. It is fixed at creation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation timeline.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// Exchange pairs the user's message with the assistant reply for one send.
type Exchange struct {
	User      Message `json:"user"`
	Assistant Message `json:"assistant"`
}
