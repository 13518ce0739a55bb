package store

import "time"

// Sender values accepted for a message.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type Conversation struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversation_id"`
	Text           string    `json:"text"`
	Sender         string    `json:"sender"` // "user" or "bot"
	CreatedAt      time.Time `json:"created_at"`
}
