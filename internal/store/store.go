// Package store persists conversations and their messages. Two backends
// implement the same interface: MongoStore over a MongoDB deployment and
// FileStore over two local JSON files. The backend is chosen once at startup
// by Open and never revisited for the process lifetime.
package store

import "context"

// ConversationStore is the capability both backends provide. Ids are opaque
// strings; callers must not assume anything about their structure.
//
// Lookups for a missing conversation return (nil, nil) rather than an error so
// the API layer can map them to 404. Mutations on a missing id report false.
type ConversationStore interface {
	// CreateConversation allocates a new id and persists the conversation with
	// created_at == updated_at.
	CreateConversation(ctx context.Context, title string) (string, error)

	// ListConversations returns conversations ordered by updated_at descending,
	// sliced by skip and limit. Past the end it returns an empty slice, never
	// an error.
	ListConversations(ctx context.Context, limit, skip int) ([]Conversation, error)

	// GetConversation returns the conversation or (nil, nil) when absent.
	GetConversation(ctx context.Context, id string) (*Conversation, error)

	// UpdateTitle sets the title and bumps updated_at. Returns false, with no
	// side effect, when the id does not exist.
	UpdateTitle(ctx context.Context, id, title string) (bool, error)

	// DeleteConversation removes the conversation and, unconditionally, every
	// message referencing it. Returns false when the conversation record did
	// not exist (the message cascade still runs).
	DeleteConversation(ctx context.Context, id string) (bool, error)

	// AddMessage appends an immutable message and advances the parent
	// conversation's updated_at to the message timestamp. The write is not
	// blocked by a missing parent; the message is stored regardless.
	AddMessage(ctx context.Context, conversationID, text, sender string) (string, error)

	// GetMessages returns every message of the conversation ordered ascending
	// by created_at; empty slice when the conversation is unknown or empty.
	GetMessages(ctx context.Context, conversationID string) ([]Message, error)

	// Close releases the backend connection, if any.
	Close(ctx context.Context) error
}
