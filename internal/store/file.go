package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

const (
	conversationsFile = "conversations.json"
	messagesFile      = "messages.json"
)

// FileStore is the degraded persistence mode used when MongoDB is unreachable
// at startup. Every operation is a whole-file read-modify-write of one of two
// JSON array files, serialized by a single mutex. Files are rewritten via a
// temp file and rename so a crash never leaves a half-written array, but the
// two files are not updated transactionally: a crash between the rewrites of
// a cascade delete can leave orphaned messages behind.
type FileStore struct {
	mu      sync.Mutex
	dataDir string
}

// NewFileStore prepares the data directory and seeds empty array files so a
// first read never fails on a missing file.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, name := range []string{conversationsFile, messagesFile} {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to initialize %s: %w", name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
	}
	return &FileStore{dataDir: dataDir}, nil
}

func (s *FileStore) CreateConversation(ctx context.Context, title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.readConversations()
	if err != nil {
		return "", err
	}

	// Ids are derived from the record count, as the networked backend never
	// shares them. Known defect: after a delete, a later create can reuse a
	// freed id.
	id := strconv.Itoa(len(conversations) + 1)
	now := time.Now().UTC()
	conversations = append(conversations, Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err := s.writeConversations(conversations); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) ListConversations(ctx context.Context, limit, skip int) ([]Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.readConversations()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	if skip >= len(conversations) {
		return []Conversation{}, nil
	}
	end := skip + limit
	if end > len(conversations) {
		end = len(conversations)
	}
	return conversations[skip:end], nil
}

func (s *FileStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.readConversations()
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].ID == id {
			conv := conversations[i]
			return &conv, nil
		}
	}
	return nil, nil
}

func (s *FileStore) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.readConversations()
	if err != nil {
		return false, err
	}
	for i := range conversations {
		if conversations[i].ID == id {
			conversations[i].Title = title
			conversations[i].UpdatedAt = time.Now().UTC()
			if err := s.writeConversations(conversations); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStore) DeleteConversation(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.readConversations()
	if err != nil {
		return false, err
	}

	kept := conversations[:0]
	for _, conv := range conversations {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	removed := len(kept) < len(conversations)
	if err := s.writeConversations(kept); err != nil {
		return false, err
	}

	// Cascade runs whether or not the conversation record existed.
	messages, err := s.readMessages()
	if err != nil {
		return removed, err
	}
	keptMsgs := messages[:0]
	for _, msg := range messages {
		if msg.ConversationID != id {
			keptMsgs = append(keptMsgs, msg)
		}
	}
	if err := s.writeMessages(keptMsgs); err != nil {
		return removed, err
	}

	return removed, nil
}

func (s *FileStore) AddMessage(ctx context.Context, conversationID, text, sender string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// Best-effort parent bump; a missing conversation does not block the write.
	conversations, err := s.readConversations()
	if err != nil {
		return "", err
	}
	for i := range conversations {
		if conversations[i].ID == conversationID {
			conversations[i].UpdatedAt = now
			if err := s.writeConversations(conversations); err != nil {
				return "", err
			}
			break
		}
	}

	messages, err := s.readMessages()
	if err != nil {
		return "", err
	}
	id := strconv.Itoa(len(messages) + 1)
	messages = append(messages, Message{
		ID:             id,
		ConversationID: conversationID,
		Text:           text,
		Sender:         sender,
		CreatedAt:      now,
	})
	if err := s.writeMessages(messages); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) GetMessages(ctx context.Context, conversationID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.readMessages()
	if err != nil {
		return nil, err
	}

	matched := make([]Message, 0)
	for _, msg := range messages {
		if msg.ConversationID == conversationID {
			matched = append(matched, msg)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) readConversations() ([]Conversation, error) {
	var conversations []Conversation
	if err := s.readFile(conversationsFile, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (s *FileStore) writeConversations(conversations []Conversation) error {
	if conversations == nil {
		conversations = []Conversation{}
	}
	return s.writeFile(conversationsFile, conversations)
}

func (s *FileStore) readMessages() ([]Message, error) {
	var messages []Message
	if err := s.readFile(messagesFile, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *FileStore) writeMessages(messages []Message) error {
	if messages == nil {
		messages = []Message{}
	}
	return s.writeFile(messagesFile, messages)
}

func (s *FileStore) readFile(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) writeFile(name string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
