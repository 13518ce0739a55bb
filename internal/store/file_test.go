package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestFileStoreCreateAndGetConversation(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	id, err := s.CreateConversation(ctx, "Resume Chat")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	conv, err := s.GetConversation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, id, conv.ID)
	assert.Equal(t, "Resume Chat", conv.Title)
	assert.True(t, conv.CreatedAt.Equal(conv.UpdatedAt), "created_at should equal updated_at on creation")
}

func TestFileStoreGetConversationMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	conv, err := s.GetConversation(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestFileStoreDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	first, err := s.CreateConversation(ctx, "first")
	require.NoError(t, err)
	second, err := s.CreateConversation(ctx, "second")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestFileStoreListConversationsOrderAndSlicing(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		id, err := s.CreateConversation(ctx, title)
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond)
	}

	// Touching the oldest conversation moves it to the front.
	_, err := s.AddMessage(ctx, ids[0], "hello", SenderUser)
	require.NoError(t, err)

	list, err := s.ListConversations(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[0], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
	assert.Equal(t, ids[1], list[2].ID)

	limited, err := s.ListConversations(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	skipped, err := s.ListConversations(ctx, 20, 2)
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, ids[1], skipped[0].ID)

	past, err := s.ListConversations(ctx, 20, 100)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestFileStoreUpdateTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	id, err := s.CreateConversation(ctx, "before")
	require.NoError(t, err)
	created, err := s.GetConversation(ctx, id)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := s.UpdateTitle(ctx, id, "after")
	require.NoError(t, err)
	assert.True(t, updated)

	conv, err := s.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", conv.Title)
	assert.True(t, conv.UpdatedAt.After(created.UpdatedAt), "updated_at should advance on title change")

	missing, err := s.UpdateTitle(ctx, "999", "nope")
	require.NoError(t, err)
	assert.False(t, missing)
}

func TestFileStoreAddAndGetMessages(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	id, err := s.CreateConversation(ctx, "Resume Chat")
	require.NoError(t, err)

	_, err = s.AddMessage(ctx, id, "My name is Alex", SenderUser)
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, id, "```\nMy name is Alex\n```", SenderBot)
	require.NoError(t, err)

	messages, err := s.GetMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, SenderUser, messages[0].Sender)
	assert.Equal(t, "My name is Alex", messages[0].Text)
	assert.Equal(t, SenderBot, messages[1].Sender)
	assert.Equal(t, "```\nMy name is Alex\n```", messages[1].Text)
	assert.False(t, messages[1].CreatedAt.Before(messages[0].CreatedAt))

	conv, err := s.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.True(t, conv.UpdatedAt.Equal(messages[1].CreatedAt), "message append should bump the parent's updated_at")
}

func TestFileStoreAddMessageWithoutParent(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	// No referential check: the message is stored even without a conversation.
	id, err := s.AddMessage(ctx, "orphan", "hello", SenderUser)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	messages, err := s.GetMessages(ctx, "orphan")
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestFileStoreDeleteConversationCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	id, err := s.CreateConversation(ctx, "to delete")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, id, "one", SenderUser)
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, id, "two", SenderBot)
	require.NoError(t, err)

	deleted, err := s.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	conv, err := s.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, conv)

	messages, err := s.GetMessages(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, messages)

	again, err := s.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestFileStoreRecordsCarryStringIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.CreateConversation(ctx, "on disk")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, conversationsFile))
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.IsType(t, "", records[0]["_id"])
	assert.Equal(t, "on disk", records[0]["title"])
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	id, err := s.CreateConversation(ctx, "persisted")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, id, "still here", SenderUser)
	require.NoError(t, err)

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	conv, err := reopened.GetConversation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, "persisted", conv.Title)

	messages, err := reopened.GetMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "still here", messages[0].Text)
}
