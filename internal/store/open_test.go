package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenFallsBackToFileStore(t *testing.T) {
	ctx := context.Background()

	// Port 1 refuses connections, so the ping fails well inside the window.
	s, err := Open(ctx, Options{
		MongoURI:    "mongodb://127.0.0.1:1",
		MongoDBName: "resume_chat_app",
		PingTimeout: 500 * time.Millisecond,
		DataDir:     t.TempDir(),
	}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close(ctx)

	_, ok := s.(*FileStore)
	require.True(t, ok, "expected fallback to FileStore when MongoDB is unreachable")

	// The fallback store must be usable immediately.
	id, err := s.CreateConversation(ctx, "offline")
	require.NoError(t, err)
	conv, err := s.GetConversation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, conv)
}
