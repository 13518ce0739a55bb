package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resumechat/internal/store"
)

const defaultConversationTitle = "New Conversation"

// ChatService runs a single chat turn: resolve the conversation, call the
// responder with the stored history, then persist both sides of the exchange.
type ChatService struct {
	store     store.ConversationStore
	responder Responder
	logger    *zap.Logger
}

func NewChatService(st store.ConversationStore, responder Responder, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:     st,
		responder: responder,
		logger:    logger,
	}
}

// Chat forwards the user message and returns the assistant reply together
// with the conversation id, creating the conversation when no id is given.
// Storage and responder faults are terminal for this turn; nothing is retried.
func (s *ChatService) Chat(ctx context.Context, conversationID, message string) (string, string, error) {
	if conversationID == "" {
		id, err := s.store.CreateConversation(ctx, defaultConversationTitle)
		if err != nil {
			return "", "", fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = id
		s.logger.Info("created conversation for chat turn", zap.String("conversationID", id))
	}

	history, err := s.store.GetMessages(ctx, conversationID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load conversation history: %w", err)
	}

	reply, err := s.responder.Respond(ctx, conversationID, message, history)
	if err != nil {
		return "", "", fmt.Errorf("responder failed: %w", err)
	}

	if _, err := s.store.AddMessage(ctx, conversationID, message, store.SenderUser); err != nil {
		return "", "", fmt.Errorf("failed to store user message: %w", err)
	}
	if _, err := s.store.AddMessage(ctx, conversationID, reply, store.SenderBot); err != nil {
		return "", "", fmt.Errorf("failed to store bot message: %w", err)
	}

	return reply, conversationID, nil
}
