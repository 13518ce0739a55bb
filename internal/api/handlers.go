package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"resumechat/internal/core"
	"resumechat/internal/store"
)

type APIHandler struct {
	store  store.ConversationStore
	chat   *core.ChatService
	logger *zap.Logger
}

func NewAPIHandler(st store.ConversationStore, chat *core.ChatService, logger *zap.Logger) *APIHandler {
	return &APIHandler{store: st, chat: chat, logger: logger}
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	reply, conversationID, err := h.chat.Chat(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		h.logger.Error("chat turn failed",
			zap.String("conversationID", req.ConversationID),
			zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:       reply,
		ConversationID: conversationID,
	})
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (h *APIHandler) CreateConversationHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Title == "" {
		req.Title = "New Conversation"
	}

	id, err := h.store.CreateConversation(r.Context(), req.Title)
	if err != nil {
		h.logger.Error("failed to create conversation", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, ConversationSummary{ID: id, Title: req.Title})
}

func (h *APIHandler) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 20)

	conversations, err := h.store.ListConversations(r.Context(), limit, skip)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, conversations)
}

func (h *APIHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	conversation, err := h.store.GetConversation(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get conversation", zap.String("conversationID", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if conversation == nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, conversation)
}

type UpdateConversationRequest struct {
	Title string `json:"title"`
}

func (h *APIHandler) UpdateConversationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	var req UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	updated, err := h.store.UpdateTitle(r.Context(), id, req.Title)
	if err != nil {
		h.logger.Error("failed to update conversation", zap.String("conversationID", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, ConversationSummary{ID: id, Title: req.Title})
}

func (h *APIHandler) DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	deleted, err := h.store.DeleteConversation(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete conversation", zap.String("conversationID", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}

func (h *APIHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	messages, err := h.store.GetMessages(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get messages", zap.String("conversationID", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
