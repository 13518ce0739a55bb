package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(apiHandler *APIHandler, allowOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Post("/chat", apiHandler.ChatHandler)

	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", apiHandler.CreateConversationHandler)
		r.Get("/", apiHandler.ListConversationsHandler)
		r.Get("/{conversationID}", apiHandler.GetConversationHandler)
		r.Put("/{conversationID}", apiHandler.UpdateConversationHandler)
		r.Delete("/{conversationID}", apiHandler.DeleteConversationHandler)
		r.Get("/{conversationID}/messages", apiHandler.GetMessagesHandler)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
