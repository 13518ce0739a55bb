package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"resumechat/internal/api"
	"resumechat/internal/config"
	"resumechat/internal/core"
	"resumechat/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	logger := newLogger(config.AppConfig.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	// Pick the storage backend once for the process lifetime.
	conversationStore, err := store.Open(ctx, store.Options{
		MongoURI:    config.AppConfig.MongoURI,
		MongoDBName: config.AppConfig.MongoDBName,
		PingTimeout: config.AppConfig.MongoPingWindow,
		DataDir:     config.AppConfig.DataDir,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer conversationStore.Close(ctx)

	if config.AppConfig.OpenAIAPIKey == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is required")
	}

	// Initialize the resume responder
	responder, err := core.NewLLMResponder(
		config.AppConfig.OpenAIAPIKey,
		config.AppConfig.ModelName,
		config.AppConfig.Temperature,
	)
	if err != nil {
		logger.Fatal("failed to initialize responder", zap.Error(err))
	}

	chatService := core.NewChatService(conversationStore, responder, logger)

	apiHandler := api.NewAPIHandler(conversationStore, chatService, logger)
	router := api.NewRouter(apiHandler, config.AppConfig.AllowOrigins, logger)

	serverAddr := fmt.Sprintf("%s:%s", config.AppConfig.Host, config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("starting server", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not listen", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting gracefully")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "DEBUG" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
