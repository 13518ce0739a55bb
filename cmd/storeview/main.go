// Command storeview dumps the persisted conversations and messages, mainly
// for checking which backend a deployment actually ended up on.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"resumechat/internal/config"
	"resumechat/internal/store"
)

func main() {
	limit := flag.Int("limit", 20, "maximum number of conversations to dump")
	withMessages := flag.Bool("messages", true, "include each conversation's messages")
	flag.Parse()

	config.LoadConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	conversationStore, err := store.Open(ctx, store.Options{
		MongoURI:    config.AppConfig.MongoURI,
		MongoDBName: config.AppConfig.MongoDBName,
		PingTimeout: config.AppConfig.MongoPingWindow,
		DataDir:     config.AppConfig.DataDir,
	}, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer conversationStore.Close(ctx)

	switch conversationStore.(type) {
	case *store.MongoStore:
		fmt.Printf("backend: mongodb (%s/%s)\n", config.AppConfig.MongoURI, config.AppConfig.MongoDBName)
	case *store.FileStore:
		fmt.Printf("backend: local files (%s)\n", config.AppConfig.DataDir)
	}

	conversations, err := conversationStore.ListConversations(ctx, *limit, 0)
	if err != nil {
		logger.Fatal("failed to list conversations", zap.Error(err))
	}
	fmt.Printf("conversations: %d\n\n", len(conversations))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, conv := range conversations {
		if err := enc.Encode(conv); err != nil {
			logger.Fatal("failed to encode conversation", zap.Error(err))
		}
		if !*withMessages {
			continue
		}
		messages, err := conversationStore.GetMessages(ctx, conv.ID)
		if err != nil {
			logger.Fatal("failed to get messages",
				zap.String("conversationID", conv.ID), zap.Error(err))
		}
		for _, msg := range messages {
			fmt.Printf("  [%s] %s: %s\n", msg.CreatedAt.Format("2006-01-02 15:04:05"), msg.Sender, msg.Text)
		}
		fmt.Println()
	}
}
