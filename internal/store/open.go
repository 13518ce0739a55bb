package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Options selects and configures the physical backend probed by Open.
type Options struct {
	MongoURI    string
	MongoDBName string
	PingTimeout time.Duration
	DataDir     string
}

// Open decides the backend for the process lifetime. It probes MongoDB with a
// single bounded ping; on any failure it logs a warning and returns the
// local-file store instead. There is no retry or reconnect logic: the decision
// is final.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (ConversationStore, error) {
	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}

	mongoStore, err := openMongo(ctx, opts.MongoURI, opts.MongoDBName, pingTimeout)
	if err == nil {
		logger.Info("connected to MongoDB", zap.String("db", opts.MongoDBName))
		return mongoStore, nil
	}

	logger.Warn("MongoDB unreachable, falling back to local JSON storage",
		zap.Error(err),
		zap.String("dataDir", opts.DataDir))

	fileStore, err := NewFileStore(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local file storage: %w", err)
	}
	return fileStore, nil
}

func openMongo(ctx context.Context, uri, dbName string, pingTimeout time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(pingTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to construct mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Release whatever the driver may have dialed before giving up.
		disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), time.Second)
		defer cancelDisconnect()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return NewMongoStore(client, dbName), nil
}
