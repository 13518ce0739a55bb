package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// MongoStore is the networked backend. Ids are ObjectIDs rendered as hex
// strings; per-document atomicity of single-field updates is left to MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}
}

type conversationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type messageDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ConversationID string             `bson:"conversation_id"`
	Text           string             `bson:"text"`
	Sender         string             `bson:"sender"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d conversationDoc) toModel() Conversation {
	return Conversation{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d messageDoc) toModel() Message {
	return Message{
		ID:             d.ID.Hex(),
		ConversationID: d.ConversationID,
		Text:           d.Text,
		Sender:         d.Sender,
		CreatedAt:      d.CreatedAt,
	}
}

func (s *MongoStore) CreateConversation(ctx context.Context, title string) (string, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	res, err := s.db.Collection(conversationsCollection).InsertOne(ctx, conversationDoc{
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert conversation: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) ListConversations(ctx context.Context, limit, skip int) ([]Conversation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(conversationsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer cursor.Close(ctx)

	conversations := make([]Conversation, 0)
	for cursor.Next(ctx) {
		var doc conversationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		conversations = append(conversations, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("conversation cursor failed: %w", err)
	}
	return conversations, nil
}

func (s *MongoStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // Malformed ids cannot match any document.
	}

	var doc conversationDoc
	err = s.db.Collection(conversationsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	conv := doc.toModel()
	return &conv, nil
}

func (s *MongoStore) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := s.db.Collection(conversationsCollection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"title": title, "updated_at": time.Now().UTC().Truncate(time.Millisecond)}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update conversation title: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) DeleteConversation(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := s.db.Collection(conversationsCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}

	// Cascade runs regardless of whether the conversation document matched.
	_, err = s.db.Collection(messagesCollection).DeleteMany(ctx, bson.M{"conversation_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation messages: %w", err)
	}

	return res.DeletedCount > 0, nil
}

func (s *MongoStore) AddMessage(ctx context.Context, conversationID, text, sender string) (string, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	// Best-effort parent bump; a missing or malformed parent id does not
	// block the message write.
	if oid, err := primitive.ObjectIDFromHex(conversationID); err == nil {
		_, err = s.db.Collection(conversationsCollection).UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return "", fmt.Errorf("failed to bump conversation timestamp: %w", err)
		}
	}

	res, err := s.db.Collection(messagesCollection).InsertOne(ctx, messageDoc{
		ConversationID: conversationID,
		Text:           text,
		Sender:         sender,
		CreatedAt:      now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert message: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) GetMessages(ctx context.Context, conversationID string) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.db.Collection(messagesCollection).Find(ctx,
		bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := make([]Message, 0)
	for cursor.Next(ctx) {
		var doc messageDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("message cursor failed: %w", err)
	}
	return messages, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
