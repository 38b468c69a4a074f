package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docqa-labs/docqa/internal/domain"
)

// MongoStore implements domain.DocumentStore and domain.HistoryStore on
// MongoDB. Each user's history is one document holding a conversations
// array; AppendTurn uses $push so concurrent appends both land, in some
// serial order, without a read-modify-write of the whole array.
type MongoStore struct {
	client        *mongo.Client
	documents     *mongo.Collection
	chunks        *mongo.Collection
	conversations *mongo.Collection
}

// NewMongoStore connects and pings the server.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:        client,
		documents:     db.Collection("documents"),
		chunks:        db.Collection("chunks"),
		conversations: db.Collection("conversations"),
	}, nil
}

// Close disconnects from the server.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) SaveMetadata(ctx context.Context, meta domain.DocumentMetadata) error {
	_, err := s.documents.InsertOne(ctx, meta)
	return err
}

func (s *MongoStore) SaveChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]any, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk
	}
	_, err := s.chunks.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) ListDocuments(ctx context.Context) ([]domain.DocumentMetadata, error) {
	cursor, err := s.documents.Find(ctx, bson.M{},
		mongoopts.Find().SetSort(bson.D{{Key: "upload_timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []domain.DocumentMetadata
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoStore) CountDocuments(ctx context.Context) (int, error) {
	count, err := s.documents.CountDocuments(ctx, bson.M{})
	return int(count), err
}

// AppendTurn pushes one turn onto the user's conversations array,
// creating the history document on first use.
func (s *MongoStore) AppendTurn(ctx context.Context, userID string, turn domain.ConversationTurn) error {
	_, err := s.conversations.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$push": bson.M{"conversations": turn},
			"$set":  bson.M{"last_updated": time.Now().UTC()},
		},
		mongoopts.Update().SetUpsert(true))
	return err
}

// RecentTurns fetches only the trailing limit elements of the user's
// conversations array.
func (s *MongoStore) RecentTurns(ctx context.Context, userID string, limit int) ([]domain.ConversationTurn, error) {
	var history struct {
		Conversations []domain.ConversationTurn `bson:"conversations"`
	}

	err := s.conversations.FindOne(ctx,
		bson.M{"user_id": userID},
		mongoopts.FindOne().SetProjection(bson.M{
			"conversations": bson.M{"$slice": -limit},
		})).Decode(&history)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return history.Conversations, nil
}

// Clear empties all three collections.
func (s *MongoStore) Clear(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{s.documents, s.chunks, s.conversations} {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}
