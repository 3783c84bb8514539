package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"muse-ai/backend/internal/model"
)

type mongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection("conversations")}
}

func (r *mongoRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	if _, err := r.col.InsertOne(ctx, conv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("could not insert conversation: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	filter := bson.M{"_id": conversationID, "user_id": userID}

	var conv model.Conversation
	if err := r.col.FindOne(ctx, filter).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load conversation: %w", err)
	}
	return &conv, nil
}

// SaveConversation performs a compare-and-increment write: the update filter
// pins the version the caller loaded, and the update bumps it. A matched count
// of zero means another writer got there first.
func (r *mongoRepository) SaveConversation(ctx context.Context, conv *model.Conversation) error {
	filter := bson.M{
		"_id":     conv.ID,
		"user_id": conv.UserID,
		"version": conv.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"title":      conv.Title,
			"messages":   conv.Messages,
			"status":     conv.Status,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("could not save conversation: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a stale version from a conversation that never existed.
		n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": conv.ID, "user_id": conv.UserID})
		if countErr == nil && n > 0 {
			return ErrConflict
		}
		return ErrNotFound
	}
	conv.Version++
	return nil
}

func (r *mongoRepository) ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.M{"updated_at": -1}}},
		{{Key: "$project", Value: bson.M{
			"title":         1,
			"status":        1,
			"created_at":    1,
			"updated_at":    1,
			"message_count": bson.M{"$size": "$messages"},
			"last_message":  bson.M{"$arrayElemAt": bson.A{"$messages", -1}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("could not list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []model.ConversationSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("could not decode conversation summaries: %w", err)
	}
	return summaries, nil
}

func (r *mongoRepository) UpdateTitle(ctx context.Context, userID, conversationID, title string) error {
	return r.updateFields(ctx, userID, conversationID, bson.M{"title": title})
}

func (r *mongoRepository) SetStatus(ctx context.Context, userID, conversationID, status string) error {
	return r.updateFields(ctx, userID, conversationID, bson.M{"status": status})
}

func (r *mongoRepository) updateFields(ctx context.Context, userID, conversationID string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": conversationID, "user_id": userID},
		bson.M{"$set": fields, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return fmt.Errorf("could not update conversation: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
