package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepository struct {
	collection *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		collection: db.Collection("comments"),
	}
}

// CreateComment inserts a new comment in visible state.
func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert comment")
		return nil, fmt.Errorf("failed to create comment: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = insertedID
	}
	return comment, nil
}

// GetDocumentComments fetches comments on a document. When visibleOnly is set,
// hidden and removed comments are filtered out.
func (r *CommentRepository) GetDocumentComments(ctx context.Context, documentID primitive.ObjectID, visibleOnly bool) ([]models.Comment, error) {
	filter := bson.M{"document_id": documentID}
	if visibleOnly {
		filter["status"] = models.CommentVisible
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %v", err)
	}
	return comments, nil
}

// SetCommentStatus moves a comment between moderation states.
func (r *CommentRepository) SetCommentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update comment status: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComment permanently removes a comment.
func (r *CommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
