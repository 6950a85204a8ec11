package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// DocumentRepository handles database operations on the documents collection.
type DocumentRepository struct {
	collection *mongo.Collection
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{
		collection: db.Collection("documents"),
	}
}

// CreateDocument inserts a new document record.
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert document")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted document ID")
		return nil, errors.New("failed to cast inserted ID")
	}
	doc.ID = insertedID

	logger.Log.WithField("document_id", doc.ID.Hex()).Info("Document created")
	return doc, nil
}

// GetDocumentByID fetches a document by its ID.
func (r *DocumentRepository) GetDocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).WithField("document_id", id.Hex()).Error("Failed to find document")
		return nil, err
	}

	return &doc, nil
}

// ReplaceDocument overwrites the stored record with doc. Replacement rather
// than $set so that fields cleared by the workflow (archived_metadata)
// actually disappear from the stored record.
func (r *DocumentRepository) ReplaceDocument(ctx context.Context, id primitive.ObjectID, doc *models.Document) (*models.Document, error) {
	doc.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		logger.Log.WithError(err).WithField("document_id", id.Hex()).Error("Failed to replace document")
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	doc.ID = id
	return doc, nil
}

// DeleteDocument permanently removes a document record.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("document_id", id.Hex()).Error("Failed to delete document")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("document_id", id.Hex()).Info("Document deleted")
	return nil
}

// ListDocuments fetches documents matching the given filter.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ArchivedStatus != "" {
		query["archived_status"] = filter.ArchivedStatus
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list documents")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		logger.Log.WithError(err).Error("Failed to decode documents")
		return nil, err
	}
	return docs, nil
}

// GetDocumentDetail returns the document joined with the display names of
// its assigned users, for the dashboard view.
func (r *DocumentRepository) GetDocumentDetail(ctx context.Context, id primitive.ObjectID) (*models.DocumentDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		lookupUser("officer_id", "officer"),
		unwindFirst("officer"),
		lookupUser("admin_id", "admin"),
		unwindFirst("admin"),
		lookupUser("approver_id", "approver"),
		unwindFirst("approver"),
		{{Key: "$addFields", Value: bson.M{
			"officer_name":  "$officer.username",
			"admin_name":    "$admin.username",
			"approver_name": "$approver.username",
		}}},
		{{Key: "$project", Value: bson.M{"officer": 0, "admin": 0, "approver": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		logger.Log.WithError(err).WithField("document_id", id.Hex()).Error("Failed to aggregate document detail")
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []models.DocumentDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}

func lookupUser(localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         "users",
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
	}}}
}

func unwindFirst(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.M{
		"path":                       "$" + path,
		"preserveNullAndEmptyArrays": true,
	}}}
}

// FindArchivable returns approved or rejected documents created on or before
// cutoff that have not been archived yet.
func (r *DocumentRepository) FindArchivable(ctx context.Context, cutoff time.Time) ([]models.Document, error) {
	filter := bson.M{
		"status":          bson.M{"$in": bson.A{models.StatusApproved, models.StatusRejected}},
		"archived_status": bson.M{"$ne": models.ArchivedArchived},
		"created_at":      bson.M{"$lte": cutoff},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to find archivable documents")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// MarkArchived flips a document to Archived and stamps its metadata.
func (r *DocumentRepository) MarkArchived(ctx context.Context, id primitive.ObjectID, meta *models.ArchivedMetadata) error {
	update := bson.M{"$set": bson.M{
		"archived_status":   models.ArchivedArchived,
		"archived_metadata": meta,
		"updated_at":        time.Now(),
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("document_id", id.Hex()).Error("Failed to mark document archived")
	}
	return err
}

// FindDeletedBefore returns documents flagged Deleted (any letter case)
// created on or before cutoff.
func (r *DocumentRepository) FindDeletedBefore(ctx context.Context, cutoff time.Time) ([]models.Document, error) {
	filter := bson.M{
		"archived_status": bson.M{"$regex": "^deleted$", "$options": "i"},
		"created_at":      bson.M{"$lte": cutoff},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to find deleted documents")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
