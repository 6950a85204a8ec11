package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation states of a comment.
const (
	CommentVisible = "visible"
	CommentHidden  = "hidden"
	CommentRemoved = "removed"
)

// Comment is a remark attached to a document, subject to moderation.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID primitive.ObjectID `bson:"document_id" json:"document_id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	Body       string             `bson:"body" json:"body"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
