package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity log entry types.
const (
	ActivityCreate  = "CREATE"
	ActivityUpdate  = "UPDATE"
	ActivityDelete  = "DELETE"
	ActivityRestore = "RESTORE"
	ActivityArchive = "ARCHIVE"
	ActivityReview  = "REVIEW"
)

// Activity is a write-once audit record of a state-changing action. Entries
// are never updated or deleted by normal operation.
type Activity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type       string             `bson:"type" json:"type"`
	ActorID    primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	ActorRole  Role               `bson:"actor_role" json:"actor_role"`
	DocumentID primitive.ObjectID `bson:"document_id" json:"document_id"`
	Before     bson.M             `bson:"before,omitempty" json:"before,omitempty"`
	After      bson.M             `bson:"after,omitempty" json:"after,omitempty"`
	Message    string             `bson:"message" json:"message"`
	Level      string             `bson:"level" json:"level"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
