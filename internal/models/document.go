package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval workflow status of a document.
const (
	StatusDraft    = "Draft"
	StatusPending  = "Pending"
	StatusReview   = "Review"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Archival lifecycle flag, independent of the approval status.
const (
	ArchivedActive        = "Active"
	ArchivedArchived      = "Archived"
	ArchivedDeleted       = "Deleted"
	ArchivedForRestore    = "For Restore"
	ArchivedPendingReview = "Pending Review"
)

// ArchivedMetadata records when, by whom and why a document was archived.
// It is either fully populated or entirely absent on a document.
type ArchivedMetadata struct {
	DateArchived time.Time           `bson:"date_archived" json:"date_archived"`
	ArchivedBy   *primitive.ObjectID `bson:"archived_by,omitempty" json:"archived_by,omitempty"`
	Notes        string              `bson:"notes" json:"notes"`
}

// IsEmpty reports whether none of the metadata fields are set.
func (m *ArchivedMetadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.DateArchived.IsZero() && m.ArchivedBy == nil && m.Notes == ""
}

// Document represents one archived record in the registry.
type Document struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title          string              `bson:"title" json:"title"`
	Category       string              `bson:"category" json:"category"`
	Author         string              `bson:"author" json:"author"`
	Summary        string              `bson:"summary" json:"summary"`
	FileURL        string              `bson:"file_url" json:"file_url"`
	FileID         string              `bson:"file_id" json:"file_id"` // object-storage key
	FileName       string              `bson:"file_name" json:"file_name"`
	Size           int64               `bson:"size" json:"size"`
	Status         string              `bson:"status" json:"status"`
	ArchivedStatus string              `bson:"archived_status" json:"archived_status"`
	Tags           []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	Archived       *ArchivedMetadata   `bson:"archived_metadata,omitempty" json:"archived_metadata,omitempty"`
	OfficerID      *primitive.ObjectID `bson:"officer_id,omitempty" json:"officer_id,omitempty"`
	AdminID        *primitive.ObjectID `bson:"admin_id,omitempty" json:"admin_id,omitempty"`
	ApproverID     *primitive.ObjectID `bson:"approver_id,omitempty" json:"approver_id,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// DocumentUpdate is a partial update applied by the status-transition
// workflow. Nil fields are left untouched.
type DocumentUpdate struct {
	Title          *string             `json:"title,omitempty"`
	Category       *string             `json:"category,omitempty"`
	Summary        *string             `json:"summary,omitempty"`
	Status         *string             `json:"status,omitempty"`
	ArchivedStatus *string             `json:"archived_status,omitempty"`
	Archived       *ArchivedMetadata   `json:"archived_metadata,omitempty"`
	Tags           []string            `json:"tags,omitempty"`
	OfficerID      *primitive.ObjectID `json:"officer_id,omitempty"`
	ApproverID     *primitive.ObjectID `json:"approver_id,omitempty"`
}

// DocumentDetail is the denormalized read model returned to the dashboard:
// the document joined with the display names of its assigned users.
type DocumentDetail struct {
	Document     `bson:",inline"`
	OfficerName  string `bson:"officer_name,omitempty" json:"officer_name,omitempty"`
	AdminName    string `bson:"admin_name,omitempty" json:"admin_name,omitempty"`
	ApproverName string `bson:"approver_name,omitempty" json:"approver_name,omitempty"`
}

// DocumentFilter narrows listing queries.
type DocumentFilter struct {
	Status         string
	ArchivedStatus string
	Category       string
	Limit          int64
}
