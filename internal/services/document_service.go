package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/presence"
	"github.com/nursultan-qb/docvault/pkg/email"
	"github.com/nursultan-qb/docvault/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidInput marks validation failures surfaced as 400-equivalents.
var ErrInvalidInput = errors.New("invalid input")

const deleteStampNote = "Archived due to delete"

type documentStore interface {
	CreateDocument(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetDocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	ReplaceDocument(ctx context.Context, id primitive.ObjectID, doc *models.Document) (*models.Document, error)
	DeleteDocument(ctx context.Context, id primitive.ObjectID) error
	ListDocuments(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
	GetDocumentDetail(ctx context.Context, id primitive.ObjectID) (*models.DocumentDetail, error)
}

type notifier interface {
	NotifyAdmins(ctx context.Context, message string, fileID *primitive.ObjectID, eventName string) (*models.Notification, error)
	NotifyUser(ctx context.Context, userID primitive.ObjectID, message string, fileID *primitive.ObjectID, eventName string) (*models.Notification, error)
}

type activityLogger interface {
	LogActivity(ctx context.Context, activity *models.Activity) error
}

type userGetter interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Actor is the authenticated identity performing a workflow operation.
type Actor struct {
	ID        primitive.ObjectID
	Role      models.Role
	IP        string
	UserAgent string
}

// DocumentUpload carries a new document's metadata and file stream.
type DocumentUpload struct {
	Title    string
	Category string
	Author   string
	Summary  string
	Tags     []string
	Status   string
	File     io.Reader
	FileName string
}

// DocumentService implements the status-transition workflow: it applies
// requested changes to a document and produces the consistent side effects
// (activity log entry, notification dispatch, archived-metadata stamping).
// The primary document write is authoritative; side effects are best-effort
// and never roll it back.
type DocumentService struct {
	repo          documentStore
	notifications notifier
	activities    activityLogger
	users         userGetter
	storage       ObjectStorage
	sendEmail     func(to, subject, body string) error
}

// NewDocumentService creates a new instance of DocumentService.
func NewDocumentService(repo documentStore, notifications notifier, activities activityLogger, users userGetter, storage ObjectStorage) *DocumentService {
	return &DocumentService{
		repo:          repo,
		notifications: notifications,
		activities:    activities,
		users:         users,
		storage:       storage,
		sendEmail:     email.SendEmail,
	}
}

// CreateDocument uploads the file to object storage, persists the document
// record and fans out the new-document notification to admins. The upload
// happens first so a storage failure aborts before any persistence write.
func (s *DocumentService) CreateDocument(ctx context.Context, upload DocumentUpload, actor Actor) (*models.Document, error) {
	if upload.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	doc := &models.Document{
		Title:          upload.Title,
		Category:       upload.Category,
		Author:         upload.Author,
		Summary:        upload.Summary,
		Tags:           upload.Tags,
		Status:         models.StatusPending,
		ArchivedStatus: models.ArchivedActive,
	}
	if upload.Status == models.StatusDraft {
		doc.Status = models.StatusDraft
	}
	if len(doc.Tags) == 0 {
		doc.Tags = extractTags(doc.Title, doc.Summary)
	}

	if upload.File != nil {
		result, err := s.storage.Upload(ctx, upload.File, "documents", upload.FileName)
		if err != nil {
			logger.Log.WithError(err).Error("Object storage upload failed")
			return nil, fmt.Errorf("failed to upload file: %v", err)
		}
		doc.FileURL = result.URL
		doc.FileID = result.ObjectKey
		doc.FileName = upload.FileName
		doc.Size = result.Size
	}

	created, err := s.repo.CreateDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %v", err)
	}

	s.logDocumentActivity(ctx, actor, models.ActivityCreate, created.ID, nil, snapshot(created),
		fmt.Sprintf("Created document: %s", created.Title))

	message := fmt.Sprintf("New document uploaded: %q (%s)", created.Title, created.Category)
	if _, err := s.notifications.NotifyAdmins(ctx, message, &created.ID, presence.EventNewVersion); err != nil {
		logrus.WithError(err).Warn("Failed to dispatch new-document notification")
	}

	return created, nil
}

// GetDocument retrieves a document by its hex ID.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}
	return s.repo.GetDocumentByID(ctx, objID)
}

// GetDocumentDetail retrieves a document joined with its assigned users'
// display names.
func (s *DocumentService) GetDocumentDetail(ctx context.Context, id string) (*models.DocumentDetail, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}
	return s.repo.GetDocumentDetail(ctx, objID)
}

// ListDocuments returns documents matching the filter.
func (s *DocumentService) ListDocuments(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	return s.repo.ListDocuments(ctx, filter)
}

// UpdateDocument applies a partial update to a document's editable fields and
// triggers the transition side effects:
//
//   - an incoming ArchivedStatus of Deleted stamps the archived metadata with
//     the acting identity, whether or not the caller supplied metadata;
//   - a transition to Archived without explicit metadata is stamped as well;
//   - archived metadata with all fields empty is stored as absent, never as a
//     struct of zero values;
//   - one notification at most is dispatched: a restore notice when
//     ArchivedStatus moves from For Restore to Active, otherwise an
//     approval/rejection notice when Status lands on Approved or Rejected
//     while the document is not Deleted;
//   - admin and officer actions are written to the activity log with before
//     and after snapshots.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, update models.DocumentUpdate, actor Actor) (*models.Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}

	before, err := s.repo.GetDocumentByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	after := *before
	applyUpdate(&after, update)

	if update.ArchivedStatus != nil && *update.ArchivedStatus == models.ArchivedDeleted {
		after.Archived = &models.ArchivedMetadata{
			DateArchived: time.Now(),
			ArchivedBy:   &actor.ID,
			Notes:        deleteStampNote,
		}
	}
	if after.ArchivedStatus == models.ArchivedArchived && after.Archived.IsEmpty() {
		after.Archived = &models.ArchivedMetadata{
			DateArchived: time.Now(),
			ArchivedBy:   &actor.ID,
			Notes:        "Archived",
		}
	}
	if after.Archived.IsEmpty() {
		after.Archived = nil
	}

	saved, err := s.repo.ReplaceDocument(ctx, objID, &after)
	if err != nil {
		return nil, err
	}

	s.dispatchTransitionNotification(ctx, before, saved, update)

	if actor.Role == models.RoleAdmin || actor.Role == models.RoleOfficer {
		activityType := classifyTransition(before, update)
		s.logDocumentActivity(ctx, actor, activityType, saved.ID, snapshot(before), snapshot(saved),
			fmt.Sprintf("%s on document: %s", activityType, saved.Title))
	}

	return saved, nil
}

// AssignOfficer routes a document to an officer for review and informs only
// that officer, by push and best-effort email.
func (s *DocumentService) AssignOfficer(ctx context.Context, docID, officerID string, actor Actor) (*models.Document, error) {
	objID, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}
	officerObjID, err := primitive.ObjectIDFromHex(officerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid officer ID", ErrInvalidInput)
	}

	officer, err := s.users.GetUserByID(ctx, officerObjID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve officer: %w", err)
	}
	if officer.Role != models.RoleOfficer {
		return nil, fmt.Errorf("%w: user %s is not an officer", ErrInvalidInput, officerID)
	}

	before, err := s.repo.GetDocumentByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	after := *before
	after.OfficerID = &officerObjID
	after.Status = models.StatusReview

	saved, err := s.repo.ReplaceDocument(ctx, objID, &after)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Document assigned to you for review: %q (%s)", saved.Title, saved.Category)
	if _, err := s.notifications.NotifyUser(ctx, officerObjID, message, &saved.ID, presence.EventDocumentNotice); err != nil {
		logrus.WithError(err).Warn("Failed to dispatch assignment notification")
	}
	if err := s.sendEmail(officer.Email, "Document assigned for review", message); err != nil {
		logrus.WithError(err).Warn("Failed to send assignment email")
	}

	s.logDocumentActivity(ctx, actor, models.ActivityReview, saved.ID, snapshot(before), snapshot(saved),
		fmt.Sprintf("Assigned document %q to officer %s", saved.Title, officer.Username))

	return saved, nil
}

// ReplaceFile uploads a new file for an existing document and broadcasts the
// replacement to admins. The previous object is deleted best-effort.
func (s *DocumentService) ReplaceFile(ctx context.Context, id string, file io.Reader, filename string, actor Actor) (*models.Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}

	before, err := s.repo.GetDocumentByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	result, err := s.storage.Upload(ctx, file, "documents", filename)
	if err != nil {
		logger.Log.WithError(err).Error("Object storage upload failed during file replacement")
		return nil, fmt.Errorf("failed to upload replacement file: %v", err)
	}

	oldKey := before.FileID

	after := *before
	after.FileURL = result.URL
	after.FileID = result.ObjectKey
	after.FileName = filename
	after.Size = result.Size

	saved, err := s.repo.ReplaceDocument(ctx, objID, &after)
	if err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			logrus.WithError(err).WithField("object_key", oldKey).Warn("Failed to delete replaced object")
		}
	}

	message := fmt.Sprintf("File data replaced for document: %q", saved.Title)
	if _, err := s.notifications.NotifyAdmins(ctx, message, &saved.ID, presence.EventFileReplaced); err != nil {
		logrus.WithError(err).Warn("Failed to dispatch file-replaced notification")
	}

	s.logDocumentActivity(ctx, actor, models.ActivityUpdate, saved.ID, snapshot(before), snapshot(saved),
		fmt.Sprintf("Replaced file for document: %s", saved.Title))

	return saved, nil
}

// DeleteDocument permanently removes a document. The database record is
// authoritative and is removed first; the remote object delete is best-effort.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string, actor Actor) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}

	doc, err := s.repo.GetDocumentByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, objID); err != nil {
		return err
	}

	if doc.FileID != "" {
		if err := s.storage.Delete(ctx, doc.FileID); err != nil {
			logrus.WithError(err).WithField("object_key", doc.FileID).Warn("Failed to delete remote object")
		}
	}

	s.logDocumentActivity(ctx, actor, models.ActivityDelete, objID, snapshot(doc), nil,
		fmt.Sprintf("Permanently deleted document: %s", doc.Title))

	return nil
}

// dispatchTransitionNotification sends at most one notification per update.
// The restore notice takes precedence when both conditions hold.
func (s *DocumentService) dispatchTransitionNotification(ctx context.Context, before, after *models.Document, update models.DocumentUpdate) {
	restored := before.ArchivedStatus == models.ArchivedForRestore &&
		after.ArchivedStatus == models.ArchivedActive

	approvalChanged := update.Status != nil &&
		before.Status != after.Status &&
		(after.Status == models.StatusApproved || after.Status == models.StatusRejected) &&
		after.ArchivedStatus != models.ArchivedDeleted

	var message string
	switch {
	case restored:
		message = fmt.Sprintf("Document restored: %q (%s)", after.Title, after.Category)
	case approvalChanged && after.Status == models.StatusApproved:
		message = fmt.Sprintf("Document approved: %q (%s)", after.Title, after.Category)
	case approvalChanged:
		message = fmt.Sprintf("Document rejected: %q (%s)", after.Title, after.Category)
	default:
		return
	}

	if _, err := s.notifications.NotifyAdmins(ctx, message, &after.ID, presence.EventDocumentNotice); err != nil {
		logrus.WithError(err).Warn("Failed to dispatch transition notification")
	}
}

func (s *DocumentService) logDocumentActivity(ctx context.Context, actor Actor, activityType string, docID primitive.ObjectID, before, after bson.M, message string) {
	err := s.activities.LogActivity(ctx, &models.Activity{
		Type:       activityType,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		DocumentID: docID,
		Before:     before,
		After:      after,
		Message:    message,
		IP:         actor.IP,
		UserAgent:  actor.UserAgent,
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to write activity log entry")
	}
}

func applyUpdate(doc *models.Document, update models.DocumentUpdate) {
	if update.Title != nil {
		doc.Title = *update.Title
	}
	if update.Category != nil {
		doc.Category = *update.Category
	}
	if update.Summary != nil {
		doc.Summary = *update.Summary
	}
	if update.Status != nil {
		doc.Status = *update.Status
	}
	if update.ArchivedStatus != nil {
		doc.ArchivedStatus = *update.ArchivedStatus
	}
	if update.Archived != nil {
		doc.Archived = update.Archived
	}
	if update.Tags != nil {
		doc.Tags = update.Tags
	}
	if update.OfficerID != nil {
		doc.OfficerID = update.OfficerID
	}
	if update.ApproverID != nil {
		doc.ApproverID = update.ApproverID
	}
}

// classifyTransition maps the requested ArchivedStatus onto the audit entry
// type.
func classifyTransition(before *models.Document, update models.DocumentUpdate) string {
	if update.ArchivedStatus == nil {
		return models.ActivityUpdate
	}
	switch *update.ArchivedStatus {
	case models.ArchivedDeleted:
		return models.ActivityDelete
	case models.ArchivedArchived:
		return models.ActivityArchive
	case models.ArchivedActive:
		if before.ArchivedStatus == models.ArchivedForRestore {
			return models.ActivityRestore
		}
	}
	return models.ActivityUpdate
}

// snapshot reduces a document to the fields worth auditing.
func snapshot(doc *models.Document) bson.M {
	if doc == nil {
		return nil
	}
	return bson.M{
		"title":           doc.Title,
		"category":        doc.Category,
		"status":          doc.Status,
		"archived_status": doc.ArchivedStatus,
		"file_id":         doc.FileID,
	}
}
