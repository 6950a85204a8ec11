package services

import (
	"context"
	"fmt"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type commentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetDocumentComments(ctx context.Context, documentID primitive.ObjectID, visibleOnly bool) ([]models.Comment, error)
	SetCommentStatus(ctx context.Context, id primitive.ObjectID, status string) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

// CommentService handles document comments and their moderation.
type CommentService struct {
	repo commentStore
	docs documentStore
}

// NewCommentService creates a new instance of CommentService.
func NewCommentService(repo commentStore, docs documentStore) *CommentService {
	return &CommentService{repo: repo, docs: docs}
}

// CreateComment attaches a comment to a document. The document must exist.
func (s *CommentService) CreateComment(ctx context.Context, documentID string, authorID primitive.ObjectID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", ErrInvalidInput)
	}

	docObjID, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}
	if _, err := s.docs.GetDocumentByID(ctx, docObjID); err != nil {
		return nil, err
	}

	return s.repo.CreateComment(ctx, &models.Comment{
		DocumentID: docObjID,
		AuthorID:   authorID,
		Body:       body,
		Status:     models.CommentVisible,
	})
}

// GetDocumentComments lists a document's comments. Non-admin callers see only
// visible comments.
func (s *CommentService) GetDocumentComments(ctx context.Context, documentID string, role models.Role) ([]models.Comment, error) {
	docObjID, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document ID", ErrInvalidInput)
	}
	return s.repo.GetDocumentComments(ctx, docObjID, role != models.RoleAdmin)
}

// ModerateComment moves a comment between visible, hidden and removed states.
func (s *CommentService) ModerateComment(ctx context.Context, commentID, status string) error {
	switch status {
	case models.CommentVisible, models.CommentHidden, models.CommentRemoved:
	default:
		return fmt.Errorf("%w: unknown moderation status %q", ErrInvalidInput, status)
	}

	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: invalid comment ID", ErrInvalidInput)
	}

	if err := s.repo.SetCommentStatus(ctx, objID, status); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"comment_id": commentID,
		"status":     status,
	}).Info("Comment moderated")
	return nil
}

// DeleteComment permanently removes a comment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: invalid comment ID", ErrInvalidInput)
	}
	return s.repo.DeleteComment(ctx, objID)
}
