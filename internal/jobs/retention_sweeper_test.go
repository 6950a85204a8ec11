package jobs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sweepDocStub struct {
	docs      map[primitive.ObjectID]*models.Document
	deleteErr error
}

func newSweepDocStub(docs ...*models.Document) *sweepDocStub {
	s := &sweepDocStub{docs: make(map[primitive.ObjectID]*models.Document)}
	for _, doc := range docs {
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}
		s.docs[doc.ID] = doc
	}
	return s
}

func (s *sweepDocStub) FindArchivable(ctx context.Context, cutoff time.Time) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range s.docs {
		eligible := (doc.Status == models.StatusApproved || doc.Status == models.StatusRejected) &&
			doc.ArchivedStatus != models.ArchivedArchived &&
			!doc.CreatedAt.After(cutoff)
		if eligible {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (s *sweepDocStub) MarkArchived(ctx context.Context, id primitive.ObjectID, meta *models.ArchivedMetadata) error {
	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("document %s not found", id.Hex())
	}
	doc.ArchivedStatus = models.ArchivedArchived
	doc.Archived = meta
	return nil
}

func (s *sweepDocStub) FindDeletedBefore(ctx context.Context, cutoff time.Time) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range s.docs {
		if strings.EqualFold(doc.ArchivedStatus, models.ArchivedDeleted) && !doc.CreatedAt.After(cutoff) {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (s *sweepDocStub) DeleteDocument(ctx context.Context, id primitive.ObjectID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.docs, id)
	return nil
}

func (s *sweepDocStub) archivedCount() int {
	n := 0
	for _, doc := range s.docs {
		if doc.ArchivedStatus == models.ArchivedArchived {
			n++
		}
	}
	return n
}

type sweepNotifStub struct {
	purged int64
	calls  int
}

func (s *sweepNotifStub) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.calls++
	return s.purged, nil
}

type sweepSettingsStub struct {
	retention models.RetentionSetting
	storage   models.StorageSetting
}

func (s *sweepSettingsStub) GetRetentionSetting(ctx context.Context) (*models.RetentionSetting, error) {
	setting := s.retention
	return &setting, nil
}

func (s *sweepSettingsStub) GetStorageSetting(ctx context.Context) (*models.StorageSetting, error) {
	setting := s.storage
	return &setting, nil
}

type remoteStorageStub struct {
	deleted   []string
	deleteErr error
}

func (s *remoteStorageStub) Upload(ctx context.Context, r io.Reader, folder, filename string) (*services.UploadResult, error) {
	return nil, fmt.Errorf("not used in sweeps")
}

func (s *remoteStorageStub) Delete(ctx context.Context, objectKey string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func TestSweepDisabledSettingsTouchNothing(t *testing.T) {
	docs := newSweepDocStub(
		&models.Document{Title: "Old approved", Status: models.StatusApproved, ArchivedStatus: models.ArchivedActive, CreatedAt: daysAgo(400)},
		&models.Document{Title: "Old deleted", Status: models.StatusApproved, ArchivedStatus: models.ArchivedDeleted, CreatedAt: daysAgo(400)},
	)
	notifs := &sweepNotifStub{}
	settings := &sweepSettingsStub{} // both disabled

	sweeper := NewRetentionSweeper(docs, notifs, settings, &remoteStorageStub{})
	require.NoError(t, sweeper.Run(context.Background()))

	assert.Zero(t, docs.archivedCount())
	assert.Len(t, docs.docs, 2, "nothing purged")
	assert.Zero(t, notifs.calls, "notification purge skipped")
}

func TestSweepArchivesAgedApprovedDocuments(t *testing.T) {
	aged := &models.Document{Title: "Aged", Status: models.StatusApproved, ArchivedStatus: models.ArchivedActive, CreatedAt: daysAgo(31)}
	fresh := &models.Document{Title: "Fresh", Status: models.StatusApproved, ArchivedStatus: models.ArchivedActive, CreatedAt: daysAgo(5)}
	draft := &models.Document{Title: "Draft", Status: models.StatusDraft, ArchivedStatus: models.ArchivedActive, CreatedAt: daysAgo(400)}
	docs := newSweepDocStub(aged, fresh, draft)

	settings := &sweepSettingsStub{retention: models.RetentionSetting{Enabled: true, RetentionDays: 30}}
	sweeper := NewRetentionSweeper(docs, &sweepNotifStub{}, settings, &remoteStorageStub{})

	require.NoError(t, sweeper.Run(context.Background()))

	assert.Equal(t, models.ArchivedArchived, docs.docs[aged.ID].ArchivedStatus)
	require.NotNil(t, docs.docs[aged.ID].Archived)
	assert.Contains(t, docs.docs[aged.ID].Archived.Notes, "retention policy")

	assert.Equal(t, models.ArchivedActive, docs.docs[fresh.ID].ArchivedStatus, "inside the window stays put")
	assert.Equal(t, models.ArchivedActive, docs.docs[draft.ID].ArchivedStatus, "non-final status is never auto-archived")
}

func TestSweepPurgesAgedNotifications(t *testing.T) {
	notifs := &sweepNotifStub{purged: 7}
	settings := &sweepSettingsStub{storage: models.StorageSetting{Enabled: true, DeleteAfterDays: 90}}
	sweeper := NewRetentionSweeper(newSweepDocStub(), notifs, settings, &remoteStorageStub{})

	require.NoError(t, sweeper.Run(context.Background()))

	assert.Equal(t, 1, notifs.calls)
}

func TestSweepPurgesDeletedDocumentsCaseInsensitive(t *testing.T) {
	lowercased := &models.Document{
		Title:          "Old lowercase",
		Status:         models.StatusApproved,
		ArchivedStatus: "deleted",
		FileID:         "documents/old.pdf",
		CreatedAt:      daysAgo(120),
	}
	recent := &models.Document{
		Title:          "Recently deleted",
		Status:         models.StatusApproved,
		ArchivedStatus: models.ArchivedDeleted,
		CreatedAt:      daysAgo(10),
	}
	docs := newSweepDocStub(lowercased, recent)

	storage := &remoteStorageStub{}
	settings := &sweepSettingsStub{storage: models.StorageSetting{Enabled: true, DeleteAfterDays: 90}}
	sweeper := NewRetentionSweeper(docs, &sweepNotifStub{}, settings, storage)

	require.NoError(t, sweeper.Run(context.Background()))

	_, stillThere := docs.docs[lowercased.ID]
	assert.False(t, stillThere, "aged deleted document purged whatever the casing")
	_, recentKept := docs.docs[recent.ID]
	assert.True(t, recentKept, "inside the window stays put")
	assert.Equal(t, []string{"documents/old.pdf"}, storage.deleted)
}

func TestSweepPurgeSurvivesRemoteDeleteFailure(t *testing.T) {
	doomed := &models.Document{
		Title:          "Stuck object",
		Status:         models.StatusApproved,
		ArchivedStatus: models.ArchivedDeleted,
		FileID:         "documents/stuck.pdf",
		CreatedAt:      daysAgo(120),
	}
	docs := newSweepDocStub(doomed)

	storage := &remoteStorageStub{deleteErr: fmt.Errorf("bucket unreachable")}
	settings := &sweepSettingsStub{storage: models.StorageSetting{Enabled: true, DeleteAfterDays: 90}}
	sweeper := NewRetentionSweeper(docs, &sweepNotifStub{}, settings, storage)

	require.NoError(t, sweeper.Run(context.Background()))

	_, stillThere := docs.docs[doomed.ID]
	assert.False(t, stillThere, "database record removed even when the remote delete fails")
}

func TestSweepDatabaseDeleteFailureSkipsRemote(t *testing.T) {
	doomed := &models.Document{
		Title:          "Undeletable",
		Status:         models.StatusApproved,
		ArchivedStatus: models.ArchivedDeleted,
		FileID:         "documents/undeletable.pdf",
		CreatedAt:      daysAgo(120),
	}
	docs := newSweepDocStub(doomed)
	docs.deleteErr = fmt.Errorf("write conflict")

	storage := &remoteStorageStub{}
	settings := &sweepSettingsStub{storage: models.StorageSetting{Enabled: true, DeleteAfterDays: 90}}
	sweeper := NewRetentionSweeper(docs, &sweepNotifStub{}, settings, storage)

	require.NoError(t, sweeper.Run(context.Background()))

	assert.Empty(t, storage.deleted, "remote object kept while the database record survives")
}
