package services

import (
	"context"
	"testing"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/presence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notifStoreStub struct {
	created    []models.Notification
	markedID   primitive.ObjectID
	markedUser primitive.ObjectID
}

func (s *notifStoreStub) CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	notif.ID = primitive.NewObjectID()
	s.created = append(s.created, *notif)
	return notif, nil
}

func (s *notifStoreStub) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.created {
		for _, v := range n.Viewers {
			if v.UserID == userID {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

func (s *notifStoreStub) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error {
	s.markedID = id
	s.markedUser = userID
	return nil
}

func (s *notifStoreStub) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

type adminListerStub struct {
	admins []models.User
}

func (s *adminListerStub) GetUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if role == models.RoleAdmin {
		return s.admins, nil
	}
	return nil, nil
}

type pushRecord struct {
	userID  string
	event   string
	payload presence.Payload
}

type pusherStub struct {
	present map[string]bool
	pushes  []pushRecord
}

func (p *pusherStub) Push(userID, eventName string, payload presence.Payload) bool {
	if !p.present[userID] {
		return false
	}
	p.pushes = append(p.pushes, pushRecord{userID: userID, event: eventName, payload: payload})
	return true
}

func TestNotifyPersistsWithoutPresence(t *testing.T) {
	store := &notifStoreStub{}
	pusher := &pusherStub{present: map[string]bool{}}
	svc := NewNotificationService(store, &adminListerStub{}, pusher)

	viewer := primitive.NewObjectID()
	notif, err := svc.Notify(context.Background(), "Offline viewer", nil, []primitive.ObjectID{viewer}, presence.EventDocumentNotice)

	require.NoError(t, err)
	assert.False(t, notif.ID.IsZero())
	require.Len(t, store.created, 1, "record persists regardless of presence")
	assert.Empty(t, pusher.pushes, "no live connection, no push")
}

func TestNotifyPushesOnlyToPresentViewers(t *testing.T) {
	online := primitive.NewObjectID()
	offline := primitive.NewObjectID()

	store := &notifStoreStub{}
	pusher := &pusherStub{present: map[string]bool{online.Hex(): true}}
	svc := NewNotificationService(store, &adminListerStub{}, pusher)

	fileID := primitive.NewObjectID()
	notif, err := svc.Notify(context.Background(), "Mixed presence", &fileID,
		[]primitive.ObjectID{online, offline}, presence.EventDocumentNotice)

	require.NoError(t, err)
	require.Len(t, pusher.pushes, 1)
	push := pusher.pushes[0]
	assert.Equal(t, online.Hex(), push.userID)
	assert.Equal(t, presence.EventDocumentNotice, push.event)
	assert.Equal(t, "Mixed presence", push.payload.Message)
	assert.Equal(t, notif.ID.Hex(), push.payload.NotificationID)
	assert.Equal(t, fileID.Hex(), push.payload.FileID)

	require.Len(t, store.created, 1)
	assert.Len(t, store.created[0].Viewers, 2, "both viewers recorded for later pickup")
}

func TestNotifyAdminsResolvesAdminList(t *testing.T) {
	admin1 := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	admin2 := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	store := &notifStoreStub{}
	pusher := &pusherStub{present: map[string]bool{admin2.ID.Hex(): true}}
	svc := NewNotificationService(store, &adminListerStub{admins: []models.User{admin1, admin2}}, pusher)

	_, err := svc.NotifyAdmins(context.Background(), "Admins only", nil, presence.EventNewVersion)

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	require.Len(t, store.created[0].Viewers, 2)
	assert.Equal(t, admin1.ID, store.created[0].Viewers[0].UserID)
	assert.Equal(t, admin2.ID, store.created[0].Viewers[1].UserID)

	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, admin2.ID.Hex(), pusher.pushes[0].userID)
}

func TestMarkNotificationAsReadDelegatesPerViewer(t *testing.T) {
	store := &notifStoreStub{}
	svc := NewNotificationService(store, &adminListerStub{}, &pusherStub{present: map[string]bool{}})

	notifID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	require.NoError(t, svc.MarkNotificationAsRead(context.Background(), notifID, userID))
	assert.Equal(t, notifID, store.markedID)
	assert.Equal(t, userID, store.markedUser)
}
