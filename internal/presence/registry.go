package presence

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Event names pushed over the real-time channel. The frontend distinguishes
// notices about existing documents, newly uploaded versions and replaced
// file data.
const (
	EventDocumentNotice = "document-notification"
	EventNewVersion     = "new-document-version"
	EventFileReplaced   = "file-data-replaced"
)

// Payload is the wire shape of a pushed event.
type Payload struct {
	Message        string      `json:"message"`
	Data           interface{} `json:"data"`
	NotificationID string      `json:"notificationId"`
	FileID         string      `json:"FileId"`
}

type event struct {
	Event   string  `json:"event"`
	Payload Payload `json:"payload"`
}

// Conn is the minimal surface the registry needs from a live connection.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Registry maps a user's durable identity to their current live connection.
// Entries live for the duration of a connection; the registry itself lives
// for the process. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry returns an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register records conn as the live connection for userID, replacing any
// previous one.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()
	logrus.WithField("user_id", userID).Info("User connected to real-time channel")
}

// Unregister removes userID's connection. Removing an absent user is a no-op.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	delete(r.conns, userID)
	r.mu.Unlock()
	logrus.WithField("user_id", userID).Info("User disconnected from real-time channel")
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	return conn, ok
}

// Push delivers an event to userID if they are connected. Best-effort: no
// retry, no acknowledgement. Returns false when the user has no live
// connection or the write failed; the persisted notification record remains
// the durable fallback either way.
func (r *Registry) Push(userID, eventName string, payload Payload) bool {
	conn, ok := r.Lookup(userID)
	if !ok {
		return false
	}
	if err := conn.WriteJSON(event{Event: eventName, Payload: payload}); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Real-time push failed")
		return false
	}
	return true
}
