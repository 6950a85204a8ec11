package presence

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type connStub struct {
	mu       sync.Mutex
	written  []interface{}
	writeErr error
}

func (c *connStub) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, v)
	return nil
}

func TestRegistryRegisterLookupUnregister(t *testing.T) {
	reg := NewRegistry()
	conn := &connStub{}

	reg.Register("user-1", conn)
	got, ok := reg.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, conn, got.(*connStub))

	reg.Unregister("user-1")
	_, ok = reg.Lookup("user-1")
	assert.False(t, ok)

	// Unregistering again is a no-op.
	reg.Unregister("user-1")
}

func TestRegistryRegisterReplacesConnection(t *testing.T) {
	reg := NewRegistry()
	old := &connStub{}
	replacement := &connStub{}

	reg.Register("user-1", old)
	reg.Register("user-1", replacement)

	assert.True(t, reg.Push("user-1", EventDocumentNotice, Payload{Message: "hi"}))
	assert.Empty(t, old.written)
	assert.Len(t, replacement.written, 1)
}

func TestRegistryPushToAbsentUser(t *testing.T) {
	reg := NewRegistry()

	assert.False(t, reg.Push("nobody", EventDocumentNotice, Payload{Message: "hi"}))
}

func TestRegistryPushWritesEventAndPayload(t *testing.T) {
	reg := NewRegistry()
	conn := &connStub{}
	reg.Register("user-1", conn)

	payload := Payload{Message: "Document approved", NotificationID: "abc123", FileID: "def456"}
	require.True(t, reg.Push("user-1", EventNewVersion, payload))

	require.Len(t, conn.written, 1)
	raw, err := json.Marshal(conn.written[0])
	require.NoError(t, err)

	var decoded struct {
		Event   string `json:"event"`
		Payload struct {
			Message        string `json:"message"`
			NotificationID string `json:"notificationId"`
			FileID         string `json:"FileId"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, EventNewVersion, decoded.Event)
	assert.Equal(t, "Document approved", decoded.Payload.Message)
	assert.Equal(t, "abc123", decoded.Payload.NotificationID)
	assert.Equal(t, "def456", decoded.Payload.FileID)
}

func TestRegistryPushReportsWriteFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register("user-1", &connStub{writeErr: fmt.Errorf("connection closed")})

	assert.False(t, reg.Push("user-1", EventDocumentNotice, Payload{Message: "hi"}))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%5)
			reg.Register(userID, &connStub{})
			reg.Push(userID, EventDocumentNotice, Payload{Message: "race check"})
			reg.Lookup(userID)
			reg.Unregister(userID)
		}(i)
	}
	wg.Wait()
}
