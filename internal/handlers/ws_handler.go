package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/nursultan-qb/docvault/internal/presence"
	jwtutil "github.com/nursultan-qb/docvault/pkg/jwt"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades the real-time channel and keeps the presence registry
// in sync with connect/disconnect events. Pushes travel one way, server to
// client; inbound frames are read only to detect disconnection.
type WSHandler struct {
	Registry  *presence.Registry
	JWTSecret string
}

// NewWSHandler creates a new instance of WSHandler.
func NewWSHandler(registry *presence.Registry, jwtSecret string) *WSHandler {
	return &WSHandler{Registry: registry, JWTSecret: jwtSecret}
}

// ConnectHandler authenticates via the token query parameter, upgrades to a
// websocket and registers the connection under the user's identity.
func (h *WSHandler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.Registry.Register(userID, conn)

	defer func() {
		h.Registry.Unregister(userID)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break // client disconnected
		}
	}
}
