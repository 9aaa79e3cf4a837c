package notify

import (
	"encoding/json"
	"log/slog"

	"github.com/veselovese/bronitech/websocket"
)

// Notifier delivers real-time notifications to a user's connected clients.
type Notifier interface {
	NotifyUser(userID int, event interface{})
}

// WSNotifier pushes notifications through the WebSocket hub.
type WSNotifier struct {
	Hub *websocket.Hub
}

func (n *WSNotifier) NotifyUser(userID int, event interface{}) {
	if n == nil || n.Hub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal notification", "err", err)
		return
	}
	n.Hub.NotifyUser(userID, payload)
}
