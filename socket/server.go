package socket

import (
	"log"

	"campuslink_server/bus"
	"campuslink_server/groupstore"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server that pushes group
// chat activity to connected clients. Snapshot change notifications from
// the store's bus are re-broadcast to the shared "groups" room so pages
// showing the group list refresh without polling.
func NewSocketServer(b bus.Bus) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		c.Join("groups")
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, groupID string) {
		if groupID == "" {
			log.Println("❌ Invalid groupId in join request")
			return
		}
		log.Printf("👥 Client %s joined group %s\n", c.ID(), groupID)
		c.Join(groupID)
	})

	server.OnEvent("/", "sendMessage", func(c socketio.Conn, message map[string]interface{}) {
		groupID, _ := message["groupId"].(string)
		if groupID == "" {
			return
		}
		server.BroadcastToRoom("/", groupID, "newMessage", message)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	if b != nil {
		if _, err := b.Subscribe(groupstore.Topic, func(token []byte) {
			server.BroadcastToRoom("/", "groups", "snapshotUpdated", string(token))
		}); err != nil {
			log.Printf("Socket server could not subscribe to snapshot changes: %v", err)
		}
	}

	return server
}
