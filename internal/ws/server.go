package ws

import (
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"

	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

// NewServer creates the Socket.IO server feeding the browser dashboard.
// Clients subscribe after the JWT handshake and receive attendance and leave
// events as they happen; "events:since" replays missed events by id.
func NewServer(pub *Publisher) (*socketio.Server, error) {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		logrus.WithField("conn", s.ID()).Debug("dashboard client connected")
		s.Emit("connected", map[string]interface{}{"ok": true})
		return nil
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		logrus.WithFields(logrus.Fields{"conn": s.ID(), "reason": reason}).
			Debug("dashboard client disconnected")
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logrus.WithError(e).Warn("dashboard stream error")
	})

	// Replay events missed while disconnected
	server.OnEvent("/", "events:since", func(s socketio.Conn, lastEventID int64) {
		events, err := pub.EventsSince(lastEventID, 100)
		if err != nil {
			logrus.WithError(err).Warn("failed to load missed dashboard events")
			return
		}
		for _, ev := range events {
			s.Emit(ev.Topic+":update", map[string]interface{}{
				"eventId": ev.ID,
				"type":    ev.EventType,
				"data":    ev.Payload,
			})
		}
	})

	go func() {
		if err := server.Serve(); err != nil {
			logrus.WithError(err).Error("socket.io server stopped")
		}
	}()

	pub.server = server
	logrus.Info("dashboard event stream initialized")
	return server, nil
}
