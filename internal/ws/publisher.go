package ws

import (
	"encoding/json"

	"go_attendance/internal/model"

	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Publisher persists dashboard events and broadcasts them to connected
// clients. Events are written first so reconnecting dashboards can replay.
type Publisher struct {
	db     *gorm.DB
	server *socketio.Server
}

// NewPublisher creates a dashboard event publisher
func NewPublisher(gdb *gorm.DB) *Publisher {
	return &Publisher{db: gdb}
}

// Publish stores the event and broadcasts it on "<topic>:update". Broadcast
// problems are logged and swallowed; they must never fail the request that
// produced the event.
func (p *Publisher) Publish(topic, eventType string, payload any) {
	if p == nil {
		return
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Warn("failed to marshal dashboard event payload")
		return
	}

	event := model.DashboardEvent{
		Topic:     topic,
		EventType: eventType,
		Payload:   payloadJSON,
	}
	if err := p.db.Create(&event).Error; err != nil {
		logrus.WithError(err).Warn("failed to persist dashboard event")
		return
	}

	if p.server == nil {
		return
	}

	p.server.BroadcastToNamespace("/", topic+":update", map[string]interface{}{
		"eventId": event.ID,
		"type":    eventType,
		"data":    payload,
	})
}

// EventsSince returns up to maxCount events with id greater than lastEventID
func (p *Publisher) EventsSince(lastEventID int64, maxCount int) ([]model.DashboardEvent, error) {
	var events []model.DashboardEvent
	err := p.db.
		Where("id > ?", lastEventID).
		Order("id ASC").
		Limit(maxCount).
		Find(&events).Error
	return events, err
}
