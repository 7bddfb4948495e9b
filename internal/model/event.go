package model

import "gorm.io/datatypes"

// Dashboard event topics
const (
	EventTopicAttendance = "attendance"
	EventTopicLeaves     = "leaves"
)

// DashboardEvent is a persisted dashboard notification. Events are written
// before being broadcast so reconnecting clients can replay by id.
type DashboardEvent struct {
	BaseModel
	Topic     string         `gorm:"type:varchar(32);index;not null" json:"topic"`
	EventType string         `gorm:"type:varchar(32);not null" json:"event_type"`
	Payload   datatypes.JSON `gorm:"type:json" json:"payload"`
}

// TableName specifies the table name for DashboardEvent model
func (DashboardEvent) TableName() string {
	return "dashboard_events"
}
