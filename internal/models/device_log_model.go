package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogAction tags what happened to a device. The mounted/unmounted/moved
// actions are reserved: the log filter accepts them but no route emits them
// yet.
type LogAction string

const (
	LogActionCreated     LogAction = "created"
	LogActionUpdated     LogAction = "updated"
	LogActionDeleted     LogAction = "deleted"
	LogActionActivated   LogAction = "activated"
	LogActionDeactivated LogAction = "deactivated"
	LogActionMounted     LogAction = "mounted"
	LogActionUnmounted   LogAction = "unmounted"
	LogActionMoved       LogAction = "moved"
)

// IsValid reports whether a is a known (including reserved) action tag.
func (a LogAction) IsValid() bool {
	switch a {
	case LogActionCreated, LogActionUpdated, LogActionDeleted,
		LogActionActivated, LogActionDeactivated,
		LogActionMounted, LogActionUnmounted, LogActionMoved:
		return true
	}
	return false
}

// LogValues is the subset of device fields snapshotted before and after a
// change.
type LogValues struct {
	Status     string `json:"status,omitempty" bson:"status,omitempty"`
	Location   string `json:"location,omitempty" bson:"location,omitempty"`
	DeviceType string `json:"deviceType,omitempty" bson:"deviceType,omitempty"`
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
}

// DeviceLog is one immutable record of a device-affecting action. Entries are
// only ever inserted; they survive deletion of the device or the actor they
// reference.
type DeviceLog struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Device             primitive.ObjectID `json:"device" bson:"device"`
	Action             LogAction          `json:"action" bson:"action"`
	Description        string             `json:"description" bson:"description"`
	DeactivationReason string             `json:"deactivationReason,omitempty" bson:"deactivationReason,omitempty"`
	OldValues          *LogValues         `json:"oldValues,omitempty" bson:"oldValues,omitempty"`
	NewValues          *LogValues         `json:"newValues,omitempty" bson:"newValues,omitempty"`
	PerformedBy        primitive.ObjectID `json:"performedBy" bson:"performedBy"`
	Timestamp          time.Time          `json:"timestamp" bson:"timestamp"`
	IPAddress          string             `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent          string             `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

// LogFilter selects device log entries. Zero-valued fields do not filter;
// set fields are AND-combined. Date bounds are inclusive.
type LogFilter struct {
	Action    LogAction
	DeviceID  string
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
}

// LogDeviceRef is the denormalized device reference on a returned log entry.
type LogDeviceRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DeviceType string `json:"deviceType"`
}

// LogActorRef is the denormalized actor reference on a returned log entry.
type LogActorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LogEntry is a device log resolved for display. When the referenced device
// or user has since been deleted the reference carries a placeholder instead
// of being dropped.
type LogEntry struct {
	ID                 string       `json:"id"`
	Device             LogDeviceRef `json:"device"`
	Action             LogAction    `json:"action"`
	Description        string       `json:"description"`
	DeactivationReason string       `json:"deactivationReason,omitempty"`
	OldValues          *LogValues   `json:"oldValues,omitempty"`
	NewValues          *LogValues   `json:"newValues,omitempty"`
	PerformedBy        LogActorRef  `json:"performedBy"`
	Timestamp          time.Time    `json:"timestamp"`
	IPAddress          string       `json:"ipAddress,omitempty"`
	UserAgent          string       `json:"userAgent,omitempty"`
}

// Pagination describes one page of a log query result.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// LogPage is a page of resolved log entries plus its pagination block.
type LogPage struct {
	Logs       []LogEntry `json:"logs"`
	Pagination Pagination `json:"pagination"`
}
