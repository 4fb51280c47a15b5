package domain

import "time"

// Event types published to the event bus after successful writes.
const (
	EventTaskItemCreated = "taskItem.created"
	EventTaskItemUpdated = "taskItem.updated"
	EventTaskItemDeleted = "taskItem.deleted"
	EventUserCreated     = "user.created"
	EventUserUpdated     = "user.updated"
	EventUserDeleted     = "user.deleted"
)

// Event is a domain event describing a completed state change.
type Event interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// TaskItemEvent is emitted for task item create/update/delete.
type TaskItemEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userId"`
	ItemID string    `json:"itemId"`
	Time   time.Time `json:"time"`
}

func (e TaskItemEvent) EventType() string     { return e.Type }
func (e TaskItemEvent) AggregateID() string   { return e.UserID + "/" + e.ItemID }
func (e TaskItemEvent) OccurredAt() time.Time { return e.Time }

// NewTaskItemEvent builds a task item event stamped with the current time.
func NewTaskItemEvent(eventType, userID, itemID string) TaskItemEvent {
	return TaskItemEvent{Type: eventType, UserID: userID, ItemID: itemID, Time: time.Now().UTC()}
}

// UserEvent is emitted for user create/update/delete.
type UserEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userId"`
	Time   time.Time `json:"time"`
}

func (e UserEvent) EventType() string     { return e.Type }
func (e UserEvent) AggregateID() string   { return e.UserID }
func (e UserEvent) OccurredAt() time.Time { return e.Time }

// NewUserEvent builds a user event stamped with the current time.
func NewUserEvent(eventType, userID string) UserEvent {
	return UserEvent{Type: eventType, UserID: userID, Time: time.Now().UTC()}
}
