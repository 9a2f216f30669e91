package models

import "time"

// NotificationPhase is where a notification is in its lifecycle
type NotificationPhase string

const (
	NotificationVisible NotificationPhase = "visible"
	NotificationLeaving NotificationPhase = "leaving"
)

// Notification is a transient error message shown to the user
type Notification struct {
	ID        uint64            `json:"id"`
	Message   string            `json:"message"`
	Phase     NotificationPhase `json:"phase"`
	CreatedAt time.Time         `json:"createdAt"`
}
