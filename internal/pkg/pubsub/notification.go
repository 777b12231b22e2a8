package pubsub

import "time"

// UserNotification is the payload consumed by the notification service.
type UserNotification struct {
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RefModel  string    `json:"refModel,omitempty"`
	RefID     string    `json:"refId,omitempty"`
	EventType string    `json:"eventType"`
	CreatedAt time.Time `json:"createdAt"`
}
