package model

import "time"

// Video lifecycle event types published on NATS.
const (
	EventVideoCreated = "created"
	EventVideoUpdated = "updated"
	EventVideoDeleted = "deleted"
	EventVideoViewed  = "viewed"
)

// VideoEvent represents the structure sent to NATS
type VideoEvent struct {
	Type      string    `json:"type"`
	VideoID   string    `json:"videoId"`
	UserID    string    `json:"userId,omitempty"`
	Video     *Video    `json:"video,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// ViewRequest is consumed from NATS when another service records a view
type ViewRequest struct {
	VideoID   string `json:"videoId"`
	RequestID string `json:"requestId,omitempty"`
}
