package domain

import "time"

// Notification is a fire-and-forget notice published to the notification
// queue. Publish failures never affect the operation that raised them.
type Notification struct {
	Type       string    `json:"type"`
	WorkerID   int64     `json:"workerId"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	NotificationClockAnomaly  = "clock_anomaly"
	NotificationLeaveDecision = "leave_decision"
	NotificationLeaveRequest  = "leave_request"
)
