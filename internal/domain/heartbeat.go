package domain

import "time"

// Heartbeat is a single liveness pointer per worker, not an append log.
type Heartbeat struct {
	WorkerID    int64     `json:"workerId"`
	AppName     string    `json:"appName,omitempty"`
	WindowTitle string    `json:"windowTitle,omitempty"`
	LastActive  time.Time `json:"lastActive"`
}

// PresenceStatus is derived from heartbeat freshness at read time. It is
// independent of whether the worker has an open clock entry.
type PresenceStatus string

const (
	PresenceUnknown  PresenceStatus = "unknown"
	PresenceActive   PresenceStatus = "active"
	PresenceInactive PresenceStatus = "inactive"
)
