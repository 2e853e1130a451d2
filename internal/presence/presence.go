// Package presence tracks one liveness pointer per worker in redis and
// classifies its freshness at read time. Heartbeat-based presence is a
// different signal from "has an open clock entry": the first answers
// whether the worker's client checked in recently, the second whether a
// work session is open.
package presence

import (
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

// DefaultActiveThreshold is how long a heartbeat stays fresh.
const DefaultActiveThreshold = 10 * time.Minute

// Classify derives a presence status from a heartbeat. A nil heartbeat means
// the worker never reported. Exactly at the threshold the worker is still
// active; only strictly older heartbeats are inactive.
func Classify(hb *domain.Heartbeat, now time.Time, threshold time.Duration) domain.PresenceStatus {
	if hb == nil {
		return domain.PresenceUnknown
	}
	if now.Sub(hb.LastActive) > threshold {
		return domain.PresenceInactive
	}
	return domain.PresenceActive
}
