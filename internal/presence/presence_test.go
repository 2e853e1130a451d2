package presence_test

import (
	"testing"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/presence"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	threshold := presence.DefaultActiveThreshold

	heartbeatAgedBy := func(age time.Duration) *domain.Heartbeat {
		return &domain.Heartbeat{WorkerID: 1, LastActive: now.Add(-age)}
	}

	tests := []struct {
		name string
		hb   *domain.Heartbeat
		want domain.PresenceStatus
	}{
		{"no heartbeat", nil, domain.PresenceUnknown},
		{"just reported", heartbeatAgedBy(0), domain.PresenceActive},
		{"two minutes old", heartbeatAgedBy(2 * time.Minute), domain.PresenceActive},
		// boundary: exactly at the threshold is still active
		{"exactly ten minutes", heartbeatAgedBy(10 * time.Minute), domain.PresenceActive},
		{"one second past threshold", heartbeatAgedBy(10*time.Minute + time.Second), domain.PresenceInactive},
		{"an hour old", heartbeatAgedBy(time.Hour), domain.PresenceInactive},
	}

	for _, tt := range tests {
		if got := presence.Classify(tt.hb, now, threshold); got != tt.want {
			t.Errorf("%s: Classify = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// Mirrors the clock-in / break / resume timeline: the heartbeat stops when a
// break starts and presence degrades past the threshold without any explicit
// break flag reaching the server.
func TestClassifyBreakTimeline(t *testing.T) {
	start := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)
	threshold := presence.DefaultActiveThreshold

	// last heartbeat fired at T+4min, break started at T+5min
	lastBeat := &domain.Heartbeat{WorkerID: 7, LastActive: start.Add(4 * time.Minute)}

	if got := presence.Classify(lastBeat, start.Add(5*time.Minute), threshold); got != domain.PresenceActive {
		t.Fatalf("at break start: got %q, want active", got)
	}
	if got := presence.Classify(lastBeat, start.Add(16*time.Minute), threshold); got != domain.PresenceInactive {
		t.Fatalf("11 min after last beat: got %q, want inactive", got)
	}

	// resume at T+20min sends an immediate beat
	resumed := &domain.Heartbeat{WorkerID: 7, LastActive: start.Add(20 * time.Minute)}
	if got := presence.Classify(resumed, start.Add(20*time.Minute), threshold); got != domain.PresenceActive {
		t.Fatalf("after resume: got %q, want active", got)
	}
}
