// Package access evaluates the three-level team scoping policy. Every
// cross-worker read or write goes through one Descriptor built per request;
// a caller's own records are always reachable and never consult the policy.
package access

import (
	"slices"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

// Descriptor is the caller's effective scope: either full access or an
// explicit team-id set.
type Descriptor struct {
	Full    bool
	TeamIDs []int64
}

// NewDescriptor resolves a worker's stored access level into a Descriptor.
// allTeamIDs is the complete team directory; a full-access worker sees all
// of it even when its stored team set is empty.
func NewDescriptor(w *domain.Worker, allTeamIDs []int64) Descriptor {
	if w.AccessLevel == domain.AccessFull {
		return Descriptor{Full: true, TeamIDs: allTeamIDs}
	}
	return Descriptor{TeamIDs: w.AccessTeams}
}

func (d Descriptor) CanAccessTeam(teamID int64) bool {
	if d.Full {
		return true
	}
	return slices.Contains(d.TeamIDs, teamID)
}

// CanViewWorker reports whether the caller may read another worker's
// records: always for self, otherwise only when the target shares at least
// one team inside the caller's scope.
func (d Descriptor) CanViewWorker(callerID int64, target *domain.Worker) bool {
	if callerID == target.ID || d.Full {
		return true
	}
	for _, teamID := range target.AccessTeams {
		if slices.Contains(d.TeamIDs, teamID) {
			return true
		}
	}
	return false
}

// VisibleTeams is the team set every scoped aggregate must be limited to.
func (d Descriptor) VisibleTeams() []int64 {
	return d.TeamIDs
}
