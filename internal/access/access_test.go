package access_test

import (
	"testing"

	"github.com/pixelforge-digital/team-portal/backend/internal/access"
	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func TestNewDescriptorFullIgnoresStoredTeams(t *testing.T) {
	w := &domain.Worker{ID: 1, AccessLevel: domain.AccessFull, AccessTeams: nil}
	d := access.NewDescriptor(w, []int64{10, 20, 30})

	if !d.Full {
		t.Fatal("full-access worker did not get a full descriptor")
	}
	for _, teamID := range []int64{10, 20, 30, 99} {
		if !d.CanAccessTeam(teamID) {
			t.Errorf("full descriptor denied team %d", teamID)
		}
	}
}

func TestCanAccessTeamScoped(t *testing.T) {
	tests := []struct {
		name   string
		level  domain.AccessLevel
		teams  []int64
		teamID int64
		want   bool
	}{
		{"team_only inside set", domain.AccessTeamOnly, []int64{10}, 10, true},
		{"team_only outside set", domain.AccessTeamOnly, []int64{10}, 20, false},
		{"multi_team inside set", domain.AccessMultiTeam, []int64{10, 20}, 20, true},
		{"multi_team outside set", domain.AccessMultiTeam, []int64{10, 20}, 30, false},
		{"scoped with empty set", domain.AccessTeamOnly, nil, 10, false},
	}

	for _, tt := range tests {
		w := &domain.Worker{ID: 1, AccessLevel: tt.level, AccessTeams: tt.teams}
		d := access.NewDescriptor(w, []int64{10, 20, 30})
		if got := d.CanAccessTeam(tt.teamID); got != tt.want {
			t.Errorf("%s: CanAccessTeam(%d) = %v, want %v", tt.name, tt.teamID, got, tt.want)
		}
	}
}

func TestCanViewWorker(t *testing.T) {
	caller := &domain.Worker{ID: 1, AccessLevel: domain.AccessTeamOnly, AccessTeams: []int64{10}}
	d := access.NewDescriptor(caller, []int64{10, 20})

	self := &domain.Worker{ID: 1, AccessTeams: nil}
	if !d.CanViewWorker(caller.ID, self) {
		t.Error("caller denied access to own record")
	}

	teammate := &domain.Worker{ID: 2, AccessTeams: []int64{10, 20}}
	if !d.CanViewWorker(caller.ID, teammate) {
		t.Error("caller denied access to a worker sharing a visible team")
	}

	stranger := &domain.Worker{ID: 3, AccessTeams: []int64{20}}
	if d.CanViewWorker(caller.ID, stranger) {
		t.Error("caller allowed access to a worker outside its team scope")
	}
}
