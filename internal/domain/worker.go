package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// AccessLevel scopes which teams' data a worker may see and manage.
type AccessLevel string

const (
	AccessFull      AccessLevel = "full"
	AccessMultiTeam AccessLevel = "multi_team"
	AccessTeamOnly  AccessLevel = "team_only"
)

type Worker struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	FullName     string      `json:"fullName"`
	Email        string      `json:"email"`
	Role         Role        `json:"role"`
	Designation  string      `json:"designation"`
	AccessLevel  AccessLevel `json:"accessLevel"`
	// Team IDs the worker may act within. Ignored when AccessLevel is
	// AccessFull, which always means every existing team.
	AccessTeams []int64   `json:"accessTeams"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
