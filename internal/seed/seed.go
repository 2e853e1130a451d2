// Package seed fills a development database with a plausible agency:
// teams, workers, a task board, two weeks of clock history, leave requests
// and notes. Nothing here runs in production.
package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/config"
	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/repository"
	"github.com/pixelforge-digital/team-portal/backend/internal/timeutil"
	"github.com/pixelforge-digital/team-portal/backend/internal/utils"
)

var teamNames = []string{"Creative", "Accounts", "Digital", "Media Buying"}

var taskTitles = []string{
	"Draft landing page copy",
	"Prepare campaign brief",
	"Review ad creatives",
	"Schedule social posts",
	"Compile monthly report",
	"Client kickoff deck",
	"Keyword research",
	"Banner resize batch",
}

func SeedTeams(r *repository.Repository) []*domain.Team {
	teams := []*domain.Team{}
	for _, name := range teamNames {
		team := &domain.Team{Name: name}
		if err := r.CreateTeam(team); err != nil {
			slog.Error("failed to create team", "name", name, "error", err)
			continue
		}
		teams = append(teams, team)
	}

	slog.Info("seeded teams", "count", len(teams))
	return teams
}

func SeedWorkers(r *repository.Repository, cfg *config.Config, teams []*domain.Team, n int) []*domain.Worker {
	workers := []*domain.Worker{}
	for i := 0; i < n; i++ {
		worker, err := utils.GenerateRandomWorker(cfg.Seed.Worker.Password, cfg.Email.WorkerDomain)
		if err != nil {
			slog.Error("failed to generate worker", "error", err)
			continue
		}

		team := teams[rand.Intn(len(teams))]
		worker.AccessLevel = domain.AccessTeamOnly
		worker.AccessTeams = []int64{team.ID}

		// a few team leads get multi-team visibility
		if rand.Intn(5) == 0 && len(teams) > 1 {
			other := teams[rand.Intn(len(teams))]
			worker.AccessLevel = domain.AccessMultiTeam
			worker.AccessTeams = []int64{team.ID, other.ID}
		}

		if err := r.CreateWorker(worker); err != nil {
			slog.Error("failed to create worker", "username", worker.Username, "error", err)
			continue
		}
		workers = append(workers, worker)
	}

	slog.Info("seeded workers", "count", len(workers))
	return workers
}

func SeedTasks(r *repository.Repository, teams []*domain.Team, workers []*domain.Worker) {
	statuses := []domain.TaskStatus{
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusReview,
		domain.TaskStatusDone,
	}

	count := 0
	for _, team := range teams {
		for i := 0; i < 5; i++ {
			task := &domain.Task{
				TeamID: team.ID,
				Title:  taskTitles[rand.Intn(len(taskTitles))],
				Status: domain.TaskStatusTodo,
			}

			if len(workers) > 0 && rand.Intn(4) != 0 {
				assignee := workers[rand.Intn(len(workers))]
				task.AssigneeID = &assignee.ID
			}

			if err := r.CreateTask(task); err != nil {
				slog.Error("failed to create task", "error", err)
				continue
			}

			if status := statuses[rand.Intn(len(statuses))]; status != domain.TaskStatusTodo {
				if err := r.UpdateTaskStatus(task, status); err != nil {
					slog.Error("failed to move task", "error", err)
				}
			}
			count++
		}
	}

	slog.Info("seeded tasks", "count", count)
}

// SeedClockHistory writes two weeks of closed sessions per worker, skipping
// weekends and the occasional weekday to keep the reports uneven.
func SeedClockHistory(r *repository.Repository, workers []*domain.Worker) {
	count := 0
	for _, worker := range workers {
		for daysAgo := 14; daysAgo >= 1; daysAgo-- {
			day := timeutil.Midnight(time.Now().AddDate(0, 0, -daysAgo))
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			if rand.Intn(8) == 0 {
				continue
			}

			clockIn := day.Add(9 * time.Hour).Add(time.Duration(rand.Intn(45)) * time.Minute)
			clockOut := clockIn.Add(time.Duration(6+rand.Intn(4)) * time.Hour).Add(time.Duration(rand.Intn(60)) * time.Minute)

			entry := &domain.ClockEntry{
				WorkerID:  worker.ID,
				ClockInAt: clockIn,
			}
			if err := r.CreateClockEntry(entry); err != nil {
				slog.Error("failed to open clock entry", "worker", worker.Username, "error", err)
				continue
			}
			if err := r.CloseClockEntry(entry, clockOut, timeutil.MinutesBetween(clockIn, clockOut)); err != nil {
				slog.Error("failed to close clock entry", "worker", worker.Username, "error", err)
				continue
			}
			count++
		}
	}

	slog.Info("seeded clock history", "count", count)
}

func SeedLeaveRequests(r *repository.Repository, workers []*domain.Worker) {
	reasons := []string{"family trip", "medical appointment", "moving house", "conference"}

	count := 0
	for _, worker := range workers {
		if rand.Intn(3) != 0 {
			continue
		}

		start := timeutil.Midnight(time.Now().AddDate(0, 0, 7+rand.Intn(21)))
		request := &domain.LeaveRequest{
			WorkerID:  worker.ID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, rand.Intn(5)),
			Reason:    reasons[rand.Intn(len(reasons))],
		}
		if err := r.CreateLeaveRequest(request); err != nil {
			slog.Error("failed to create leave request", "error", err)
			continue
		}
		count++
	}

	slog.Info("seeded leave requests", "count", count)
}

func SeedNotes(r *repository.Repository, workers []*domain.Worker) {
	count := 0
	for _, worker := range workers {
		if rand.Intn(2) != 0 {
			continue
		}

		note := &domain.Note{
			WorkerID: worker.ID,
			Title:    "Standup notes",
			Body:     "Follow up with the client on deliverables before Friday.",
		}
		if err := r.CreateNote(note); err != nil {
			slog.Error("failed to create note", "error", err)
			continue
		}
		count++
	}

	slog.Info("seeded notes", "count", count)
}

// SeedAll builds the full demo dataset in dependency order.
func SeedAll(r *repository.Repository, cfg *config.Config, workerCount int) {
	teams := SeedTeams(r)
	if len(teams) == 0 {
		return
	}

	workers := SeedWorkers(r, cfg, teams, workerCount)
	SeedTasks(r, teams, workers)
	SeedClockHistory(r, workers)
	SeedLeaveRequests(r, workers)
	SeedNotes(r, workers)
}
