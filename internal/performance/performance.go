// Package performance derives hour totals, task-completion ratios and
// week-over-week trends from the clock ledger and the task store. All
// computation takes an explicit reference time so reports are reproducible.
package performance

import (
	"errors"
	"math"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/access"
	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/timeutil"
)

type ClockSource interface {
	GetClockEntries(workerID int64, from, to *time.Time) ([]*domain.ClockEntry, error)
	// GetActiveClockEntry reports domain.ErrNotClockedIn when no entry is open.
	GetActiveClockEntry(workerID int64) (*domain.ClockEntry, error)
}

type TaskSource interface {
	GetTasksByTeams(teamIDs []int64) ([]*domain.Task, error)
}

type WorkerSource interface {
	GetAllWorkers() ([]*domain.Worker, error)
}

type Aggregator struct {
	clock   ClockSource
	tasks   TaskSource
	workers WorkerSource
}

func NewAggregator(clock ClockSource, tasks TaskSource, workers WorkerSource) *Aggregator {
	return &Aggregator{
		clock:   clock,
		tasks:   tasks,
		workers: workers,
	}
}

type DayHours struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

type Trend struct {
	Direction string `json:"direction"` // up, down or neutral
	Percent   int    `json:"percent"`
}

type WeeklyReport struct {
	WeekStart         time.Time   `json:"weekStart"`
	Days              [7]DayHours `json:"days"`
	TotalHours        float64     `json:"totalHours"`
	AverageDailyHours float64     `json:"averageDailyHours"`
	Trend             Trend       `json:"trend"`
}

// WeeklyBreakdown sums closed entries over the Monday..Sunday window
// containing ref. Open entries contribute nothing; their elapsed time is a
// client-side derivation until clock-out.
func (a *Aggregator) WeeklyBreakdown(workerID int64, ref time.Time) (*WeeklyReport, error) {
	weekStart := timeutil.WeekStart(ref)
	weekEnd := weekStart.AddDate(0, 0, 6)

	entries, err := a.clock.GetClockEntries(workerID, &weekStart, &weekEnd)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{WeekStart: weekStart}

	var minutesPerDay [7]int32
	for _, entry := range entries {
		if entry.TotalMinutes == nil {
			continue
		}
		// match on calendar dates: WorkDate may carry a different location
		// than weekStart (DATE columns scan as UTC midnight), so duration
		// arithmetic between the two would shift the bucket.
		for day := 0; day < 7; day++ {
			if timeutil.SameDate(entry.WorkDate, weekStart.AddDate(0, 0, day)) {
				minutesPerDay[day] += *entry.TotalMinutes
				break
			}
		}
	}

	nonzeroDays := 0
	var totalMinutes int32
	for i, minutes := range minutesPerDay {
		report.Days[i] = DayHours{
			Label: timeutil.DayLabels[i],
			Hours: timeutil.HoursFromMinutes(minutes),
		}
		totalMinutes += minutes
		if minutes > 0 {
			nonzeroDays++
		}
	}

	report.TotalHours = timeutil.HoursFromMinutes(totalMinutes)
	if nonzeroDays == 0 {
		nonzeroDays = 1 // no hours logged yet; avoid dividing by zero
	}
	report.AverageDailyHours = math.Round(report.TotalHours/float64(nonzeroDays)*10) / 10

	lastWeekHours, err := a.rangeHours(workerID, weekStart.AddDate(0, 0, -7), weekStart.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	report.Trend = TrendVsLastWeek(report.TotalHours, lastWeekHours)

	return report, nil
}

// TrendVsLastWeek compares two weekly totals. A week climbing out of zero is
// reported as a flat 100% rise since the true ratio is undefined.
func TrendVsLastWeek(thisWeek, lastWeek float64) Trend {
	switch {
	case thisWeek == 0 && lastWeek == 0:
		return Trend{Direction: "neutral", Percent: 0}
	case lastWeek == 0:
		return Trend{Direction: "up", Percent: 100}
	}

	change := (thisWeek - lastWeek) / lastWeek * 100
	percent := int(math.Round(math.Abs(change)))
	switch {
	case change > 0:
		return Trend{Direction: "up", Percent: percent}
	case change < 0:
		return Trend{Direction: "down", Percent: percent}
	default:
		return Trend{Direction: "neutral", Percent: 0}
	}
}

// CompletionRatio is done/total as a rounded percentage, 0 when no tasks
// exist rather than a division by zero.
func CompletionRatio(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// TaskCompletion counts done vs all tasks over the caller's visible teams.
// assigneeID narrows the count to one worker's assignments; a full-access
// caller passes nil to count every task in scope.
func (a *Aggregator) TaskCompletion(scope access.Descriptor, assigneeID *int64) (done, total int, err error) {
	tasks, err := a.tasks.GetTasksByTeams(scope.VisibleTeams())
	if err != nil {
		return 0, 0, err
	}

	for _, task := range tasks {
		if assigneeID != nil && (task.AssigneeID == nil || *task.AssigneeID != *assigneeID) {
			continue
		}
		total++
		if task.Status == domain.TaskStatusDone {
			done++
		}
	}

	return done, total, nil
}

type WorkerPerformance struct {
	Worker            *domain.Worker `json:"worker"`
	TodayHours        float64        `json:"todayHours"`
	WeekHours         float64        `json:"weekHours"`
	MonthHours        float64        `json:"monthHours"`
	TasksDone         int            `json:"tasksDone"`
	TasksTotal        int            `json:"tasksTotal"`
	CompletionPercent int            `json:"completionPercent"`
	// ClockedIn means an open ledger entry exists. It is deliberately not
	// the heartbeat-based presence signal: a worker can be clocked in with
	// an unresponsive client, and that combination is what admins look for.
	ClockedIn bool `json:"clockedIn"`
}

// AdminReport rolls up today/week/month hours and task counts for every
// active worker, against all teams.
func (a *Aggregator) AdminReport(allTeamIDs []int64, ref time.Time) ([]*WorkerPerformance, error) {
	workers, err := a.workers.GetAllWorkers()
	if err != nil {
		return nil, err
	}

	tasks, err := a.tasks.GetTasksByTeams(allTeamIDs)
	if err != nil {
		return nil, err
	}

	today := timeutil.Midnight(ref)
	weekStart := timeutil.WeekStart(ref)
	monthStart := timeutil.MonthStart(ref)

	report := []*WorkerPerformance{}
	for _, worker := range workers {
		if !worker.IsActive {
			continue
		}

		wp := &WorkerPerformance{Worker: worker}

		if wp.TodayHours, err = a.rangeHours(worker.ID, today, today); err != nil {
			return nil, err
		}
		if wp.WeekHours, err = a.rangeHours(worker.ID, weekStart, today); err != nil {
			return nil, err
		}
		if wp.MonthHours, err = a.rangeHours(worker.ID, monthStart, today); err != nil {
			return nil, err
		}

		for _, task := range tasks {
			if task.AssigneeID == nil || *task.AssigneeID != worker.ID {
				continue
			}
			wp.TasksTotal++
			if task.Status == domain.TaskStatusDone {
				wp.TasksDone++
			}
		}
		wp.CompletionPercent = CompletionRatio(wp.TasksDone, wp.TasksTotal)

		if _, err := a.clock.GetActiveClockEntry(worker.ID); err != nil {
			if !errors.Is(err, domain.ErrNotClockedIn) {
				return nil, err
			}
		} else {
			wp.ClockedIn = true
		}

		report = append(report, wp)
	}

	return report, nil
}

func (a *Aggregator) rangeHours(workerID int64, from, to time.Time) (float64, error) {
	entries, err := a.clock.GetClockEntries(workerID, &from, &to)
	if err != nil {
		return 0, err
	}

	var minutes int32
	for _, entry := range entries {
		if entry.TotalMinutes != nil {
			minutes += *entry.TotalMinutes
		}
	}

	return timeutil.HoursFromMinutes(minutes), nil
}
