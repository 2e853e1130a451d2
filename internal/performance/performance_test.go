package performance_test

import (
	"testing"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/access"
	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/performance"
	"github.com/pixelforge-digital/team-portal/backend/internal/timeutil"
)

type fakeClock struct {
	entries map[int64][]*domain.ClockEntry
	active  map[int64]*domain.ClockEntry
}

func (f *fakeClock) GetClockEntries(workerID int64, from, to *time.Time) ([]*domain.ClockEntry, error) {
	result := []*domain.ClockEntry{}
	for _, entry := range f.entries[workerID] {
		if from != nil && entry.WorkDate.Before(*from) {
			continue
		}
		if to != nil && entry.WorkDate.After(*to) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (f *fakeClock) GetActiveClockEntry(workerID int64) (*domain.ClockEntry, error) {
	entry, ok := f.active[workerID]
	if !ok {
		return nil, domain.ErrNotClockedIn
	}
	return entry, nil
}

type fakeTasks struct {
	tasks []*domain.Task
}

func (f *fakeTasks) GetTasksByTeams(teamIDs []int64) ([]*domain.Task, error) {
	inScope := map[int64]bool{}
	for _, teamID := range teamIDs {
		inScope[teamID] = true
	}
	result := []*domain.Task{}
	for _, task := range f.tasks {
		if inScope[task.TeamID] {
			result = append(result, task)
		}
	}
	return result, nil
}

type fakeWorkers struct {
	workers []*domain.Worker
}

func (f *fakeWorkers) GetAllWorkers() ([]*domain.Worker, error) {
	return f.workers, nil
}

func closedEntry(workerID int64, date time.Time, minutes int32) *domain.ClockEntry {
	out := date.Add(9*time.Hour + time.Duration(minutes)*time.Minute)
	return &domain.ClockEntry{
		WorkerID:     workerID,
		ClockInAt:    date.Add(9 * time.Hour),
		ClockOutAt:   &out,
		TotalMinutes: &minutes,
		WorkDate:     date,
	}
}

func int64p(v int64) *int64 { return &v }

func TestWeeklyBreakdown(t *testing.T) {
	// Monday reference: the window must start that same Monday.
	ref := time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC)
	monday := timeutil.Midnight(ref)

	clock := &fakeClock{entries: map[int64][]*domain.ClockEntry{
		1: {
			closedEntry(1, monday, 480),                 // Mon 8h
			closedEntry(1, monday.AddDate(0, 0, 2), 90), // Wed 1.5h
			closedEntry(1, monday.AddDate(0, 0, 2), 30), // Wed +0.5h
			// last week, must only feed the trend
			closedEntry(1, monday.AddDate(0, 0, -3), 300),
			// open entry, must not count
			{WorkerID: 1, ClockInAt: ref, WorkDate: monday},
		},
	}}
	agg := performance.NewAggregator(clock, &fakeTasks{}, &fakeWorkers{})

	report, err := agg.WeeklyBreakdown(1, ref)
	if err != nil {
		t.Fatalf("WeeklyBreakdown: %v", err)
	}

	if !report.WeekStart.Equal(monday) {
		t.Errorf("week start = %v, want %v", report.WeekStart, monday)
	}
	if report.Days[0].Label != "Mon" || report.Days[0].Hours != 8 {
		t.Errorf("Mon = %+v, want 8h", report.Days[0])
	}
	if report.Days[2].Hours != 2 {
		t.Errorf("Wed = %v, want 2h", report.Days[2].Hours)
	}
	if report.TotalHours != 10 {
		t.Errorf("total = %v, want 10", report.TotalHours)
	}
	// two nonzero days
	if report.AverageDailyHours != 5 {
		t.Errorf("average = %v, want 5", report.AverageDailyHours)
	}
	if report.Trend.Direction != "up" || report.Trend.Percent != 100 {
		t.Errorf("trend = %+v, want up 100%%", report.Trend)
	}
}

func TestWeeklyBreakdownWorkDateLocationMismatch(t *testing.T) {
	// DATE columns scan as UTC midnight while the reference time carries the
	// server's zone. West of UTC the two midnights differ by several hours,
	// which must not shift hours onto the previous day's label.
	loc := time.FixedZone("UTC-5", -5*60*60)
	ref := time.Date(2025, 1, 8, 10, 0, 0, 0, loc) // a Wednesday
	tuesdayUTC := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	clock := &fakeClock{entries: map[int64][]*domain.ClockEntry{
		1: {closedEntry(1, tuesdayUTC, 120)},
	}}
	agg := performance.NewAggregator(clock, &fakeTasks{}, &fakeWorkers{})

	report, err := agg.WeeklyBreakdown(1, ref)
	if err != nil {
		t.Fatalf("WeeklyBreakdown: %v", err)
	}

	if report.Days[0].Hours != 0 {
		t.Errorf("Mon = %vh, want 0 (Tuesday's entry leaked a day earlier)", report.Days[0].Hours)
	}
	if report.Days[1].Hours != 2 {
		t.Errorf("Tue = %vh, want 2", report.Days[1].Hours)
	}
}

func TestWeeklyBreakdownEmptyWeek(t *testing.T) {
	ref := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	agg := performance.NewAggregator(&fakeClock{entries: map[int64][]*domain.ClockEntry{}}, &fakeTasks{}, &fakeWorkers{})

	report, err := agg.WeeklyBreakdown(1, ref)
	if err != nil {
		t.Fatalf("WeeklyBreakdown: %v", err)
	}
	if report.TotalHours != 0 || report.AverageDailyHours != 0 {
		t.Errorf("empty week produced hours: %+v", report)
	}
	if report.Trend.Direction != "neutral" {
		t.Errorf("empty week trend = %+v, want neutral", report.Trend)
	}
}

func TestTrendVsLastWeek(t *testing.T) {
	tests := []struct {
		thisWeek, lastWeek float64
		direction          string
		percent            int
	}{
		{0, 0, "neutral", 0},
		{5, 0, "up", 100},
		{8, 10, "down", 20},
		{12, 10, "up", 20},
		{10, 10, "neutral", 0},
	}

	for _, tt := range tests {
		got := performance.TrendVsLastWeek(tt.thisWeek, tt.lastWeek)
		if got.Direction != tt.direction || got.Percent != tt.percent {
			t.Errorf("TrendVsLastWeek(%v, %v) = %+v, want %s %d%%",
				tt.thisWeek, tt.lastWeek, got, tt.direction, tt.percent)
		}
	}
}

func TestCompletionRatio(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0}, // never divides by zero
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := performance.CompletionRatio(tt.done, tt.total); got != tt.want {
			t.Errorf("CompletionRatio(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestTaskCompletionScoping(t *testing.T) {
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: 1, TeamID: 10, AssigneeID: int64p(1), Status: domain.TaskStatusDone},
		{ID: 2, TeamID: 10, AssigneeID: int64p(1), Status: domain.TaskStatusTodo},
		{ID: 3, TeamID: 10, AssigneeID: int64p(2), Status: domain.TaskStatusDone},
		{ID: 4, TeamID: 20, AssigneeID: int64p(1), Status: domain.TaskStatusDone},
	}}
	agg := performance.NewAggregator(&fakeClock{}, tasks, &fakeWorkers{})

	scoped := access.NewDescriptor(&domain.Worker{ID: 1, AccessLevel: domain.AccessTeamOnly, AccessTeams: []int64{10}}, []int64{10, 20})
	done, total, err := agg.TaskCompletion(scoped, int64p(1))
	if err != nil {
		t.Fatalf("TaskCompletion: %v", err)
	}
	// team 20's task is out of scope, worker 2's task is filtered out
	if done != 1 || total != 2 {
		t.Errorf("scoped self completion = %d/%d, want 1/2", done, total)
	}

	full := access.NewDescriptor(&domain.Worker{ID: 9, AccessLevel: domain.AccessFull}, []int64{10, 20})
	done, total, err = agg.TaskCompletion(full, nil)
	if err != nil {
		t.Fatalf("TaskCompletion: %v", err)
	}
	if done != 3 || total != 4 {
		t.Errorf("full completion = %d/%d, want 3/4", done, total)
	}
}

func TestAdminReport(t *testing.T) {
	ref := time.Date(2025, 1, 15, 16, 0, 0, 0, time.UTC) // a Wednesday
	today := timeutil.Midnight(ref)

	workers := &fakeWorkers{workers: []*domain.Worker{
		{ID: 1, FullName: "Dana Reyes", IsActive: true},
		{ID: 2, FullName: "Sam Ortiz", IsActive: true},
		{ID: 3, FullName: "Gone Worker", IsActive: false},
	}}
	clock := &fakeClock{
		entries: map[int64][]*domain.ClockEntry{
			1: {
				closedEntry(1, today, 240),                  // today 4h
				closedEntry(1, today.AddDate(0, 0, -2), 60), // Monday 1h
				closedEntry(1, today.AddDate(0, 0, -9), 60), // previous week, month only
			},
		},
		// worker 2 is clocked in but has no heartbeat anywhere; the report
		// must still say clockedIn because the signals are independent
		active: map[int64]*domain.ClockEntry{
			2: {WorkerID: 2, ClockInAt: ref.Add(-time.Hour), WorkDate: today},
		},
	}
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: 1, TeamID: 10, AssigneeID: int64p(1), Status: domain.TaskStatusDone},
		{ID: 2, TeamID: 10, AssigneeID: int64p(1), Status: domain.TaskStatusInProgress},
	}}

	agg := performance.NewAggregator(clock, tasks, workers)
	report, err := agg.AdminReport([]int64{10}, ref)
	if err != nil {
		t.Fatalf("AdminReport: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("report covers %d workers, want 2 (inactive excluded)", len(report))
	}

	first := report[0]
	if first.TodayHours != 4 || first.WeekHours != 5 || first.MonthHours != 6 {
		t.Errorf("worker 1 hours = %v/%v/%v, want 4/5/6", first.TodayHours, first.WeekHours, first.MonthHours)
	}
	if first.TasksDone != 1 || first.TasksTotal != 2 || first.CompletionPercent != 50 {
		t.Errorf("worker 1 tasks = %d/%d (%d%%), want 1/2 (50%%)", first.TasksDone, first.TasksTotal, first.CompletionPercent)
	}
	if first.ClockedIn {
		t.Error("worker 1 reported clocked in without an open entry")
	}

	second := report[1]
	if !second.ClockedIn {
		t.Error("worker 2 has an open entry but was not reported clocked in")
	}
}
