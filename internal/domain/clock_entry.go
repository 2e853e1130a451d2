package domain

import "time"

// ClockEntry is one contiguous open-to-close work interval for a worker.
// At most one entry per worker may have a nil ClockOutAt at any time.
type ClockEntry struct {
	ID         int64      `json:"id"`
	WorkerID   int64      `json:"workerId"`
	ClockInAt  time.Time  `json:"clockInAt"`
	ClockOutAt *time.Time `json:"clockOutAt"`
	// TotalMinutes is filled exactly once, at close time. While the entry is
	// open, elapsed time must be derived from ClockInAt by the reader.
	// Includes any on-break time; breaks are client-local and not persisted.
	TotalMinutes *int32 `json:"totalMinutes"`
	// WorkDate is the calendar date of ClockInAt. Range queries filter on
	// this bucket, so an overnight session belongs to its start date.
	WorkDate  time.Time `json:"workDate"`
	CreatedAt time.Time `json:"createdAt"`
}
