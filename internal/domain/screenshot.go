package domain

import "time"

// Screenshot is append-only; rows are removed only by the retention purge.
type Screenshot struct {
	ID         int64     `json:"id"`
	WorkerID   int64     `json:"workerId"`
	ImagePath  string    `json:"imagePath"`
	CapturedAt time.Time `json:"capturedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
