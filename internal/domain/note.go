package domain

import "time"

type Note struct {
	ID        int64     `json:"id"`
	WorkerID  int64     `json:"workerId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
