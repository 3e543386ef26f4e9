package models

import "time"

// Review is the current approval state of a task, one row per task.
// The row is created on first submission and mutated in place after
// that; the full trail lives in ReviewEvent.
type Review struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TaskID          uint       `gorm:"uniqueIndex" json:"task_id"`
	AuthorID        uint       `json:"author_id"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedByID    *uint      `json:"reviewed_by_id"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	LatestCommentID *uint      `json:"latest_comment_id"`
}
