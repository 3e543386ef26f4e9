package models

import "time"

// ReviewEvent is the append-only transition log for a task's review.
// Seq is dense per task; the latest event always agrees with the
// Review row because both are written in the same transaction.
type ReviewEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"uniqueIndex:idx_review_events_task_seq" json:"task_id"`
	Seq       uint      `gorm:"uniqueIndex:idx_review_events_task_seq" json:"seq"`
	Action    string    `json:"action"`
	ActorID   uint      `json:"actor_id"`
	CommentID *uint     `json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
