package models

import "time"

// ReviewComment is written once per rejection and never updated.
type ReviewComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"index" json:"review_id"`
	TaskID    uint      `gorm:"index" json:"task_id"`
	AuthorID  uint      `json:"author_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
