package models

import "time"

// TaskTemplate is a reusable task blueprint. Instantiating one
// creates a concrete task through the Task service.
type TaskTemplate struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	EstimatedCost  float64              `json:"estimated_cost"`
	AttachmentType string               `json:"attachment_type"`
	CreatedByID    uint                 `json:"created_by_id"`
	CreatedAt      time.Time            `json:"created_at"`
	Dependencies   []TemplateDependency `gorm:"foreignKey:TemplateID" json:"dependencies"`
}
