package models

import "time"

// TemplateDependency is a directed edge: TemplateID depends on
// DependsOnID. The composite unique index keeps the ordered pair
// unique even under racing inserts.
type TemplateDependency struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TemplateID  uint      `gorm:"uniqueIndex:idx_template_dependency_pair" json:"template_id"`
	DependsOnID uint      `gorm:"uniqueIndex:idx_template_dependency_pair" json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`
}
