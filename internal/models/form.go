package models

import "time"

// EvaluationForm is an instructor-authored rubric: a title, an overall
// maximum score, and an ordered set of criteria whose point maxima must sum
// to that maximum.
type EvaluationForm struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProjectID   uint            `gorm:"not null" json:"project_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	MaxScore    int             `gorm:"not null" json:"max_score"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Project     Project         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"project"`
	Criteria    []FormCriterion `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"criteria"`
}

// FormCriterion is a named, bounded scoring dimension within a form. Criteria
// are ordered by OrderIndex, assigned at save time from request position.
type FormCriterion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FormID      uint      `gorm:"not null;index" json:"form_id"`
	Text        string    `gorm:"size:512;not null" json:"text"`
	Description string    `gorm:"type:text" json:"description"`
	MaxPoints   int       `gorm:"not null" json:"max_points"`
	OrderIndex  int       `gorm:"not null" json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
