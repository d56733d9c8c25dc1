package models

import "time"

// Evaluation is one submitted peer evaluation: an evaluator scoring an
// evaluatee against a form, within a team. Immutable after submission except
// through the explicit update endpoint.
type Evaluation struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	FormID      uint              `gorm:"not null;index" json:"form_id"`
	EvaluatorID uint              `gorm:"not null;index" json:"evaluator_id"`
	EvaluateeID uint              `gorm:"not null;index" json:"evaluatee_id"`
	TeamID      uint              `gorm:"not null;index" json:"team_id"`
	TotalScore  int               `gorm:"not null" json:"total_score"`
	Comments    string            `gorm:"type:text" json:"comments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Form        EvaluationForm    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"form"`
	Evaluator   User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"evaluator"`
	Evaluatee   User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"evaluatee"`
	Team        Team              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"team"`
	Scores      []EvaluationScore `gorm:"constraint:OnDelete:CASCADE" json:"scores"`
}

// EvaluationScore records the points given against one criterion.
type EvaluationScore struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	EvaluationID uint          `gorm:"not null;index" json:"evaluation_id"`
	CriterionID  uint          `gorm:"not null;index" json:"criterion_id"`
	Score        int           `gorm:"not null" json:"score"`
	Criterion    FormCriterion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"criterion"`
}
