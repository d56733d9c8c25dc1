package models

import "time"

// Project groups teams and evaluation forms under a single course effort.
type Project struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	InstructorID uint       `gorm:"not null" json:"instructor_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Status       string     `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Instructor   User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"instructor"`
	Teams        []Team     `json:"teams,omitempty"`
}

const (
	// ProjectStatusActive indicates the project currently accepts evaluations.
	ProjectStatusActive = "active"
	// ProjectStatusArchived indicates a closed project kept for reporting.
	ProjectStatusArchived = "archived"
)
