package models

import "time"

// User is an account that can author projects (instructor) or submit peer
// evaluations (student).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Role         string    `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	// RoleInstructor marks users allowed to manage projects, teams and forms.
	RoleInstructor = "instructor"
	// RoleStudent marks users that submit peer evaluations.
	RoleStudent = "student"
)

// IsInstructor reports whether the user holds the instructor role.
func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}
