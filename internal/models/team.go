package models

import "time"

// Team is a set of users evaluating one another within a project.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null" json:"project_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Project   Project   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"project"`
	Members   []User    `gorm:"many2many:team_members;constraint:OnDelete:CASCADE" json:"members"`
}

// HasMember reports whether the given user belongs to the team.
func (t Team) HasMember(userID uint) bool {
	for _, member := range t.Members {
		if member.ID == userID {
			return true
		}
	}
	return false
}

// PeersOf returns the members of the team excluding the given user, in stored
// order. The result is the set of valid evaluatees for that user.
func (t Team) PeersOf(userID uint) []User {
	peers := make([]User, 0, len(t.Members))
	for _, member := range t.Members {
		if member.ID != userID {
			peers = append(peers, member)
		}
	}
	return peers
}
