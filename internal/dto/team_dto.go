package dto

import (
	"time"

	"github.com/peereval/peereval-api/internal/models"
)

// TeamCreateRequest describes the payload for creating a team.
type TeamCreateRequest struct {
	ProjectID uint   `json:"project_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,min=2"`
	MemberIDs []uint `json:"member_ids" validate:"omitempty,dive,gt=0"`
}

// TeamUpdateRequest updates mutable team fields.
type TeamUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2"`
}

// TeamMemberAddRequest adds one user to a team.
type TeamMemberAddRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

// TeamLite summarizes a team inside nested payloads.
type TeamLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TeamResponse is returned to API clients when viewing teams.
type TeamResponse struct {
	ID        uint       `json:"id"`
	ProjectID uint       `json:"project_id"`
	Name      string     `json:"name"`
	Members   []UserLite `json:"members"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTeamLite converts a Team model into its nested summary form.
func NewTeamLite(model models.Team) TeamLite {
	return TeamLite{ID: model.ID, Name: model.Name}
}

// NewTeamResponse converts a Team model into a DTO.
func NewTeamResponse(model models.Team) TeamResponse {
	return TeamResponse{
		ID:        model.ID,
		ProjectID: model.ProjectID,
		Name:      model.Name,
		Members:   NewUserLiteSlice(model.Members),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewTeamResponseSlice converts team models into DTOs.
func NewTeamResponseSlice(teams []models.Team) []TeamResponse {
	responses := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, NewTeamResponse(team))
	}

	return responses
}
