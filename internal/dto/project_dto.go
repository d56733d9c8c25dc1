package dto

import (
	"time"

	"github.com/peereval/peereval-api/internal/models"
)

// ProjectCreateRequest describes the payload for creating a project. Dates
// are accepted as "2006-01-02" or RFC 3339 strings.
type ProjectCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status" validate:"omitempty,oneof=active archived"`
}

// ProjectUpdateRequest updates mutable project fields.
type ProjectUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

// ProjectResponse is returned to API clients when viewing projects.
type ProjectResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	InstructorID uint       `json:"instructor_id"`
	Instructor   UserLite   `json:"instructor"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewProjectResponse converts a Project model into a DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		InstructorID: model.InstructorID,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Instructor.ID != 0 {
		response.Instructor = NewUserLite(model.Instructor)
	}

	return response
}

// NewProjectResponseSlice converts project models into DTOs.
func NewProjectResponseSlice(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, NewProjectResponse(project))
	}

	return responses
}
