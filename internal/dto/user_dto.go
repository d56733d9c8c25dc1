package dto

import (
	"time"

	"github.com/peereval/peereval-api/internal/models"
)

// UserCreateRequest describes the payload for creating a user directly.
type UserCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2"`
	Role     string `json:"role" validate:"omitempty,oneof=instructor student"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// UserUpdateRequest updates mutable user fields.
type UserUpdateRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Name  *string `json:"name" validate:"omitempty,min=2"`
	Role  *string `json:"role" validate:"omitempty,oneof=instructor student"`
}

// UserResponse is returned to API clients when viewing users.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserLite summarizes a user inside nested payloads.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}

// NewUserLite converts a User model into its nested summary form.
func NewUserLite(model models.User) UserLite {
	return UserLite{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
	}
}

// NewUserLiteSlice converts user models into nested summaries.
func NewUserLiteSlice(users []models.User) []UserLite {
	result := make([]UserLite, 0, len(users))
	for _, user := range users {
		result = append(result, NewUserLite(user))
	}

	return result
}
