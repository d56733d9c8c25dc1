package dto

import (
	"time"

	"github.com/peereval/peereval-api/internal/models"
)

// FormCriterionRequest describes one criterion within a form create payload.
// Order is assigned from the criterion's position in the request.
type FormCriterionRequest struct {
	Text        string `json:"text" validate:"required,min=2"`
	Description string `json:"description"`
	MaxPoints   int    `json:"max_points" validate:"required,gte=1"`
}

// FormCreateRequest describes the payload for creating an evaluation form.
type FormCreateRequest struct {
	ProjectID   uint                   `json:"project_id" validate:"required,gt=0"`
	Title       string                 `json:"title" validate:"required,min=2"`
	Description string                 `json:"description"`
	MaxScore    int                    `json:"max_score" validate:"required,gte=1"`
	Criteria    []FormCriterionRequest `json:"criteria" validate:"required,min=1,dive"`
}

// FormUpdateRequest updates form metadata (not criteria).
type FormUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	MaxScore    *int    `json:"max_score" validate:"omitempty,gte=1"`
}

// CriterionUpdateRequest updates a single criterion.
type CriterionUpdateRequest struct {
	Text        *string `json:"text" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	MaxPoints   *int    `json:"max_points" validate:"omitempty,gte=1"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,gte=0"`
}

// CriterionResponse serializes one form criterion.
type CriterionResponse struct {
	ID          uint   `json:"id"`
	FormID      uint   `json:"form_id"`
	Text        string `json:"text"`
	Description string `json:"description"`
	MaxPoints   int    `json:"max_points"`
	OrderIndex  int    `json:"order_index"`
}

// FormLite summarizes a form inside nested payloads.
type FormLite struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	MaxScore int    `json:"max_score"`
}

// FormResponse is returned to API clients when viewing forms.
type FormResponse struct {
	ID            uint                `json:"id"`
	ProjectID     uint                `json:"project_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	MaxScore      int                 `json:"max_score"`
	Criteria      []CriterionResponse `json:"criteria"`
	CriteriaCount int                 `json:"criteria_count"`
	UsageCount    int64               `json:"usage_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewCriterionResponse converts a FormCriterion model into a DTO.
func NewCriterionResponse(model models.FormCriterion) CriterionResponse {
	return CriterionResponse{
		ID:          model.ID,
		FormID:      model.FormID,
		Text:        model.Text,
		Description: model.Description,
		MaxPoints:   model.MaxPoints,
		OrderIndex:  model.OrderIndex,
	}
}

// NewCriterionResponseSlice converts criterion models into DTOs.
func NewCriterionResponseSlice(criteria []models.FormCriterion) []CriterionResponse {
	responses := make([]CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		responses = append(responses, NewCriterionResponse(criterion))
	}

	return responses
}

// NewFormLite converts an EvaluationForm model into its nested summary form.
func NewFormLite(model models.EvaluationForm) FormLite {
	return FormLite{ID: model.ID, Title: model.Title, MaxScore: model.MaxScore}
}

// NewFormResponse converts an EvaluationForm model into a DTO.
func NewFormResponse(model models.EvaluationForm) FormResponse {
	criteria := NewCriterionResponseSlice(model.Criteria)

	return FormResponse{
		ID:            model.ID,
		ProjectID:     model.ProjectID,
		Title:         model.Title,
		Description:   model.Description,
		MaxScore:      model.MaxScore,
		Criteria:      criteria,
		CriteriaCount: len(criteria),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewFormResponseSlice converts form models into DTOs.
func NewFormResponseSlice(forms []models.EvaluationForm) []FormResponse {
	responses := make([]FormResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, NewFormResponse(form))
	}

	return responses
}
