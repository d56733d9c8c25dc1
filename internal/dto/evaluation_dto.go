package dto

import (
	"time"

	"github.com/peereval/peereval-api/internal/models"
)

// ScoreEntry is one criterion score within a submission payload.
type ScoreEntry struct {
	CriterionID uint `json:"criterion_id" validate:"required,gt=0"`
	Score       int  `json:"score" validate:"gte=0"`
}

// EvaluationSubmitRequest describes the payload for submitting a peer
// evaluation. The evaluator is taken from the authenticated session, and the
// total score is recomputed server-side regardless of what a client sends.
type EvaluationSubmitRequest struct {
	FormID      uint         `json:"form_id" validate:"required,gt=0"`
	EvaluateeID uint         `json:"evaluatee_id" validate:"required,gt=0"`
	TeamID      uint         `json:"team_id" validate:"required,gt=0"`
	TotalScore  int          `json:"total_score"`
	Scores      []ScoreEntry `json:"scores" validate:"required,min=1,dive"`
	Comments    string       `json:"comments"`
}

// EvaluationUpdateRequest updates an existing evaluation. Replacing scores
// recomputes the stored total.
type EvaluationUpdateRequest struct {
	Comments *string       `json:"comments"`
	Scores   *[]ScoreEntry `json:"scores" validate:"omitempty,min=1,dive"`
}

// EvaluationFilter describes query string filters for listing evaluations.
type EvaluationFilter struct {
	FormID      *uint `query:"form_id"`
	TeamID      *uint `query:"team_id"`
	EvaluatorID *uint `query:"evaluator_id"`
	EvaluateeID *uint `query:"evaluatee_id"`
}

// ScoreResponse serializes one stored criterion score.
type ScoreResponse struct {
	CriterionID uint              `json:"criterion_id"`
	Score       int               `json:"score"`
	Criterion   CriterionResponse `json:"criterion"`
}

// EvaluationResponse is returned to API clients when viewing evaluations.
type EvaluationResponse struct {
	ID          uint            `json:"id"`
	FormID      uint            `json:"form_id"`
	EvaluatorID uint            `json:"evaluator_id"`
	EvaluateeID uint            `json:"evaluatee_id"`
	TeamID      uint            `json:"team_id"`
	TotalScore  int             `json:"total_score"`
	Comments    string          `json:"comments"`
	Scores      []ScoreResponse `json:"scores"`
	Form        FormLite        `json:"form"`
	Evaluator   UserLite        `json:"evaluator"`
	Evaluatee   UserLite        `json:"evaluatee"`
	Team        TeamLite        `json:"team"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	scores := make([]ScoreResponse, 0, len(model.Scores))
	for _, score := range model.Scores {
		entry := ScoreResponse{
			CriterionID: score.CriterionID,
			Score:       score.Score,
		}
		if score.Criterion.ID != 0 {
			entry.Criterion = NewCriterionResponse(score.Criterion)
		}
		scores = append(scores, entry)
	}

	response := EvaluationResponse{
		ID:          model.ID,
		FormID:      model.FormID,
		EvaluatorID: model.EvaluatorID,
		EvaluateeID: model.EvaluateeID,
		TeamID:      model.TeamID,
		TotalScore:  model.TotalScore,
		Comments:    model.Comments,
		Scores:      scores,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Form.ID != 0 {
		response.Form = NewFormLite(model.Form)
	}
	if model.Evaluator.ID != 0 {
		response.Evaluator = NewUserLite(model.Evaluator)
	}
	if model.Evaluatee.ID != 0 {
		response.Evaluatee = NewUserLite(model.Evaluatee)
	}
	if model.Team.ID != 0 {
		response.Team = NewTeamLite(model.Team)
	}

	return response
}

// NewEvaluationResponseSlice converts evaluation models into DTOs.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation))
	}

	return responses
}
