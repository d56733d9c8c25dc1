package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/repository"
	"github.com/peereval/peereval-api/internal/scoring"
)

// Evaluation submission failure modes.
var (
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrDuplicateEvaluation = errors.New("you have already evaluated this team member for this form")
)

// EvaluationService orchestrates peer evaluation submission and retrieval.
type EvaluationService interface {
	List(ctx context.Context, filter repository.EvaluationFilter) ([]dto.EvaluationResponse, error)
	Get(ctx context.Context, id uint) (dto.EvaluationResponse, error)
	Submit(ctx context.Context, evaluatorID uint, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error)
	Update(ctx context.Context, id uint, payload dto.EvaluationUpdateRequest) (dto.EvaluationResponse, error)
	Delete(ctx context.Context, id uint) error
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	forms       repository.FormRepository
	teams       repository.TeamRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewEvaluationService constructs an EvaluationService instance.
func NewEvaluationService(evaluations repository.EvaluationRepository, forms repository.FormRepository, teams repository.TeamRepository, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		forms:       forms,
		teams:       teams,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		tracer:      otel.Tracer("github.com/peereval/peereval-api/internal/service/evaluation"),
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) List(ctx context.Context, filter repository.EvaluationFilter) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.evaluations.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}

func (s *evaluationService) Get(ctx context.Context, id uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Submit(ctx context.Context, evaluatorID uint, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.submit", trace.WithAttributes(
		attribute.Int64("form.id", int64(payload.FormID)),
		attribute.Int64("evaluator.id", int64(evaluatorID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	form, err := s.forms.GetByID(ctx, payload.FormID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrFormNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	team, err := s.teams.GetByID(ctx, payload.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrTeamNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	exists, err := s.evaluations.Exists(ctx, payload.FormID, evaluatorID, payload.EvaluateeID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	if exists {
		return dto.EvaluationResponse{}, ErrDuplicateEvaluation
	}

	entered := make(map[uint]int, len(payload.Scores))
	for _, entry := range payload.Scores {
		entered[entry.CriterionID] = entry.Score
	}

	evaluation, err := scoring.Assemble(scoring.Assembly{
		Form:        form,
		Team:        team,
		EvaluatorID: evaluatorID,
		EvaluateeID: payload.EvaluateeID,
		Entered:     entered,
		Comments:    s.sanitizer.Sanitize(payload.Comments),
	})
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	if err := s.evaluations.Create(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	created, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	span.SetAttributes(attribute.Int("evaluation.total_score", created.TotalScore))
	s.logger.Info().
		Uint("evaluation_id", created.ID).
		Uint("evaluatee_id", created.EvaluateeID).
		Int("total_score", created.TotalScore).
		Msg("evaluation submitted")

	return dto.NewEvaluationResponse(created), nil
}

func (s *evaluationService) Update(ctx context.Context, id uint, payload dto.EvaluationUpdateRequest) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if payload.Comments != nil {
		evaluation.Comments = s.sanitizer.Sanitize(*payload.Comments)
	}

	if payload.Scores != nil {
		form, err := s.forms.GetByID(ctx, evaluation.FormID)
		if err != nil {
			return dto.EvaluationResponse{}, err
		}

		entered := make(map[uint]int, len(*payload.Scores))
		for _, entry := range *payload.Scores {
			entered[entry.CriterionID] = entry.Score
		}

		scores, total, err := scoring.CollectScores(form.Criteria, entered)
		if err != nil {
			return dto.EvaluationResponse{}, err
		}

		if err := s.evaluations.ReplaceScores(ctx, evaluation.ID, scores); err != nil {
			return dto.EvaluationResponse{}, err
		}
		evaluation.TotalScore = total
	}

	if err := s.evaluations.Update(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	updated, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.logger.Info().Uint("evaluation_id", updated.ID).Msg("evaluation updated")

	return dto.NewEvaluationResponse(updated), nil
}

func (s *evaluationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.evaluations.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		return err
	}

	if err := s.evaluations.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("evaluation_id", id).Msg("evaluation deleted")

	return nil
}
