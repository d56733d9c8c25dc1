package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/repository"
	"github.com/peereval/peereval-api/internal/scoring"
)

// Form management failure modes.
var (
	ErrFormNotFound      = errors.New("evaluation form not found")
	ErrCriterionNotFound = errors.New("criterion not found or does not belong to this form")
	ErrFormInUse         = errors.New("form is referenced by existing evaluations")
	ErrCriterionInUse    = errors.New("criterion is referenced by existing evaluation scores")
)

// FormService manages evaluation forms and their criteria.
type FormService interface {
	List(ctx context.Context, filter repository.FormFilter) ([]dto.FormResponse, error)
	Get(ctx context.Context, id uint) (dto.FormResponse, error)
	Create(ctx context.Context, payload dto.FormCreateRequest) (dto.FormResponse, error)
	Update(ctx context.Context, id uint, payload dto.FormUpdateRequest) (dto.FormResponse, error)
	Delete(ctx context.Context, id uint) error
	AddCriterion(ctx context.Context, formID uint, payload dto.FormCriterionRequest) (dto.CriterionResponse, error)
	UpdateCriterion(ctx context.Context, formID, criterionID uint, payload dto.CriterionUpdateRequest) (dto.CriterionResponse, error)
	DeleteCriterion(ctx context.Context, formID, criterionID uint) error
}

type formService struct {
	forms       repository.FormRepository
	projects    repository.ProjectRepository
	evaluations repository.EvaluationRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewFormService constructs a FormService instance.
func NewFormService(forms repository.FormRepository, projects repository.ProjectRepository, evaluations repository.EvaluationRepository, validate *validator.Validate, logger zerolog.Logger) FormService {
	return &formService{
		forms:       forms,
		projects:    projects,
		evaluations: evaluations,
		validator:   validate,
		logger:      logger.With().Str("component", "form_service").Logger(),
	}
}

func (s *formService) List(ctx context.Context, filter repository.FormFilter) ([]dto.FormResponse, error) {
	forms, err := s.forms.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewFormResponseSlice(forms), nil
}

func (s *formService) Get(ctx context.Context, id uint) (dto.FormResponse, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormResponse{}, ErrFormNotFound
		}
		return dto.FormResponse{}, err
	}

	response := dto.NewFormResponse(form)

	usage, err := s.evaluations.CountByForm(ctx, id)
	if err != nil {
		return dto.FormResponse{}, err
	}
	response.UsageCount = usage

	return response, nil
}

func (s *formService) Create(ctx context.Context, payload dto.FormCreateRequest) (dto.FormResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FormResponse{}, err
	}

	if _, err := s.projects.GetByID(ctx, payload.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormResponse{}, ErrProjectNotFound
		}
		return dto.FormResponse{}, err
	}

	// Order is assigned from request position, not trusted from the client.
	criteria := make([]models.FormCriterion, 0, len(payload.Criteria))
	for i, criterion := range payload.Criteria {
		criteria = append(criteria, models.FormCriterion{
			Text:        criterion.Text,
			Description: criterion.Description,
			MaxPoints:   criterion.MaxPoints,
			OrderIndex:  i,
		})
	}

	if err := scoring.ValidateCriteriaSum(criteria, payload.MaxScore); err != nil {
		return dto.FormResponse{}, err
	}

	form := models.EvaluationForm{
		ProjectID:   payload.ProjectID,
		Title:       payload.Title,
		Description: payload.Description,
		MaxScore:    payload.MaxScore,
		Criteria:    criteria,
	}

	if err := s.forms.Create(ctx, &form); err != nil {
		return dto.FormResponse{}, err
	}

	created, err := s.forms.GetByID(ctx, form.ID)
	if err != nil {
		return dto.FormResponse{}, err
	}

	s.logger.Info().Uint("form_id", created.ID).Int("criteria", len(created.Criteria)).Msg("evaluation form created")

	return dto.NewFormResponse(created), nil
}

func (s *formService) Update(ctx context.Context, id uint, payload dto.FormUpdateRequest) (dto.FormResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FormResponse{}, err
	}

	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormResponse{}, ErrFormNotFound
		}
		return dto.FormResponse{}, err
	}

	if payload.Title != nil {
		form.Title = *payload.Title
	}
	if payload.Description != nil {
		form.Description = *payload.Description
	}
	if payload.MaxScore != nil {
		// A new maximum must still match what the criteria add up to.
		if err := scoring.ValidateCriteriaSum(form.Criteria, *payload.MaxScore); err != nil {
			return dto.FormResponse{}, err
		}
		form.MaxScore = *payload.MaxScore
	}

	if err := s.forms.Update(ctx, &form); err != nil {
		return dto.FormResponse{}, err
	}

	s.logger.Info().Uint("form_id", form.ID).Msg("evaluation form updated")

	return dto.NewFormResponse(form), nil
}

func (s *formService) Delete(ctx context.Context, id uint) error {
	if _, err := s.forms.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFormNotFound
		}
		return err
	}

	usage, err := s.evaluations.CountByForm(ctx, id)
	if err != nil {
		return err
	}
	if usage > 0 {
		return ErrFormInUse
	}

	if err := s.forms.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("form_id", id).Msg("evaluation form deleted")

	return nil
}

func (s *formService) AddCriterion(ctx context.Context, formID uint, payload dto.FormCriterionRequest) (dto.CriterionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CriterionResponse{}, err
	}

	if _, err := s.forms.GetByID(ctx, formID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CriterionResponse{}, ErrFormNotFound
		}
		return dto.CriterionResponse{}, err
	}

	count, err := s.forms.CountCriteria(ctx, formID)
	if err != nil {
		return dto.CriterionResponse{}, err
	}

	criterion := models.FormCriterion{
		FormID:      formID,
		Text:        payload.Text,
		Description: payload.Description,
		MaxPoints:   payload.MaxPoints,
		OrderIndex:  int(count),
	}

	if err := s.forms.CreateCriterion(ctx, &criterion); err != nil {
		return dto.CriterionResponse{}, err
	}

	s.logger.Info().Uint("form_id", formID).Uint("criterion_id", criterion.ID).Msg("criterion added")

	return dto.NewCriterionResponse(criterion), nil
}

func (s *formService) UpdateCriterion(ctx context.Context, formID, criterionID uint, payload dto.CriterionUpdateRequest) (dto.CriterionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CriterionResponse{}, err
	}

	criterion, err := s.forms.GetCriterion(ctx, formID, criterionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CriterionResponse{}, ErrCriterionNotFound
		}
		return dto.CriterionResponse{}, err
	}

	if payload.Text != nil {
		criterion.Text = *payload.Text
	}
	if payload.Description != nil {
		criterion.Description = *payload.Description
	}
	if payload.MaxPoints != nil {
		criterion.MaxPoints = *payload.MaxPoints
	}
	if payload.OrderIndex != nil {
		criterion.OrderIndex = *payload.OrderIndex
	}

	if err := s.forms.UpdateCriterion(ctx, &criterion); err != nil {
		return dto.CriterionResponse{}, err
	}

	s.logger.Info().Uint("criterion_id", criterion.ID).Msg("criterion updated")

	return dto.NewCriterionResponse(criterion), nil
}

func (s *formService) DeleteCriterion(ctx context.Context, formID, criterionID uint) error {
	if _, err := s.forms.GetCriterion(ctx, formID, criterionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCriterionNotFound
		}
		return err
	}

	usage, err := s.evaluations.CountScoresByCriterion(ctx, criterionID)
	if err != nil {
		return err
	}
	if usage > 0 {
		return ErrCriterionInUse
	}

	if err := s.forms.DeleteCriterion(ctx, criterionID); err != nil {
		return err
	}

	s.logger.Info().Uint("criterion_id", criterionID).Msg("criterion deleted")

	return nil
}
