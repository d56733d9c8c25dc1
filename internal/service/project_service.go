package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/repository"
)

// ErrProjectNotFound indicates a project could not be found.
var ErrProjectNotFound = errors.New("project not found")

// ErrInvalidDate indicates a date field could not be parsed.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ProjectService manages course projects.
type ProjectService interface {
	List(ctx context.Context, filter repository.ProjectFilter) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, id uint) (dto.ProjectResponse, error)
	Create(ctx context.Context, instructorID uint, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, id uint) error
}

type projectService struct {
	projects  repository.ProjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(projects repository.ProjectRepository, validate *validator.Validate, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		validator: validate,
		logger:    logger.With().Str("component", "project_service").Logger(),
	}
}

func (s *projectService) List(ctx context.Context, filter repository.ProjectFilter) ([]dto.ProjectResponse, error) {
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewProjectResponseSlice(projects), nil
}

func (s *projectService) Get(ctx context.Context, id uint) (dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Create(ctx context.Context, instructorID uint, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	startDate, err := parseOptionalDate(payload.StartDate)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	endDate, err := parseOptionalDate(payload.EndDate)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	project := models.Project{
		Title:        payload.Title,
		Description:  payload.Description,
		InstructorID: instructorID,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       status,
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	created, err := s.projects.GetByID(ctx, project.ID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", created.ID).Msg("project created")

	return dto.NewProjectResponse(created), nil
}

func (s *projectService) Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	if payload.Title != nil {
		project.Title = *payload.Title
	}
	if payload.Description != nil {
		project.Description = *payload.Description
	}
	if payload.StartDate != nil {
		startDate, err := parseOptionalDate(*payload.StartDate)
		if err != nil {
			return dto.ProjectResponse{}, err
		}
		project.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := parseOptionalDate(*payload.EndDate)
		if err != nil {
			return dto.ProjectResponse{}, err
		}
		project.EndDate = endDate
	}
	if payload.Status != nil {
		project.Status = *payload.Status
	}

	if err := s.projects.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", project.ID).Msg("project updated")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("project_id", id).Msg("project deleted")

	return nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
