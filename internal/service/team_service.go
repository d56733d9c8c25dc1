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
)

// Team management failure modes.
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrAlreadyMember    = errors.New("user is already a member of this team")
	ErrMembershipAbsent = errors.New("user is not a member of this team")
)

// TeamService manages teams and their memberships.
type TeamService interface {
	List(ctx context.Context, filter repository.TeamFilter) ([]dto.TeamResponse, error)
	Get(ctx context.Context, id uint) (dto.TeamResponse, error)
	Create(ctx context.Context, payload dto.TeamCreateRequest) (dto.TeamResponse, error)
	Update(ctx context.Context, id uint, payload dto.TeamUpdateRequest) (dto.TeamResponse, error)
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, teamID uint, payload dto.TeamMemberAddRequest) (dto.TeamResponse, error)
	RemoveMember(ctx context.Context, teamID, userID uint) (dto.TeamResponse, error)
}

type teamService struct {
	teams     repository.TeamRepository
	projects  repository.ProjectRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(teams repository.TeamRepository, projects repository.ProjectRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) TeamService {
	return &teamService{
		teams:     teams,
		projects:  projects,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "team_service").Logger(),
	}
}

func (s *teamService) List(ctx context.Context, filter repository.TeamFilter) ([]dto.TeamResponse, error) {
	teams, err := s.teams.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewTeamResponseSlice(teams), nil
}

func (s *teamService) Get(ctx context.Context, id uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	return dto.NewTeamResponse(team), nil
}

func (s *teamService) Create(ctx context.Context, payload dto.TeamCreateRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	if _, err := s.projects.GetByID(ctx, payload.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrProjectNotFound
		}
		return dto.TeamResponse{}, err
	}

	members := make([]models.User, 0, len(payload.MemberIDs))
	for _, memberID := range payload.MemberIDs {
		user, err := s.users.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TeamResponse{}, ErrUserNotFound
			}
			return dto.TeamResponse{}, err
		}
		members = append(members, user)
	}

	team := models.Team{
		ProjectID: payload.ProjectID,
		Name:      payload.Name,
		Members:   members,
	}

	if err := s.teams.Create(ctx, &team); err != nil {
		return dto.TeamResponse{}, err
	}

	created, err := s.teams.GetByID(ctx, team.ID)
	if err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", created.ID).Int("members", len(created.Members)).Msg("team created")

	return dto.NewTeamResponse(created), nil
}

func (s *teamService) Update(ctx context.Context, id uint, payload dto.TeamUpdateRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	if payload.Name != nil {
		team.Name = *payload.Name
	}

	if err := s.teams.Update(ctx, &team); err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", team.ID).Msg("team updated")

	return dto.NewTeamResponse(team), nil
}

func (s *teamService) Delete(ctx context.Context, id uint) error {
	if _, err := s.teams.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if err := s.teams.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("team_id", id).Msg("team deleted")

	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID uint, payload dto.TeamMemberAddRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	if team.HasMember(payload.UserID) {
		return dto.TeamResponse{}, ErrAlreadyMember
	}

	user, err := s.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrUserNotFound
		}
		return dto.TeamResponse{}, err
	}

	if err := s.teams.AddMember(ctx, &team, user); err != nil {
		return dto.TeamResponse{}, err
	}

	updated, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", teamID).Uint("user_id", user.ID).Msg("team member added")

	return dto.NewTeamResponse(updated), nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	if !team.HasMember(userID) {
		return dto.TeamResponse{}, ErrMembershipAbsent
	}

	if err := s.teams.RemoveMember(ctx, &team, models.User{ID: userID}); err != nil {
		return dto.TeamResponse{}, err
	}

	updated, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", teamID).Uint("user_id", userID).Msg("team member removed")

	return dto.NewTeamResponse(updated), nil
}
