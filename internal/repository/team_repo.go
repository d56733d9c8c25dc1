package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/models"
)

// TeamFilter allows narrowing team queries.
type TeamFilter struct {
	ProjectID *uint
}

// TeamRepository defines data operations for teams and their memberships.
type TeamRepository interface {
	List(ctx context.Context, filter TeamFilter) ([]models.Team, error)
	ListByMember(ctx context.Context, userID uint) ([]models.Team, error)
	GetByID(ctx context.Context, id uint) (models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, team *models.Team, user models.User) error
	RemoveMember(ctx context.Context, team *models.Team, user models.User) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Team{}).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") })
}

func (r *teamRepository) List(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	query := r.baseQuery(ctx)

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var teams []models.Team
	if err := query.Order("created_at DESC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) ListByMember(ctx context.Context, userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := r.baseQuery(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at DESC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	err := r.baseQuery(ctx).First(&team, id).Error
	return team, err
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Members").Delete(&models.Team{ID: id}).Error
}

func (r *teamRepository) AddMember(ctx context.Context, team *models.Team, user models.User) error {
	return r.db.WithContext(ctx).Model(team).Association("Members").Append(&user)
}

func (r *teamRepository) RemoveMember(ctx context.Context, team *models.Team, user models.User) error {
	return r.db.WithContext(ctx).Model(team).Association("Members").Delete(&user)
}
