package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/models"
)

// ProjectFilter allows narrowing project queries.
type ProjectFilter struct {
	InstructorID *uint
	Status       *string
}

// ProjectRepository defines data operations for projects.
type ProjectRepository interface {
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	GetByID(ctx context.Context, id uint) (models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Project{}).Preload("Instructor")
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := r.baseQuery(ctx)

	if filter.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filter.InstructorID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project
	err := r.baseQuery(ctx).First(&project, id).Error
	return project, err
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}
