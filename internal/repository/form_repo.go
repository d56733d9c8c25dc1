package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/models"
)

// FormFilter allows narrowing form queries.
type FormFilter struct {
	ProjectID *uint
}

// FormRepository defines data operations for evaluation forms and criteria.
type FormRepository interface {
	List(ctx context.Context, filter FormFilter) ([]models.EvaluationForm, error)
	GetByID(ctx context.Context, id uint) (models.EvaluationForm, error)
	Create(ctx context.Context, form *models.EvaluationForm) error
	Update(ctx context.Context, form *models.EvaluationForm) error
	Delete(ctx context.Context, id uint) error
	GetCriterion(ctx context.Context, formID, criterionID uint) (models.FormCriterion, error)
	CreateCriterion(ctx context.Context, criterion *models.FormCriterion) error
	UpdateCriterion(ctx context.Context, criterion *models.FormCriterion) error
	DeleteCriterion(ctx context.Context, id uint) error
	CountCriteria(ctx context.Context, formID uint) (int64, error)
}

type formRepository struct {
	db *gorm.DB
}

// NewFormRepository instantiates the repository.
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.EvaluationForm{}).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") })
}

func (r *formRepository) List(ctx context.Context, filter FormFilter) ([]models.EvaluationForm, error) {
	query := r.baseQuery(ctx)

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var forms []models.EvaluationForm
	if err := query.Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepository) GetByID(ctx context.Context, id uint) (models.EvaluationForm, error) {
	var form models.EvaluationForm
	err := r.baseQuery(ctx).First(&form, id).Error
	return form, err
}

func (r *formRepository) Create(ctx context.Context, form *models.EvaluationForm) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *formRepository) Update(ctx context.Context, form *models.EvaluationForm) error {
	return r.db.WithContext(ctx).Omit("Criteria").Save(form).Error
}

func (r *formRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Criteria").Delete(&models.EvaluationForm{ID: id}).Error
}

func (r *formRepository) GetCriterion(ctx context.Context, formID, criterionID uint) (models.FormCriterion, error) {
	var criterion models.FormCriterion
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		First(&criterion, criterionID).Error
	return criterion, err
}

func (r *formRepository) CreateCriterion(ctx context.Context, criterion *models.FormCriterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

func (r *formRepository) UpdateCriterion(ctx context.Context, criterion *models.FormCriterion) error {
	return r.db.WithContext(ctx).Save(criterion).Error
}

func (r *formRepository) DeleteCriterion(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FormCriterion{}, id).Error
}

func (r *formRepository) CountCriteria(ctx context.Context, formID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FormCriterion{}).
		Where("form_id = ?", formID).Count(&count).Error
	return count, err
}
