package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/models"
)

// EvaluationFilter allows narrowing evaluation queries.
type EvaluationFilter struct {
	FormID      *uint
	TeamID      *uint
	EvaluatorID *uint
	EvaluateeID *uint
}

// EvaluationRepository defines data operations for submitted evaluations.
type EvaluationRepository interface {
	List(ctx context.Context, filter EvaluationFilter) ([]models.Evaluation, error)
	GetByID(ctx context.Context, id uint) (models.Evaluation, error)
	Exists(ctx context.Context, formID, evaluatorID, evaluateeID uint) (bool, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, evaluation *models.Evaluation) error
	ReplaceScores(ctx context.Context, evaluationID uint, scores []models.EvaluationScore) error
	Delete(ctx context.Context, id uint) error
	CountByForm(ctx context.Context, formID uint) (int64, error)
	CountScoresByCriterion(ctx context.Context, criterionID uint) (int64, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Preload("Form").
		Preload("Evaluator").
		Preload("Evaluatee").
		Preload("Team").
		Preload("Scores.Criterion")
}

func (r *evaluationRepository) List(ctx context.Context, filter EvaluationFilter) ([]models.Evaluation, error) {
	query := r.baseQuery(ctx)

	if filter.FormID != nil {
		query = query.Where("form_id = ?", *filter.FormID)
	}

	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}

	if filter.EvaluatorID != nil {
		query = query.Where("evaluator_id = ?", *filter.EvaluatorID)
	}

	if filter.EvaluateeID != nil {
		query = query.Where("evaluatee_id = ?", *filter.EvaluateeID)
	}

	var evaluations []models.Evaluation
	if err := query.Order("created_at DESC").Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	err := r.baseQuery(ctx).First(&evaluation, id).Error
	return evaluation, err
}

func (r *evaluationRepository) Exists(ctx context.Context, formID, evaluatorID, evaluateeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("form_id = ? AND evaluator_id = ? AND evaluatee_id = ?", formID, evaluatorID, evaluateeID).
		Count(&count).Error
	return count > 0, err
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Omit("Scores").Save(evaluation).Error
}

func (r *evaluationRepository) ReplaceScores(ctx context.Context, evaluationID uint, scores []models.EvaluationScore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", evaluationID).Delete(&models.EvaluationScore{}).Error; err != nil {
			return err
		}
		for i := range scores {
			scores[i].EvaluationID = evaluationID
		}
		return tx.Create(&scores).Error
	})
}

func (r *evaluationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", id).Delete(&models.EvaluationScore{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Evaluation{}, id).Error
	})
}

func (r *evaluationRepository) CountByForm(ctx context.Context, formID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

func (r *evaluationRepository) CountScoresByCriterion(ctx context.Context, criterionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EvaluationScore{}).
		Where("criterion_id = ?", criterionID).Count(&count).Error
	return count, err
}
