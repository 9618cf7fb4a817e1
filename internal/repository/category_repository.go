package repository

import (
	"context"
	"errors"

	"goaltracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.GoalCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetVisible returns live categories on boards where the user participates,
// optionally restricted to one board, ordered by title.
func (r *CategoryRepository) GetVisible(ctx context.Context, userID uuid.UUID, boardID *uuid.UUID) ([]model.GoalCategory, error) {
	query := r.db.WithContext(ctx).
		Scopes(categoryMemberOf(userID), categoryLive())
	if boardID != nil {
		query = query.Where("goal_categories.board_id = ?", *boardID)
	}

	var categories []model.GoalCategory
	err := query.Order("goal_categories.title").Find(&categories).Error
	return categories, err
}

// GetByIDVisible retrieves a category through the visibility filter.
// Returns nil, nil for absent, deleted, or not-a-participant alike.
func (r *CategoryRepository) GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.GoalCategory, error) {
	var category model.GoalCategory
	err := r.db.WithContext(ctx).
		Scopes(categoryMemberOf(userID), categoryLive()).
		Where("goal_categories.id = ?", id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetByIDMember retrieves a category for a participant without the
// liveness filter, so the delete path stays idempotent.
func (r *CategoryRepository) GetByIDMember(ctx context.Context, id, userID uuid.UUID) (*model.GoalCategory, error) {
	var category model.GoalCategory
	err := r.db.WithContext(ctx).
		Scopes(categoryMemberOf(userID)).
		Where("goal_categories.id = ?", id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *model.GoalCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// SoftDelete marks the category deleted and archives all its goals in one
// transaction. Idempotent: deleting an already deleted category succeeds.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GoalCategory{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Goal{}).
			Where("category_id = ?", id).
			Update("status", model.StatusArchived).Error
	})
}
