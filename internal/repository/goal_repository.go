package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goaltracker/internal/model"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create adds a new goal to the database
func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

// GetVisible returns goals the user may see: on boards they participate in,
// under live categories, not archived, with the domain filters applied
// after the visibility scopes, ordered by title.
func (r *GoalRepository) GetVisible(ctx context.Context, userID uuid.UUID, filter GoalFilter) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.db.WithContext(ctx).
		Scopes(goalMemberOf(userID), goalLive(), goalNotArchived(), goalDomainFilter(filter)).
		Order("goals.title").
		Find(&goals).Error
	return goals, err
}

// GetByIDVisible retrieves a goal by id through the visibility filter.
// Archived goals are not excluded here: retrieval by id serves history, so
// only membership and board/category liveness apply.
func (r *GoalRepository) GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.Goal, error) {
	var goal model.Goal
	err := r.db.WithContext(ctx).
		Scopes(goalMemberOf(userID), goalLive()).
		Where("goals.id = ?", id).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goal, nil
}

// Update saves an existing goal
func (r *GoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	result := r.db.WithContext(ctx).Save(goal)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// Archive sets status=archived. Deleting a goal means archiving it: the row
// is never removed, and archiving an archived goal is a no-op.
func (r *GoalRepository) Archive(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("id = ?", id).
		Update("status", model.StatusArchived).Error
}
