package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goaltracker/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.GoalComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetVisible returns comments on goals the user may see, newest first.
// Comments under archived goals or deleted categories/boards drop out.
func (r *CommentRepository) GetVisible(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID) ([]model.GoalComment, error) {
	query := r.db.WithContext(ctx).
		Scopes(commentMemberOf(userID), commentLive())
	if goalID != nil {
		query = query.Where("goal_comments.goal_id = ?", *goalID)
	}

	var comments []model.GoalComment
	err := query.Order("goal_comments.created_at DESC").Find(&comments).Error
	return comments, err
}

// GetByIDVisible retrieves a comment through the visibility filter.
func (r *CommentRepository) GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.GoalComment, error) {
	var comment model.GoalComment
	err := r.db.WithContext(ctx).
		Scopes(commentMemberOf(userID), commentLive()).
		Where("goal_comments.id = ?", id).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *model.GoalComment) error {
	result := r.db.WithContext(ctx).Save(comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment row. Comments have no soft-delete flag; this is
// the only hard delete in the system.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.GoalComment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
