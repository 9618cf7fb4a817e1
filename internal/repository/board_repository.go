package repository

import (
	"context"
	"errors"

	"goaltracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts the board and its creator as an owner participant in one
// transaction, so a board can never exist without at least one owner.
func (r *BoardRepository) Create(ctx context.Context, board *model.Board, creatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		participant := model.BoardParticipant{
			BoardID: board.ID,
			UserID:  creatorID,
			Role:    model.RoleOwner,
		}
		return tx.Create(&participant).Error
	})
}

// GetVisible возвращает доски, видимые пользователю: он участник, доска не удалена
func (r *BoardRepository) GetVisible(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Scopes(boardMemberOf(userID), boardLive()).
		Order("boards.title").
		Find(&boards).Error
	return boards, err
}

// GetByIDVisible retrieves a board by id through the visibility filter.
// Returns nil, nil when the board is absent, deleted, or the user is not a
// participant; callers cannot tell these apart.
func (r *BoardRepository) GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Scopes(boardMemberOf(userID), boardLive()).
		Where("boards.id = ?", id).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// GetByIDMember retrieves a board by id for a participant without the
// liveness filter. The delete path uses it so that deleting an already
// deleted board stays an idempotent success instead of turning into a 404.
func (r *BoardRepository) GetByIDMember(ctx context.Context, id, userID uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Scopes(boardMemberOf(userID)).
		Where("boards.id = ?", id).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// SoftDelete marks the board deleted and cascades: its categories get
// is_deleted=true and every goal under them is archived. The three writes
// run in one transaction; a failure anywhere rolls back all of them.
// Re-deleting an already deleted board is a successful no-op.
func (r *BoardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Board{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.GoalCategory{}).
			Where("board_id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Goal{}).
			Where("category_id IN (SELECT id FROM goal_categories WHERE board_id = ?)", id).
			Update("status", model.StatusArchived).Error
	})
}
