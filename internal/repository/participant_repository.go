package repository

import (
	"context"
	"errors"

	"goaltracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Upsert добавляет участника или обновляет его роль. Пара (board, user)
// уникальна: повторное добавление меняет роль, а не создаёт дубль.
func (r *ParticipantRepository) Upsert(ctx context.Context, boardID, userID uuid.UUID, role string) error {
	participant := model.BoardParticipant{
		BoardID: boardID,
		UserID:  userID,
		Role:    role,
	}

	// Транзакция защищает от гонки между проверкой и вставкой
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BoardParticipant
		err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&existing).Error

		if err == nil {
			existing.Role = role
			return tx.Save(&existing).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&participant).Error
	})
}

// Remove deletes a participant row. Owners cannot be removed; a board keeps
// at least the owners it was created with.
func (r *ParticipantRepository) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BoardParticipant
		err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if existing.Role == model.RoleOwner {
			return ErrOwnerRemoval
		}
		return tx.Delete(&existing).Error
	})
}

// GetByBoard возвращает участников доски вместе с данными пользователей
func (r *ParticipantRepository) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]model.BoardParticipant, error) {
	var participants []model.BoardParticipant
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Find(&participants).Error
	return participants, err
}

// GetRole returns the user's role on the board, or an empty string when the
// user is not a participant at all.
func (r *ParticipantRepository) GetRole(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	var participant model.BoardParticipant
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&participant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return participant.Role, nil
}
