package model

import (
	"time"

	"github.com/google/uuid"
)

// GoalCategory groups goals inside a board. It is soft-deleted: the
// cascade sets IsDeleted and archives the goals underneath, the row stays.
type GoalCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Title     string    `gorm:"not null"`
	IsDeleted bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}
