package model

import (
	"time"

	"github.com/google/uuid"
)

type GoalComment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	GoalID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Goal Goal `gorm:"foreignKey:GoalID"`
	User User `gorm:"foreignKey:UserID"`
}
