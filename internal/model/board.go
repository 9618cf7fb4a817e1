package model

import (
	"time"

	"github.com/google/uuid"
)

// Board is a shared container for goal categories. Ownership is not a
// column on the board itself: it is expressed through BoardParticipant
// rows, so a board can have several owners.
type Board struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title     string    `gorm:"not null"`
	IsDeleted bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
