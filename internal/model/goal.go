package model

import (
	"time"

	"github.com/google/uuid"
)

// Статусы цели. StatusArchived — терминальное состояние: так помечаются
// цели при каскадном удалении доски или категории, но пользователь может
// перевести цель в архив и сам.
const (
	StatusToDo       = 1
	StatusInProgress = 2
	StatusDone       = 3
	StatusArchived   = 4
)

// Приоритеты цели
const (
	PriorityLow      = 1
	PriorityMedium   = 2
	PriorityHigh     = 3
	PriorityCritical = 4
)

type Goal struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null"`
	Title       string    `gorm:"not null"`
	Description string
	Status      int `gorm:"not null;check:status IN (1, 2, 3, 4)"`
	Priority    int `gorm:"not null;check:priority IN (1, 2, 3, 4)"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category GoalCategory `gorm:"foreignKey:CategoryID"`
	User     User         `gorm:"foreignKey:UserID"`
}

// ValidStatus reports whether s is one of the defined status codes.
func ValidStatus(s int) bool {
	return s >= StatusToDo && s <= StatusArchived
}

// ValidPriority reports whether p is one of the defined priority codes.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityCritical
}
