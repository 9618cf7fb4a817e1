package model

import (
	"github.com/google/uuid"
)

// BoardParticipant связывает пользователя с доской и задаёт его роль на ней
type BoardParticipant struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_board_participants_board_user"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_board_participants_board_user"`
	Role    string    `gorm:"not null;check:role IN ('owner', 'writer', 'reader')"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

// Роли участников доски
const (
	RoleOwner  = "owner"  // полный доступ, включая удаление доски и управление участниками
	RoleWriter = "writer" // может создавать и изменять категории и цели
	RoleReader = "reader" // может только просматривать
)

// WriteRoles are the roles admitted for create/update operations on
// categories and goals. Board deletion and participant management are
// stricter and require RoleOwner exactly.
var WriteRoles = []string{RoleOwner, RoleWriter}
