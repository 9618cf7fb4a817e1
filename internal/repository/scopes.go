package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goaltracker/internal/model"
)

// Visibility scopes. Every list and get-by-id in the repositories composes
// these in the same order: membership first, then liveness, then domain
// filters, then ordering. A row filtered out here is indistinguishable from
// an absent row for the caller, so non-participants get a plain not-found.

// boardMemberOf ограничивает выборку досок теми, где userID — участник
func boardMemberOf(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN board_participants ON board_participants.board_id = boards.id").
			Where("board_participants.user_id = ?", userID)
	}
}

func boardLive() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("boards.is_deleted = ?", false)
	}
}

// categoryMemberOf joins a category row up to its board and restricts to
// boards where userID is a participant.
func categoryMemberOf(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN boards ON boards.id = goal_categories.board_id").
			Joins("JOIN board_participants ON board_participants.board_id = boards.id").
			Where("board_participants.user_id = ?", userID)
	}
}

// categoryLive excludes soft-deleted categories and categories on
// soft-deleted boards.
func categoryLive() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("goal_categories.is_deleted = ? AND boards.is_deleted = ?", false, false)
	}
}

// goalMemberOf joins a goal up through its category to its board and
// restricts to boards where userID is a participant.
func goalMemberOf(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN goal_categories ON goal_categories.id = goals.category_id").
			Joins("JOIN boards ON boards.id = goal_categories.board_id").
			Joins("JOIN board_participants ON board_participants.board_id = boards.id").
			Where("board_participants.user_id = ?", userID)
	}
}

// goalLive excludes goals whose category or board is soft-deleted. Archived
// goals are a separate concern: see goalNotArchived.
func goalLive() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("goal_categories.is_deleted = ? AND boards.is_deleted = ?", false, false)
	}
}

// goalNotArchived excludes archived goals. Listings apply it; retrieval by
// id does not, so archived goals stay reachable for history.
func goalNotArchived() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("goals.status <> ?", model.StatusArchived)
	}
}

// commentMemberOf joins a comment up through goal and category to its board
// and restricts to boards where userID is a participant.
func commentMemberOf(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN goals ON goals.id = goal_comments.goal_id").
			Joins("JOIN goal_categories ON goal_categories.id = goals.category_id").
			Joins("JOIN boards ON boards.id = goal_categories.board_id").
			Joins("JOIN board_participants ON board_participants.board_id = boards.id").
			Where("board_participants.user_id = ?", userID)
	}
}

// commentLive excludes comments under archived goals and under deleted
// categories or boards.
func commentLive() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("goals.status <> ?", model.StatusArchived).
			Where("goal_categories.is_deleted = ? AND boards.is_deleted = ?", false, false)
	}
}

// GoalFilter carries the optional domain filters for goal listings. Zero
// values mean "no restriction".
type GoalFilter struct {
	CategoryIDs []uuid.UUID
	Priorities  []int
	DueFrom     *time.Time
	DueTo       *time.Time
}

func goalDomainFilter(f GoalFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(f.CategoryIDs) > 0 {
			db = db.Where("goals.category_id IN ?", f.CategoryIDs)
		}
		if len(f.Priorities) > 0 {
			db = db.Where("goals.priority IN ?", f.Priorities)
		}
		if f.DueFrom != nil {
			db = db.Where("goals.due_date >= ?", *f.DueFrom)
		}
		if f.DueTo != nil {
			db = db.Where("goals.due_date <= ?", *f.DueTo)
		}
		return db
	}
}
