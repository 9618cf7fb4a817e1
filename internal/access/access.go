// Package access decides whether a user may perform an operation on an
// entity, given the user's role on the entity's board. It only answers
// allow/deny for users that can already see the entity: invisibility is
// handled earlier, by the repository visibility scopes, so a non-participant
// never reaches these checks and never learns the entity exists.
package access

import (
	"context"

	"github.com/google/uuid"

	"goaltracker/internal/model"
)

// Action is the operation class being checked. Read covers list and
// retrieve; Write covers create, update and delete.
type Action int

const (
	ActRead Action = iota
	ActWrite
)

// ParticipantRoles supplies the user's role on a board, or an empty string
// when the user is not a participant.
type ParticipantRoles interface {
	GetRole(ctx context.Context, boardID, userID uuid.UUID) (string, error)
}

type Checker struct {
	roles ParticipantRoles
}

func NewChecker(roles ParticipantRoles) *Checker {
	return &Checker{roles: roles}
}

// Allow reports whether the user may perform act on the given board. Read
// is open to any participant; write requires one of the allowed roles.
// The allowed set is explicit per call site: category and goal writes pass
// model.WriteRoles, board deletion and participant management pass
// model.RoleOwner alone.
func (c *Checker) Allow(ctx context.Context, userID, boardID uuid.UUID, act Action, allowed ...string) (bool, error) {
	role, err := c.roles.GetRole(ctx, boardID, userID)
	if err != nil {
		return false, err
	}
	if role == "" {
		return false, nil
	}
	if act == ActRead {
		return true, nil
	}
	for _, a := range allowed {
		if role == a {
			return true, nil
		}
	}
	return false, nil
}

// IsOwner reports whether the user holds the owner role on the board.
func (c *Checker) IsOwner(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	role, err := c.roles.GetRole(ctx, boardID, userID)
	if err != nil {
		return false, err
	}
	return role == model.RoleOwner, nil
}

// AuthorOrReadOnly allows reads unconditionally and writes only by the
// entity's author. It is deliberately separate from Checker.Allow: category
// and goal writes must pass both checks, comment writes pass either one.
func AuthorOrReadOnly(act Action, authorID, userID uuid.UUID) bool {
	if act == ActRead {
		return true
	}
	return authorID == userID
}
