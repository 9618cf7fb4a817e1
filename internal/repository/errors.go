package repository

import "errors"

// Common repository errors
var (
	// ErrGoalNotFound is returned when a goal update targets a missing row
	ErrGoalNotFound = errors.New("goal not found")

	// ErrCommentNotFound is returned when a comment update or delete targets a missing row
	ErrCommentNotFound = errors.New("comment not found")

	// ErrOwnerRemoval is returned when removing an owner participant is attempted
	ErrOwnerRemoval = errors.New("cannot remove a board owner")
)
