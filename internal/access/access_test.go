package access_test

import (
	"context"
	"testing"

	"goaltracker/internal/access"
	"goaltracker/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubRoles returns a fixed role for every lookup; empty means not a
// participant.
type stubRoles struct {
	role string
}

func (s stubRoles) GetRole(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	return s.role, nil
}

func TestChecker_Allow(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		act     access.Action
		allowed []string
		want    bool
	}{
		{"reader can read", model.RoleReader, access.ActRead, nil, true},
		{"writer can read", model.RoleWriter, access.ActRead, nil, true},
		{"owner can read", model.RoleOwner, access.ActRead, nil, true},
		{"non-participant cannot read", "", access.ActRead, nil, false},
		{"reader cannot write", model.RoleReader, access.ActWrite, model.WriteRoles, false},
		{"writer can write", model.RoleWriter, access.ActWrite, model.WriteRoles, true},
		{"owner can write", model.RoleOwner, access.ActWrite, model.WriteRoles, true},
		{"writer is not owner", model.RoleWriter, access.ActWrite, []string{model.RoleOwner}, false},
		{"owner-only write", model.RoleOwner, access.ActWrite, []string{model.RoleOwner}, true},
		{"non-participant cannot write", "", access.ActWrite, model.WriteRoles, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := access.NewChecker(stubRoles{role: tt.role})

			got, err := checker.Allow(context.Background(), uuid.New(), uuid.New(), tt.act, tt.allowed...)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecker_IsOwner(t *testing.T) {
	owner := access.NewChecker(stubRoles{role: model.RoleOwner})
	writer := access.NewChecker(stubRoles{role: model.RoleWriter})
	stranger := access.NewChecker(stubRoles{})

	got, err := owner.IsOwner(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = writer.IsOwner(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.False(t, got)

	got, err = stranger.IsOwner(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestAuthorOrReadOnly(t *testing.T) {
	author := uuid.New()
	other := uuid.New()

	// Чтение разрешено всем, запись — только автору
	assert.True(t, access.AuthorOrReadOnly(access.ActRead, author, other))
	assert.True(t, access.AuthorOrReadOnly(access.ActRead, author, author))
	assert.True(t, access.AuthorOrReadOnly(access.ActWrite, author, author))
	assert.False(t, access.AuthorOrReadOnly(access.ActWrite, author, other))
}
