package handler

import (
	"errors"
	"net/http"
	"strings"

	"goaltracker/internal/access"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	boardRepo       *repository.BoardRepository
	userRepo        repository.UserRepositoryInterface
	participantRepo *repository.ParticipantRepository
	checker         *access.Checker
}

func NewParticipantHandler(
	boardRepo *repository.BoardRepository,
	userRepo repository.UserRepositoryInterface,
	participantRepo *repository.ParticipantRepository,
	checker *access.Checker,
) *ParticipantHandler {
	return &ParticipantHandler{
		boardRepo:       boardRepo,
		userRepo:        userRepo,
		participantRepo: participantRepo,
		checker:         checker,
	}
}

// UpsertParticipantRequest задаёт участника по email. Роль owner через этот
// эндпоинт не выдаётся: владельцем становятся только при создании доски.
type UpsertParticipantRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=writer reader"`
}

type ParticipantResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// GetAll returns the participants of a board; any participant may look.
func (h *ParticipantHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByIDVisible(c.Request.Context(), boardID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	participants, err := h.participantRepo.GetByBoard(c.Request.Context(), board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve participants"})
		return
	}

	response := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		response[i] = ParticipantResponse{
			UserID: p.UserID.String(),
			Email:  p.User.Email,
			Name:   p.User.Name,
			Role:   p.Role,
		}
	}

	c.JSON(http.StatusOK, response)
}

// Upsert adds a participant or changes their role. Owner only.
func (h *ParticipantHandler) Upsert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByIDVisible(c.Request.Context(), boardID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	isOwner, err := h.checker.IsOwner(c.Request.Context(), userID, board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a board owner can manage participants"})
		return
	}

	var req UpsertParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	targetUser, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find user"})
		return
	}
	if targetUser == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Владелец не может понизить сам себя
	if targetUser.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
		return
	}

	if err := h.participantRepo.Upsert(c.Request.Context(), board.ID, targetUser.ID, req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save participant"})
		return
	}

	c.JSON(http.StatusOK, ParticipantResponse{
		UserID: targetUser.ID.String(),
		Email:  targetUser.Email,
		Name:   targetUser.Name,
		Role:   req.Role,
	})
}

// Remove removes a participant from the board. Owner only; owners
// themselves cannot be removed.
func (h *ParticipantHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	targetUserID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByIDVisible(c.Request.Context(), boardID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	isOwner, err := h.checker.IsOwner(c.Request.Context(), userID, board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a board owner can manage participants"})
		return
	}

	if err := h.participantRepo.Remove(c.Request.Context(), board.ID, targetUserID); err != nil {
		if errors.Is(err, repository.ErrOwnerRemoval) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot remove a board owner"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove participant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant removed"})
}
