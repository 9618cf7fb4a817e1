package handler

import (
	"net/http"
	"time"

	"goaltracker/internal/access"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardRepo *repository.BoardRepository
	checker   *access.Checker
}

func NewBoardHandler(boardRepo *repository.BoardRepository, checker *access.Checker) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		checker:   checker,
	}
}

type CreateBoardRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateBoardRequest struct {
	Title string `json:"title" binding:"required"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created"`
	UpdatedAt string `json:"updated"`
}

func boardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:        board.ID.String(),
		Title:     board.Title,
		IsDeleted: board.IsDeleted,
		CreatedAt: board.CreatedAt.Format(time.RFC3339),
		UpdatedAt: board.UpdatedAt.Format(time.RFC3339),
	}
}

// Create creates a board; the creator becomes its owner participant in the
// same transaction.
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board := &model.Board{Title: req.Title}
	if err := h.boardRepo.Create(c.Request.Context(), board, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, boardResponse(board))
}

// GetAll returns boards where the user is a participant, in title order.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetVisible(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	// Выборка уже отфильтрована по участию: не участник — значит не найдено
	board, err := h.boardRepo.GetByIDVisible(c.Request.Context(), boardID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
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

	allowed, err := h.checker.Allow(c.Request.Context(), userID, board.ID, access.ActWrite, model.WriteRoles...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this board"})
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board.Title = req.Title
	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Delete soft-deletes the board and cascades to its categories and goals.
// Owner only. Deleting an already deleted board succeeds again with the
// same end state.
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByIDMember(c.Request.Context(), boardID, userID)
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a board owner can delete the board"})
		return
	}

	if err := h.boardRepo.SoftDelete(c.Request.Context(), board.ID); err != nil {
		// Каскад откатился целиком; повторять нужно весь запрос
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board, retry the request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted"})
}
