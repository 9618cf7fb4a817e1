package handler

import (
	"net/http"
	"time"

	"goaltracker/internal/access"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	categoryRepo *repository.CategoryRepository
	boardRepo    *repository.BoardRepository
	checker      *access.Checker
}

func NewCategoryHandler(
	categoryRepo *repository.CategoryRepository,
	boardRepo *repository.BoardRepository,
	checker *access.Checker,
) *CategoryHandler {
	return &CategoryHandler{
		categoryRepo: categoryRepo,
		boardRepo:    boardRepo,
		checker:      checker,
	}
}

type CreateCategoryRequest struct {
	BoardID string `json:"board" binding:"required,uuid"`
	Title   string `json:"title" binding:"required"`
}

type UpdateCategoryRequest struct {
	Title string `json:"title" binding:"required"`
}

type CategoryResponse struct {
	ID        string `json:"id"`
	BoardID   string `json:"board"`
	UserID    string `json:"user"`
	Title     string `json:"title"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created"`
	UpdatedAt string `json:"updated"`
}

func categoryResponse(category *model.GoalCategory) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		BoardID:   category.BoardID.String(),
		UserID:    category.UserID.String(),
		Title:     category.Title,
		IsDeleted: category.IsDeleted,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}

// Create creates a category on a board. Requires a writer or owner role on
// the board; the acting user becomes the category's author.
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	boardID := uuid.MustParse(req.BoardID)

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
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create categories on this board"})
		return
	}

	category := &model.GoalCategory{
		BoardID: board.ID,
		UserID:  userID,
		Title:   req.Title,
	}
	if err := h.categoryRepo.Create(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, categoryResponse(category))
}

// GetAll lists visible categories, optionally narrowed to one board.
func (h *CategoryHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var boardID *uuid.UUID
	if raw := c.Query("board"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board filter"})
			return
		}
		boardID = &id
	}

	categories, err := h.categoryRepo.GetVisible(c.Request.Context(), userID, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = categoryResponse(&categories[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryRepo.GetByIDVisible(c.Request.Context(), categoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, categoryResponse(category))
}

// Update renames a category. Needs a write role on the board AND
// authorship of the category; the two checks stay separate on purpose.
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryRepo.GetByIDVisible(c.Request.Context(), categoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	allowed, err := h.checker.Allow(c.Request.Context(), userID, category.BoardID, access.ActWrite, model.WriteRoles...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed || !access.AuthorOrReadOnly(access.ActWrite, category.UserID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this category"})
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	category.Title = req.Title
	if err := h.categoryRepo.Update(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, categoryResponse(category))
}

// Delete soft-deletes the category and archives its goals in one
// transaction. Same permission as Update; idempotent.
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryRepo.GetByIDMember(c.Request.Context(), categoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	allowed, err := h.checker.Allow(c.Request.Context(), userID, category.BoardID, access.ActWrite, model.WriteRoles...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed || !access.AuthorOrReadOnly(access.ActWrite, category.UserID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this category"})
		return
	}

	if err := h.categoryRepo.SoftDelete(c.Request.Context(), category.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category, retry the request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
