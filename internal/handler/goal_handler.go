package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"goaltracker/internal/access"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoalStore is the slice of GoalRepository the handler uses.
type GoalStore interface {
	Create(ctx context.Context, goal *model.Goal) error
	GetVisible(ctx context.Context, userID uuid.UUID, filter repository.GoalFilter) ([]model.Goal, error)
	GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Archive(ctx context.Context, id uuid.UUID) error
}

// CategoryStore is the slice of CategoryRepository the goal handler uses to
// validate the target category.
type CategoryStore interface {
	GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.GoalCategory, error)
}

type GoalHandler struct {
	goalRepo     GoalStore
	categoryRepo CategoryStore
	checker      *access.Checker
}

func NewGoalHandler(goalRepo GoalStore, categoryRepo CategoryStore, checker *access.Checker) *GoalHandler {
	return &GoalHandler{
		goalRepo:     goalRepo,
		categoryRepo: categoryRepo,
		checker:      checker,
	}
}

type CreateGoalRequest struct {
	CategoryID  string     `json:"category" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateGoalRequest struct {
	CategoryID  *string    `json:"category" binding:"omitempty,uuid"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *int       `json:"status"`
	Priority    *int       `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type GoalResponse struct {
	ID          string     `json:"id"`
	CategoryID  string     `json:"category"`
	UserID      string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      int        `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   string     `json:"created"`
	UpdatedAt   string     `json:"updated"`
}

func goalResponse(goal *model.Goal) GoalResponse {
	return GoalResponse{
		ID:          goal.ID.String(),
		CategoryID:  goal.CategoryID.String(),
		UserID:      goal.UserID.String(),
		Title:       goal.Title,
		Description: goal.Description,
		Status:      goal.Status,
		Priority:    goal.Priority,
		DueDate:     goal.DueDate,
		CreatedAt:   goal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   goal.UpdatedAt.Format(time.RFC3339),
	}
}

// Create creates a goal under a category. The category must be visible and
// live for the user, and the user needs a write role on its board. A dead
// or foreign category is simply not found; existence is never leaked.
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	priority := req.Priority
	if priority == 0 {
		priority = model.PriorityLow
	}
	if !model.ValidPriority(priority) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid priority"})
		return
	}

	categoryID := uuid.MustParse(req.CategoryID)
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
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create goals on this board"})
		return
	}

	goal := &model.Goal{
		CategoryID:  category.ID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusToDo,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if err := h.goalRepo.Create(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, goalResponse(goal))
}

// GetAll lists visible, non-archived goals with optional filters:
// category (comma separated ids), priority (comma separated codes),
// due_from / due_to (RFC3339 dates).
func (h *GoalHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var filter repository.GoalFilter

	if raw := c.Query("category"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category filter"})
				return
			}
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	if raw := c.Query("priority"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			p, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || !model.ValidPriority(p) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority filter"})
				return
			}
			filter.Priorities = append(filter.Priorities, p)
		}
	}

	if raw := c.Query("due_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_from filter"})
			return
		}
		filter.DueFrom = &t
	}

	if raw := c.Query("due_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_to filter"})
			return
		}
		filter.DueTo = &t
	}

	goals, err := h.goalRepo.GetVisible(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}

	response := make([]GoalResponse, len(goals))
	for i := range goals {
		response[i] = goalResponse(&goals[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID retrieves a goal, archived ones included: id-based retrieval
// serves history and only membership and board/category liveness apply.
func (h *GoalHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	goal, err := h.goalRepo.GetByIDVisible(c.Request.Context(), goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		return
	}
	if goal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	c.JSON(http.StatusOK, goalResponse(goal))
}

// Update modifies a goal. Needs a write role on the board AND authorship of
// the goal. Archived goals are gone from the write path: updating one is a
// not-found, matching their absence from listings.
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	goal, err := h.goalRepo.GetByIDVisible(c.Request.Context(), goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		return
	}
	if goal == nil || goal.Status == model.StatusArchived {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	category, err := h.categoryRepo.GetByIDVisible(c.Request.Context(), goal.CategoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	allowed, err := h.checker.Allow(c.Request.Context(), userID, category.BoardID, access.ActWrite, model.WriteRoles...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed || !access.AuthorOrReadOnly(access.ActWrite, goal.UserID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this goal"})
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.CategoryID != nil {
		newCategory, err := h.categoryRepo.GetByIDVisible(c.Request.Context(), uuid.MustParse(*req.CategoryID), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
			return
		}
		if newCategory == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		// Цель нельзя перенести на другую доску
		if newCategory.BoardID != category.BoardID {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Category belongs to a different board"})
			return
		}
		goal.CategoryID = newCategory.ID
	}
	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Status != nil {
		// Перевод в архив руками — допустимый переход
		if !model.ValidStatus(*req.Status) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status"})
			return
		}
		goal.Status = *req.Status
	}
	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid priority"})
			return
		}
		goal.Priority = *req.Priority
	}
	if req.DueDate != nil {
		goal.DueDate = req.DueDate
	}

	if err := h.goalRepo.Update(c.Request.Context(), goal); err != nil {
		// Строка могла исчезнуть между чтением и записью
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, goalResponse(goal))
}

// Delete archives the goal. The row stays; archiving an already archived
// goal succeeds again. Same permission as Update.
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	goal, err := h.goalRepo.GetByIDVisible(c.Request.Context(), goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		return
	}
	if goal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	category, err := h.categoryRepo.GetByIDVisible(c.Request.Context(), goal.CategoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	allowed, err := h.checker.Allow(c.Request.Context(), userID, category.BoardID, access.ActWrite, model.WriteRoles...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed || !access.AuthorOrReadOnly(access.ActWrite, goal.UserID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this goal"})
		return
	}

	if err := h.goalRepo.Archive(c.Request.Context(), goal.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal archived"})
}
