package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"goaltracker/internal/access"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommentStore is the slice of CommentRepository the handler uses.
type CommentStore interface {
	Create(ctx context.Context, comment *model.GoalComment) error
	GetVisible(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID) ([]model.GoalComment, error)
	GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.GoalComment, error)
	Update(ctx context.Context, comment *model.GoalComment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentGoalStore resolves the goal a comment targets.
type CommentGoalStore interface {
	GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.Goal, error)
}

// CommentCategoryStore resolves a goal's category to find its board.
type CommentCategoryStore interface {
	GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.GoalCategory, error)
}

type CommentHandler struct {
	commentRepo  CommentStore
	goalRepo     CommentGoalStore
	categoryRepo CommentCategoryStore
	checker      *access.Checker
}

func NewCommentHandler(
	commentRepo CommentStore,
	goalRepo CommentGoalStore,
	categoryRepo CommentCategoryStore,
	checker *access.Checker,
) *CommentHandler {
	return &CommentHandler{
		commentRepo:  commentRepo,
		goalRepo:     goalRepo,
		categoryRepo: categoryRepo,
		checker:      checker,
	}
}

type CreateCommentRequest struct {
	GoalID string `json:"goal" binding:"required,uuid"`
	Text   string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	GoalID    string `json:"goal"`
	UserID    string `json:"user"`
	Text      string `json:"text"`
	CreatedAt string `json:"created"`
	UpdatedAt string `json:"updated"`
}

func commentResponse(comment *model.GoalComment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID.String(),
		GoalID:    comment.GoalID.String(),
		UserID:    comment.UserID.String(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
	}
}

// Create adds a comment to a goal the user can see. Needs a write role on
// the board; commenting on an archived goal is an invariant violation.
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	goal, err := h.goalRepo.GetByIDVisible(c.Request.Context(), uuid.MustParse(req.GoalID), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		return
	}
	if goal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if goal.Status == model.StatusArchived {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot comment on an archived goal"})
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
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to comment on this board"})
		return
	}

	comment := &model.GoalComment{
		GoalID: goal.ID,
		UserID: userID,
		Text:   req.Text,
	}
	if err := h.commentRepo.Create(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, commentResponse(comment))
}

// GetAll lists visible comments, newest first, optionally for one goal.
func (h *CommentHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var goalID *uuid.UUID
	if raw := c.Query("goal"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal filter"})
			return
		}
		goalID = &id
	}

	comments, err := h.commentRepo.GetVisible(c.Request.Context(), userID, goalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = commentResponse(&comments[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *CommentHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetByIDVisible(c.Request.Context(), commentID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, commentResponse(comment))
}

// Update edits a comment. Allowed for write roles on the board OR the
// comment's author: a reader may still edit their own comment.
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetByIDVisible(c.Request.Context(), commentID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	allowed, err := h.allowWrite(c, userID, comment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this comment"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment.Text = req.Text
	if err := h.commentRepo.Update(c.Request.Context(), comment); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, commentResponse(comment))
}

// Delete removes a comment, hard. Same permission as Update.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetByIDVisible(c.Request.Context(), commentID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	allowed, err := h.allowWrite(c, userID, comment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this comment"})
		return
	}

	if err := h.commentRepo.Delete(c.Request.Context(), comment.ID); err != nil {
		// Комментарий мог быть удален параллельным запросом
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// allowWrite combines the board role check with the author override: a
// write role is enough, and so is authorship alone.
func (h *CommentHandler) allowWrite(c *gin.Context, userID uuid.UUID, comment *model.GoalComment) (bool, error) {
	if access.AuthorOrReadOnly(access.ActWrite, comment.UserID, userID) {
		return true, nil
	}

	goal, err := h.goalRepo.GetByIDVisible(c.Request.Context(), comment.GoalID, userID)
	if err != nil || goal == nil {
		return false, err
	}
	category, err := h.categoryRepo.GetByIDVisible(c.Request.Context(), goal.CategoryID, userID)
	if err != nil || category == nil {
		return false, err
	}
	return h.checker.Allow(c.Request.Context(), userID, category.BoardID, access.ActWrite, model.WriteRoles...)
}
