package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goaltracker/internal/access"
	"goaltracker/internal/handler"
	"goaltracker/internal/middleware"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fixedRoles выдает одну и ту же роль для любой доски; пустая строка
// означает, что пользователь не участник.
type fixedRoles struct {
	role string
}

func (f fixedRoles) GetRole(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	return f.role, nil
}

// Мок репозитория целей
type MockGoalStore struct {
	mock.Mock
}

func (m *MockGoalStore) Create(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalStore) GetVisible(ctx context.Context, userID uuid.UUID, filter repository.GoalFilter) ([]model.Goal, error) {
	args := m.Called(ctx, userID, filter)
	goals := args.Get(0)
	if goals == nil {
		return nil, args.Error(1)
	}
	return goals.([]model.Goal), args.Error(1)
}

func (m *MockGoalStore) GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.Goal, error) {
	args := m.Called(ctx, id, userID)
	goal := args.Get(0)
	if goal == nil {
		return nil, args.Error(1)
	}
	return goal.(*model.Goal), args.Error(1)
}

func (m *MockGoalStore) Update(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalStore) Archive(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Мок репозитория категорий
type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) GetByIDVisible(ctx context.Context, id, userID uuid.UUID) (*model.GoalCategory, error) {
	args := m.Called(ctx, id, userID)
	category := args.Get(0)
	if category == nil {
		return nil, args.Error(1)
	}
	return category.(*model.GoalCategory), args.Error(1)
}

// setupGoalTest собирает роутер с подставленным пользователем и его ролью
// на досках.
func setupGoalTest(userID uuid.UUID, role string) (*gin.Engine, *MockGoalStore, *MockCategoryStore) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	mockGoals := new(MockGoalStore)
	mockCategories := new(MockCategoryStore)
	checker := access.NewChecker(fixedRoles{role: role})
	goalHandler := handler.NewGoalHandler(mockGoals, mockCategories, checker)

	// Вместо JWT middleware кладем userID в контекст напрямую
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})

	r.POST("/goals", goalHandler.Create)
	r.GET("/goals/:id", goalHandler.GetByID)
	r.PUT("/goals/:id", goalHandler.Update)
	r.DELETE("/goals/:id", goalHandler.Delete)

	return r, mockGoals, mockCategories
}

func TestGoalGetByID_NotVisibleIsNotFound(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, _ := setupGoalTest(userID, "")

	// Цель с чужой доски не видна — репозиторий возвращает nil
	goalID := uuid.New()
	mockGoals.On("GetByIDVisible", mock.Anything, goalID, userID).Return(nil, nil)

	req, _ := http.NewRequest("GET", "/goals/"+goalID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: не участник получает 404, а не 403
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockGoals.AssertExpectations(t)
}

func TestGoalCreate_WriterSucceeds(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, mockCategories := setupGoalTest(userID, model.RoleWriter)

	category := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(),
		UserID:  uuid.New(),
		Title:   "Health",
	}
	mockCategories.On("GetByIDVisible", mock.Anything, category.ID, userID).Return(category, nil)
	mockGoals.On("Create", mock.Anything, mock.AnythingOfType("*model.Goal")).Return(nil)

	reqBody := handler.CreateGoalRequest{
		CategoryID: category.ID.String(),
		Title:      "Run a marathon",
		Priority:   model.PriorityHigh,
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/goals", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.GoalResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Run a marathon", response.Title)
	assert.Equal(t, model.StatusToDo, response.Status) // Новая цель всегда в статусе "к выполнению"
	assert.Equal(t, userID.String(), response.UserID)

	mockGoals.AssertExpectations(t)
	mockCategories.AssertExpectations(t)
}

func TestGoalCreate_ReaderForbidden(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, mockCategories := setupGoalTest(userID, model.RoleReader)

	category := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(),
		Title:   "Health",
	}
	mockCategories.On("GetByIDVisible", mock.Anything, category.ID, userID).Return(category, nil)

	reqBody := handler.CreateGoalRequest{
		CategoryID: category.ID.String(),
		Title:      "Run a marathon",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/goals", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: читатель видит категорию, но создавать цели не может
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockGoals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockCategories.AssertExpectations(t)
}

func TestGoalUpdate_WriterButNotAuthorForbidden(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, mockCategories := setupGoalTest(userID, model.RoleWriter)

	category := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(),
	}
	goal := &model.Goal{
		ID:         uuid.New(),
		CategoryID: category.ID,
		UserID:     uuid.New(), // Автор — другой пользователь
		Title:      "Learn Spanish",
		Status:     model.StatusToDo,
		Priority:   model.PriorityMedium,
	}
	mockGoals.On("GetByIDVisible", mock.Anything, goal.ID, userID).Return(goal, nil)
	mockCategories.On("GetByIDVisible", mock.Anything, category.ID, userID).Return(category, nil)

	newTitle := "Learn French"
	reqBody := handler.UpdateGoalRequest{Title: &newTitle}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("PUT", "/goals/"+goal.ID.String(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: роль writer без авторства не дает права на изменение
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockGoals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGoalUpdate_ArchivedIsNotFound(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, _ := setupGoalTest(userID, model.RoleOwner)

	goal := &model.Goal{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		UserID:     userID,
		Title:      "Old goal",
		Status:     model.StatusArchived,
	}
	mockGoals.On("GetByIDVisible", mock.Anything, goal.ID, userID).Return(goal, nil)

	newTitle := "Revived goal"
	reqBody := handler.UpdateGoalRequest{Title: &newTitle}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("PUT", "/goals/"+goal.ID.String(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: архивная цель доступна для чтения, но не для записи
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockGoals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGoalUpdate_CategoryFromAnotherBoardRejected(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, mockCategories := setupGoalTest(userID, model.RoleOwner)

	category := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(),
	}
	foreignCategory := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(), // Другая доска
	}
	goal := &model.Goal{
		ID:         uuid.New(),
		CategoryID: category.ID,
		UserID:     userID,
		Title:      "Learn Spanish",
		Status:     model.StatusToDo,
		Priority:   model.PriorityMedium,
	}
	mockGoals.On("GetByIDVisible", mock.Anything, goal.ID, userID).Return(goal, nil)
	mockCategories.On("GetByIDVisible", mock.Anything, category.ID, userID).Return(category, nil)
	mockCategories.On("GetByIDVisible", mock.Anything, foreignCategory.ID, userID).Return(foreignCategory, nil)

	newCategoryID := foreignCategory.ID.String()
	reqBody := handler.UpdateGoalRequest{CategoryID: &newCategoryID}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("PUT", "/goals/"+goal.ID.String(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "Category belongs to a different board")
	mockGoals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGoalUpdate_RowVanishedIsNotFound(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, mockCategories := setupGoalTest(userID, model.RoleWriter)

	category := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(),
	}
	goal := &model.Goal{
		ID:         uuid.New(),
		CategoryID: category.ID,
		UserID:     userID,
		Title:      "Learn Spanish",
		Status:     model.StatusToDo,
		Priority:   model.PriorityMedium,
	}
	mockGoals.On("GetByIDVisible", mock.Anything, goal.ID, userID).Return(goal, nil)
	mockCategories.On("GetByIDVisible", mock.Anything, category.ID, userID).Return(category, nil)
	// Строка исчезла между чтением и записью
	mockGoals.On("Update", mock.Anything, mock.AnythingOfType("*model.Goal")).Return(repository.ErrGoalNotFound)

	newTitle := "Learn French"
	reqBody := handler.UpdateGoalRequest{Title: &newTitle}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("PUT", "/goals/"+goal.ID.String(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: пропавшая цель — это 404, а не внутренняя ошибка
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Goal not found")
	mockGoals.AssertExpectations(t)
}

func TestGoalDelete_ArchivesInsteadOfRemoving(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockGoals, mockCategories := setupGoalTest(userID, model.RoleWriter)

	category := &model.GoalCategory{
		ID:      uuid.New(),
		BoardID: uuid.New(),
	}
	goal := &model.Goal{
		ID:         uuid.New(),
		CategoryID: category.ID,
		UserID:     userID,
		Title:      "Learn Spanish",
		Status:     model.StatusInProgress,
	}
	mockGoals.On("GetByIDVisible", mock.Anything, goal.ID, userID).Return(goal, nil)
	mockCategories.On("GetByIDVisible", mock.Anything, category.ID, userID).Return(category, nil)
	mockGoals.On("Archive", mock.Anything, goal.ID).Return(nil)

	req, _ := http.NewRequest("DELETE", "/goals/"+goal.ID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Goal archived")
	mockGoals.AssertExpectations(t)
}
