package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goaltracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "board-api-secret"

// newProtectedRouter монтирует маршрут за JWT middleware; обработчик
// отдает userID из контекста, чтобы проверить, что он туда попал.
func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(testSecret))
	api.GET("/boards", func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "boards": []string{}})
	})

	return r
}

func signToken(claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(testSecret))
	return signed
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	router := newProtectedRouter()
	userID := uuid.New()
	token := signToken(jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	req, _ := http.NewRequest("GET", "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: запрос пропущен, в контексте лежит именно наш userID
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), userID.String())
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	// Arrange
	router := newProtectedRouter()
	req, _ := http.NewRequest("GET", "/api/boards", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header is required")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	// Arrange
	router := newProtectedRouter()
	req, _ := http.NewRequest("GET", "/api/boards", nil)
	// Basic вместо Bearer
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header format must be Bearer {token}")
}

func TestJWTAuthMiddleware_GarbageToken(t *testing.T) {
	// Arrange
	router := newProtectedRouter()
	req, _ := http.NewRequest("GET", "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	// Arrange
	router := newProtectedRouter()
	token := signToken(jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	req, _ := http.NewRequest("GET", "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}

func TestJWTAuthMiddleware_NonUUIDUserID(t *testing.T) {
	// Arrange
	router := newProtectedRouter()
	// user_id в claims не является UUID
	token := signToken(jwt.MapClaims{
		"user_id": "42",
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	req, _ := http.NewRequest("GET", "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid user ID in token")
}
