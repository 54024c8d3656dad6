package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"game-board-api/internal/metrics"
)

const testJWTSecret = "test-secret"

// setupTestRouter creates a test router backed by an in-memory database
func setupTestRouter(t *testing.T, basePath string) http.Handler {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect database")

	err = db.Exec(`
		CREATE TABLE boards (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			capacity INTEGER NOT NULL,
			code TEXT NOT NULL UNIQUE
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE board_memberships (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			board_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'player',
			UNIQUE(board_id, user_id)
		)
	`).Error
	require.NoError(t, err)

	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())

	return Setup(Config{
		DB:        db,
		Logger:    zap.NewNop(),
		Metrics:   m,
		JWTSecret: testJWTSecret,
		BasePath:  basePath,
	})
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestHealthEndpoints(t *testing.T) {
	router := setupTestRouter(t, "")

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBoardRoutes_RequireAuth(t *testing.T) {
	router := setupTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBoardRoutes_AcceptValidToken(t *testing.T) {
	router := setupTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestBoardRoutes_RejectExpiredToken(t *testing.T) {
	router := setupTestRouter(t, "")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomBasePath(t *testing.T) {
	router := setupTestRouter(t, "/api/v2")

	req := httptest.NewRequest(http.MethodGet, "/api/v2/boards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
