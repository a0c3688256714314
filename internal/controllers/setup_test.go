package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/routes"
	"github.com/coursehub/backend/internal/utils"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{JWTSecret: "testsecret"}
	log := zerolog.Nop()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
	})
	routes.SetupRoutes(app, db, cfg, log)

	return &testEnv{app: app, db: db, cfg: cfg}
}

// createUser seeds a user directly and returns a valid token for it.
func (e *testEnv) createUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()

	var count int64
	e.db.Model(&models.User{}).Count(&count)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         "Test " + role,
		Email:        fmt.Sprintf("%s%d@example.com", role, count+1),
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := utils.GenerateJWTToken(user.ID, user.Role, e.cfg)
	require.NoError(t, err)

	return user, token
}

func (e *testEnv) createCourse(t *testing.T, instructorID uint, status string) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:        "Seeded Course",
		Category:     "programming",
		Level:        models.LevelBeginner,
		Status:       status,
		InstructorID: instructorID,
	}
	require.NoError(t, e.db.Create(course).Error)
	return course
}

func (e *testEnv) createLesson(t *testing.T, courseID uint, order int, published bool) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{
		CourseID:      courseID,
		Title:         fmt.Sprintf("Lesson %d", order),
		SequenceOrder: order,
		IsPublished:   published,
	}
	require.NoError(t, e.db.Create(lesson).Error)
	return lesson
}

// request performs an in-memory HTTP call and decodes the JSON body.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	}

	return resp.StatusCode, result
}

func requireStatus(t *testing.T, want, got int, body map[string]interface{}) {
	t.Helper()
	require.Equal(t, want, got, "response body: %v", body)
}
