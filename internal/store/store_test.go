package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coursehub/backend/internal/models"
)

// setupTestDB opens a fresh in-memory database per test. TranslateError is
// on, matching the production connection, so constraint violations map to
// the same gorm sentinel errors as against Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.Review{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test " + role,
		Email:        fmt.Sprintf("%s-%d@example.com", role, userSeq(db)),
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func userSeq(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.User{}).Count(&count)
	return count + 1
}

func createTestCourse(t *testing.T, db *gorm.DB, instructorID uint) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:        "Intro to Go",
		Category:     "programming",
		Level:        models.LevelBeginner,
		Status:       models.CourseStatusPublished,
		InstructorID: instructorID,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createTestLesson(t *testing.T, db *gorm.DB, courseID uint, order int, published bool) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{
		CourseID:      courseID,
		Title:         fmt.Sprintf("Lesson %d", order),
		SequenceOrder: order,
		IsPublished:   published,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func courseByID(t *testing.T, db *gorm.DB, id uint) *models.Course {
	t.Helper()

	var course models.Course
	require.NoError(t, db.First(&course, id).Error)
	return &course
}

func testCtx() context.Context {
	return context.Background()
}
