package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

func TestCourseCRUD(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseStore(db)

	instructor := createTestUser(t, db, models.RoleInstructor)

	course := &models.Course{
		Title:        "Testing in Go",
		Category:     "programming",
		Level:        models.LevelIntermediate,
		Status:       models.CourseStatusDraft,
		InstructorID: instructor.ID,
	}
	require.NoError(t, courses.Create(testCtx(), course))
	require.NotZero(t, course.ID)

	got, err := courses.Get(testCtx(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Testing in Go", got.Title)

	got.Status = models.CourseStatusPublished
	require.NoError(t, courses.Update(testCtx(), got))

	got, err = courses.Get(testCtx(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPublished, got.Status)

	require.NoError(t, courses.Delete(testCtx(), course.ID))

	// Soft-deleted courses disappear from reads.
	_, err = courses.Get(testCtx(), course.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	err = courses.Delete(testCtx(), course.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestCourseGetOrdersLessons(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseStore(db)

	instructor := createTestUser(t, db, models.RoleInstructor)
	course := createTestCourse(t, db, instructor.ID)
	createTestLesson(t, db, course.ID, 2, true)
	createTestLesson(t, db, course.ID, 1, true)
	createTestLesson(t, db, course.ID, 3, true)

	got, err := courses.Get(testCtx(), course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 3)
	assert.Equal(t, 1, got.Lessons[0].SequenceOrder)
	assert.Equal(t, 2, got.Lessons[1].SequenceOrder)
	assert.Equal(t, 3, got.Lessons[2].SequenceOrder)
}

func TestCourseListFilters(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseStore(db)

	instructor := createTestUser(t, db, models.RoleInstructor)

	seed := []models.Course{
		{Title: "Go Basics", Category: "programming", Status: models.CourseStatusPublished, InstructorID: instructor.ID},
		{Title: "Go Advanced", Category: "programming", Status: models.CourseStatusDraft, InstructorID: instructor.ID},
		{Title: "Figma 101", Category: "design", Status: models.CourseStatusPublished, InstructorID: instructor.ID},
	}
	for i := range seed {
		require.NoError(t, courses.Create(testCtx(), &seed[i]))
	}

	list, total, err := courses.List(testCtx(), CourseFilter{Category: "programming"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = courses.List(testCtx(), CourseFilter{Category: "programming", Status: models.CourseStatusPublished})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Go Basics", list[0].Title)

	list, total, err = courses.List(testCtx(), CourseFilter{Search: "Figma"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Figma 101", list[0].Title)
}

func TestCourseListPagination(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseStore(db)

	instructor := createTestUser(t, db, models.RoleInstructor)
	for i := 0; i < 5; i++ {
		require.NoError(t, courses.Create(testCtx(), &models.Course{
			Title:        "Course",
			Category:     "programming",
			Status:       models.CourseStatusPublished,
			InstructorID: instructor.ID,
		}))
	}

	list, total, err := courses.List(testCtx(), CourseFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, list, 2)

	list, _, err = courses.List(testCtx(), CourseFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecalcRatingRepairsDrift(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseStore(db)
	reviews := NewReviewStore(db)

	instructor := createTestUser(t, db, models.RoleInstructor)
	course := createTestCourse(t, db, instructor.ID)
	user := createTestUser(t, db, models.RoleStudent)

	require.NoError(t, reviews.Add(testCtx(), &models.Review{UserID: user.ID, CourseID: course.ID, Rating: 4}))

	// Simulate drift from an out-of-band write.
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).
		Updates(map[string]interface{}{"rating": 1.0, "total_ratings": 99}).Error)

	require.NoError(t, courses.RecalcRating(testCtx(), course.ID))

	got := courseByID(t, db, course.ID)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, int64(1), got.TotalRatings)
}
