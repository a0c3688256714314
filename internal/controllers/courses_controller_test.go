package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/internal/models"
)

func TestCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	_, instructorToken := env.createUser(t, models.RoleInstructor)
	_, studentToken := env.createUser(t, models.RoleStudent)

	payload := map[string]interface{}{
		"title":       "Web Development",
		"category":    "programming",
		"level":       "beginner",
		"price":       0,
		"description": "Learn the web",
	}

	status, body := env.request(t, "POST", "/api/courses", instructorToken, payload)
	requireStatus(t, fiber.StatusCreated, status, body)
	course := body["course"].(map[string]interface{})
	assert.Equal(t, "Web Development", course["title"])
	assert.Equal(t, "draft", course["status"])

	// Students cannot create courses.
	status, body = env.request(t, "POST", "/api/courses", studentToken, payload)
	requireStatus(t, fiber.StatusForbidden, status, body)
}

func TestCreateCourseValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, models.RoleInstructor)

	status, body := env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"title":    "Bad Category",
		"category": "cooking",
	})
	requireStatus(t, fiber.StatusBadRequest, status, body)

	status, body = env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"title": "Bad Price",
		"price": -5,
	})
	requireStatus(t, fiber.StatusBadRequest, status, body)

	status, body = env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"category": "programming",
	})
	requireStatus(t, fiber.StatusBadRequest, status, body)
}

func TestCourseSanitizesFreeText(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, models.RoleInstructor)

	status, body := env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"title":       `Clean <script>alert("x")</script>Title`,
		"category":    "programming",
		"description": "<b>bold</b> text",
	})
	requireStatus(t, fiber.StatusCreated, status, body)

	course := body["course"].(map[string]interface{})
	assert.NotContains(t, course["title"], "<script>")
	assert.NotContains(t, course["description"], "<b>")
}

func TestUpdateCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.createUser(t, models.RoleInstructor)
	_, otherToken := env.createUser(t, models.RoleInstructor)
	_, adminToken := env.createUser(t, models.RoleAdmin)

	course := env.createCourse(t, owner.ID, models.CourseStatusDraft)
	path := fmt.Sprintf("/api/courses/%d", course.ID)

	// Non-owner instructor is rejected.
	status, body := env.request(t, "PUT", path, otherToken, map[string]interface{}{"title": "Hijacked"})
	requireStatus(t, fiber.StatusForbidden, status, body)

	// The owner may update.
	status, body = env.request(t, "PUT", path, ownerToken, map[string]interface{}{"status": "published"})
	requireStatus(t, fiber.StatusOK, status, body)
	assert.Equal(t, "published", body["course"].(map[string]interface{})["status"])

	// So may an admin.
	status, body = env.request(t, "PUT", path, adminToken, map[string]interface{}{"title": "Renamed"})
	requireStatus(t, fiber.StatusOK, status, body)

	// Same gate on delete.
	status, body = env.request(t, "DELETE", path, otherToken, nil)
	requireStatus(t, fiber.StatusForbidden, status, body)

	status, body = env.request(t, "DELETE", path, ownerToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)

	status, body = env.request(t, "GET", path, ownerToken, nil)
	requireStatus(t, fiber.StatusNotFound, status, body)
}

func TestListCoursesPagination(t *testing.T) {
	env := newTestEnv(t)
	instructor, _ := env.createUser(t, models.RoleInstructor)
	_, studentToken := env.createUser(t, models.RoleStudent)

	for i := 0; i < 3; i++ {
		env.createCourse(t, instructor.ID, models.CourseStatusPublished)
	}
	env.createCourse(t, instructor.ID, models.CourseStatusDraft)

	status, body := env.request(t, "GET", "/api/courses?page=1&limit=2", studentToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)

	// Students see only the published catalog.
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
	assert.Len(t, body["courses"].([]interface{}), 2)
}

func TestGetCourseGatesLessonContent(t *testing.T) {
	env := newTestEnv(t)
	instructor, _ := env.createUser(t, models.RoleInstructor)
	_, studentToken := env.createUser(t, models.RoleStudent)

	course := env.createCourse(t, instructor.ID, models.CourseStatusPublished)
	published := env.createLesson(t, course.ID, 1, true)
	published.Content = "secret content"
	require.NoError(t, env.db.Save(published).Error)
	env.createLesson(t, course.ID, 2, false)

	path := fmt.Sprintf("/api/courses/%d", course.ID)
	status, body := env.request(t, "GET", path, studentToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)

	lessons := body["course"].(map[string]interface{})["lessons"].([]interface{})
	require.Len(t, lessons, 1) // the draft lesson is hidden

	lesson := lessons[0].(map[string]interface{})
	_, hasContent := lesson["content"]
	assert.False(t, hasContent, "paid lesson content must be stripped for non-enrolled users")
}

func TestCancelledEnrollmentLosesLessonAccess(t *testing.T) {
	env := newTestEnv(t)
	instructor, _ := env.createUser(t, models.RoleInstructor)
	_, studentToken := env.createUser(t, models.RoleStudent)

	course := env.createCourse(t, instructor.ID, models.CourseStatusPublished)
	lesson := env.createLesson(t, course.ID, 1, true)
	lesson.Content = "secret content"
	require.NoError(t, env.db.Save(lesson).Error)

	enrollPath := fmt.Sprintf("/api/courses/%d/enroll", course.ID)
	status, body := env.request(t, "POST", enrollPath, studentToken, nil)
	requireStatus(t, fiber.StatusCreated, status, body)

	coursePath := fmt.Sprintf("/api/courses/%d", course.ID)
	status, body = env.request(t, "GET", coursePath, studentToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, body["enrolled"])
	lessons := body["course"].(map[string]interface{})["lessons"].([]interface{})
	assert.Equal(t, "secret content", lessons[0].(map[string]interface{})["content"])

	// Cancelling drops the student back to the public view.
	status, body = env.request(t, "DELETE", enrollPath, studentToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)

	status, body = env.request(t, "GET", coursePath, studentToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)
	assert.Equal(t, false, body["enrolled"])
	lessons = body["course"].(map[string]interface{})["lessons"].([]interface{})
	_, hasContent := lessons[0].(map[string]interface{})["content"]
	assert.False(t, hasContent, "paid content must be stripped after cancellation")
}

func TestCourseRatingStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	instructor, _ := env.createUser(t, models.RoleInstructor)
	_, studentToken := env.createUser(t, models.RoleStudent)
	course := env.createCourse(t, instructor.ID, models.CourseStatusPublished)

	path := fmt.Sprintf("/api/courses/%d/rating-stats", course.ID)
	status, body := env.request(t, "GET", path, studentToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(0), stats["count"])
}

func TestPlatformStatsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, studentToken := env.createUser(t, models.RoleStudent)
	_, adminToken := env.createUser(t, models.RoleAdmin)

	status, body := env.request(t, "GET", "/api/admin/rating-stats", studentToken, nil)
	requireStatus(t, fiber.StatusForbidden, status, body)

	status, body = env.request(t, "GET", "/api/admin/rating-stats", adminToken, nil)
	requireStatus(t, fiber.StatusOK, status, body)
}

func TestInvalidCourseID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, models.RoleStudent)

	status, body := env.request(t, "GET", "/api/courses/not-a-number", token, nil)
	requireStatus(t, fiber.StatusBadRequest, status, body)
}
