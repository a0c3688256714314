package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/integration"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/store"
	"github.com/coursehub/backend/internal/utils"
)

type EnrollmentsController struct {
	Courses     *store.CourseStore
	Enrollments *store.EnrollmentStore
	Users       *store.UserStore
	Mailer      integration.Mailer
}

func NewEnrollmentsController(courses *store.CourseStore, enrollments *store.EnrollmentStore, users *store.UserStore, mailer integration.Mailer) *EnrollmentsController {
	return &EnrollmentsController{Courses: courses, Enrollments: enrollments, Users: users, Mailer: mailer}
}

// Enroll godoc
// @Summary Enroll the authenticated user in a course
// @Tags enrollments
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)

	course, err := ec.Courses.Get(c.Context(), courseID)
	if err != nil {
		return err
	}
	if course.InstructorID == userID {
		return apperrors.Validation("You cannot enroll in your own course")
	}
	if course.Status != models.CourseStatusPublished {
		return apperrors.Validation("Course is not open for enrollment")
	}

	enrollment, err := ec.Enrollments.Create(c.Context(), userID, courseID)
	if err != nil {
		return err
	}

	if user, err := ec.Users.Get(c.Context(), userID); err == nil {
		ec.Mailer.Send(user.Email, "enrollment_confirmation", map[string]interface{}{
			"course": course.Title,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"enrollment": enrollment,
	})
}

// Unenroll cancels the active enrollment, keeping the history row.
func (ec *EnrollmentsController) Unenroll(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ec.Enrollments.Cancel(c.Context(), middleware.UserID(c), courseID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Enrollment cancelled",
	})
}

// MyEnrollments lists the caller's non-cancelled enrollments.
func (ec *EnrollmentsController) MyEnrollments(c *fiber.Ctx) error {
	enrollments, err := ec.Enrollments.ListByUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"enrollments": enrollments,
	})
}

// UpdateLessonProgress godoc
// @Summary Record per-lesson progress
// @Tags enrollments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons/{lessonId}/progress [put]
func (ec *EnrollmentsController) UpdateLessonProgress(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	lessonID, err := utils.ParseIDParam(c, "lessonId")
	if err != nil {
		return err
	}

	var input struct {
		Completed bool `json:"completed"`
		WatchTime int  `json:"watch_time" validate:"omitempty,min=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	enrollment, err := ec.Enrollments.MarkLesson(
		c.Context(), middleware.UserID(c), courseID, lessonID, input.Completed, input.WatchTime)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"enrollment": enrollment,
	})
}

// SyncProgress merges a batch of completed lessons, for clients syncing
// offline progress. The server still derives the percentage itself.
func (ec *EnrollmentsController) SyncProgress(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input struct {
		CompletedLessons []uint `json:"completed_lessons"`
		CurrentLessonID  *uint  `json:"current_lesson_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}

	enrollment, err := ec.Enrollments.GetByUserAndCourse(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return err
	}

	updated, err := ec.Enrollments.UpdateProgress(
		c.Context(), enrollment.ID, input.CompletedLessons, input.CurrentLessonID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"enrollment": updated,
	})
}

// CourseEnrollments is instructor/admin reporting for one course.
func (ec *EnrollmentsController) CourseEnrollments(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	course, err := ec.Courses.Get(c.Context(), courseID)
	if err != nil {
		return err
	}
	if !canMutateCourse(course, middleware.UserID(c), middleware.Role(c)) {
		return apperrors.Forbidden("You don't have permission to view enrollments for this course")
	}

	enrollments, err := ec.Enrollments.ListByCourse(c.Context(), courseID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"enrollments": enrollments,
	})
}
