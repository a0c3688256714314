package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/store"
	"github.com/coursehub/backend/internal/utils"
)

type LessonsController struct {
	Courses     *store.CourseStore
	Lessons     *store.LessonStore
	Enrollments *store.EnrollmentStore
}

func NewLessonsController(courses *store.CourseStore, lessons *store.LessonStore, enrollments *store.EnrollmentStore) *LessonsController {
	return &LessonsController{Courses: courses, Lessons: lessons, Enrollments: enrollments}
}

type lessonInput struct {
	Title         string `json:"title" validate:"omitempty,max=200"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	Content       string `json:"content"`
	VideoURL      string `json:"video_url" validate:"omitempty,url"`
	DurationSec   int    `json:"duration_sec" validate:"omitempty,min=0"`
	SequenceOrder int    `json:"sequence_order" validate:"omitempty,min=1"`
	IsFree        *bool  `json:"is_free"`
	IsPublished   *bool  `json:"is_published"`
}

// loadOwnedCourse fetches the course and enforces the mutation gate shared
// by every lesson write.
func (lc *LessonsController) loadOwnedCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	course, err := lc.Courses.Get(c.Context(), courseID)
	if err != nil {
		return nil, err
	}
	if !canMutateCourse(course, middleware.UserID(c), middleware.Role(c)) {
		return nil, apperrors.Forbidden("You don't have permission to edit lessons in this course")
	}
	return course, nil
}

// ListLessons godoc
// @Summary List the lessons of a course
// @Tags lessons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons [get]
func (lc *LessonsController) ListLessons(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	course, err := lc.Courses.Get(c.Context(), courseID)
	if err != nil {
		return err
	}

	lessons, err := lc.Lessons.ListByCourse(c.Context(), courseID)
	if err != nil {
		return err
	}

	userID := middleware.UserID(c)
	enrolled := false
	if e, err := lc.Enrollments.GetByUserAndCourse(c.Context(), userID, courseID); err == nil &&
		e.Status != models.EnrollmentStatusCancelled {
		enrolled = true
	}

	// Same visibility gate as the course detail view: non-enrolled users
	// who do not own the course see published lessons only, paid content
	// stripped.
	if !enrolled && !canMutateCourse(course, userID, middleware.Role(c)) {
		visible := make([]models.Lesson, 0, len(lessons))
		for _, lesson := range lessons {
			if lesson.IsPublished {
				visible = append(visible, lesson.Preview())
			}
		}
		lessons = visible
	}

	return c.JSON(fiber.Map{
		"success": true,
		"lessons": lessons,
	})
}

// AddLesson godoc
// @Summary Add a lesson to a course
// @Tags lessons
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons [post]
func (lc *LessonsController) AddLesson(c *fiber.Ctx) error {
	course, err := lc.loadOwnedCourse(c)
	if err != nil {
		return err
	}

	var input lessonInput
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Title == "" {
		return apperrors.Validation("Title is required")
	}

	lesson := models.Lesson{
		CourseID:      course.ID,
		Title:         utils.SanitizeText(input.Title),
		Description:   utils.SanitizeText(input.Description),
		Content:       input.Content,
		VideoURL:      input.VideoURL,
		DurationSec:   input.DurationSec,
		SequenceOrder: input.SequenceOrder,
	}
	if input.IsFree != nil {
		lesson.IsFree = *input.IsFree
	}
	if input.IsPublished != nil {
		lesson.IsPublished = *input.IsPublished
	}

	if err := lc.Lessons.Create(c.Context(), &lesson); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"lesson":  lesson,
	})
}

func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	course, err := lc.loadOwnedCourse(c)
	if err != nil {
		return err
	}

	lessonID, err := utils.ParseIDParam(c, "lessonId")
	if err != nil {
		return err
	}

	var input lessonInput
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	lesson, err := lc.Lessons.Get(c.Context(), course.ID, lessonID)
	if err != nil {
		return err
	}

	if input.Title != "" {
		lesson.Title = utils.SanitizeText(input.Title)
	}
	if input.Description != "" {
		lesson.Description = utils.SanitizeText(input.Description)
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.VideoURL != "" {
		lesson.VideoURL = input.VideoURL
	}
	if input.DurationSec != 0 {
		lesson.DurationSec = input.DurationSec
	}
	if input.SequenceOrder != 0 {
		lesson.SequenceOrder = input.SequenceOrder
	}
	if input.IsFree != nil {
		lesson.IsFree = *input.IsFree
	}
	if input.IsPublished != nil {
		lesson.IsPublished = *input.IsPublished
	}

	if err := lc.Lessons.Update(c.Context(), lesson); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"lesson":  lesson,
	})
}

func (lc *LessonsController) DeleteLesson(c *fiber.Ctx) error {
	course, err := lc.loadOwnedCourse(c)
	if err != nil {
		return err
	}

	lessonID, err := utils.ParseIDParam(c, "lessonId")
	if err != nil {
		return err
	}

	if err := lc.Lessons.Delete(c.Context(), course.ID, lessonID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lesson deleted",
	})
}
