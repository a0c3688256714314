package controllers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/integration"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/store"
	"github.com/coursehub/backend/internal/utils"
)

type CoursesController struct {
	Courses     *store.CourseStore
	Enrollments *store.EnrollmentStore
	Reviews     *store.ReviewStore
	Blobs       integration.BlobStore
}

func NewCoursesController(courses *store.CourseStore, enrollments *store.EnrollmentStore, reviews *store.ReviewStore, blobs integration.BlobStore) *CoursesController {
	return &CoursesController{Courses: courses, Enrollments: enrollments, Reviews: reviews, Blobs: blobs}
}

// canMutateCourse: only the owning instructor or an admin may change a
// course or anything under it.
func canMutateCourse(course *models.Course, userID uint, role string) bool {
	return role == models.RoleAdmin || course.InstructorID == userID
}

type courseInput struct {
	Title        string   `json:"title" validate:"omitempty,max=200"`
	ShortDesc    string   `json:"short_desc" validate:"omitempty,max=500"`
	Description  string   `json:"description" validate:"omitempty,max=20000"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Price        *float64 `json:"price"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	Status       string   `json:"status"`
	Thumbnail    string   `json:"thumbnail"` // Base64 payload handed to blob storage
	Requirements []string `json:"requirements"`
	Objectives   []string `json:"objectives"`
	Tags         []string `json:"tags"`
}

func (in *courseInput) validateEnums(requireTitle bool) error {
	if requireTitle && in.Title == "" {
		return apperrors.Validation("Title is required")
	}
	if in.Category != "" && !models.ValidCourseCategory(in.Category) {
		return apperrors.Validation("Invalid course category")
	}
	if in.Level != "" && !models.ValidCourseLevel(in.Level) {
		return apperrors.Validation("Invalid course level")
	}
	if in.Status != "" && !models.ValidCourseStatus(in.Status) {
		return apperrors.Validation("Invalid course status")
	}
	if in.Price != nil && (*in.Price < 0 || *in.Price > 100000) {
		return apperrors.Validation("Price is out of range")
	}
	return nil
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return raw
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input courseInput
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := input.validateEnums(true); err != nil {
		return err
	}

	course := models.Course{
		Title:        input.Title,
		ShortDesc:    input.ShortDesc,
		Description:  input.Description,
		Category:     input.Category,
		Level:        input.Level,
		Currency:     input.Currency,
		Status:       models.CourseStatusDraft,
		Requirements: toJSONArray(input.Requirements),
		Objectives:   toJSONArray(input.Objectives),
		Tags:         toJSONArray(input.Tags),
		InstructorID: middleware.UserID(c),
	}
	utils.SanitizeTexts(&course.Title, &course.ShortDesc, &course.Description)

	if input.Price != nil {
		course.Price = *input.Price
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}
	if course.Currency == "" {
		course.Currency = "USD"
	}

	if input.Thumbnail != "" {
		url, err := cc.uploadThumbnail(c, input.Thumbnail)
		if err != nil {
			return err
		}
		course.ThumbnailURL = url
	}

	if err := cc.Courses.Create(c.Context(), &course); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"course":  course,
	})
}

// ListCourses godoc
// @Summary List courses with filters and pagination
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	filter := store.CourseFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Level:    c.Query("level"),
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
	}

	if filter.Category != "" && !models.ValidCourseCategory(filter.Category) {
		return apperrors.Validation("Invalid course category")
	}
	if filter.Status != "" && !models.ValidCourseStatus(filter.Status) {
		return apperrors.Validation("Invalid course status")
	}

	// Students only browse the published catalog; instructors and admins
	// may filter across statuses.
	if middleware.Role(c) == models.RoleStudent {
		filter.Status = models.CourseStatusPublished
	}

	courses, total, err := cc.Courses.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"courses": courses,
		"pagination": fiber.Map{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
		},
	})
}

// GetCourse godoc
// @Summary Course details with lessons and reviews
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	course, err := cc.Courses.Get(c.Context(), courseID)
	if err != nil {
		return err
	}

	userID := middleware.UserID(c)
	enrolled := false
	// A cancelled enrollment no longer grants access.
	if e, err := cc.Enrollments.GetByUserAndCourse(c.Context(), userID, courseID); err == nil &&
		e.Status != models.EnrollmentStatusCancelled {
		enrolled = true
	}

	// Lesson content is gated: non-enrolled users (who are not the course
	// owner) see published lessons only, with paid content stripped.
	if !enrolled && !canMutateCourse(course, userID, middleware.Role(c)) {
		visible := make([]models.Lesson, 0, len(course.Lessons))
		for _, lesson := range course.Lessons {
			if lesson.IsPublished {
				visible = append(visible, lesson.Preview())
			}
		}
		course.Lessons = visible
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"course":   course,
		"enrolled": enrolled,
	})
}

// UpdateCourse godoc
// @Summary Update course fields
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input courseInput
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := input.validateEnums(false); err != nil {
		return err
	}

	course, err := cc.Courses.Get(c.Context(), courseID)
	if err != nil {
		return err
	}
	if !canMutateCourse(course, middleware.UserID(c), middleware.Role(c)) {
		return apperrors.Forbidden("You don't have permission to edit this course")
	}

	if input.Title != "" {
		course.Title = utils.SanitizeText(input.Title)
	}
	if input.ShortDesc != "" {
		course.ShortDesc = utils.SanitizeText(input.ShortDesc)
	}
	if input.Description != "" {
		course.Description = utils.SanitizeText(input.Description)
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Status != "" {
		course.Status = input.Status
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.Currency != "" {
		course.Currency = input.Currency
	}
	if input.Requirements != nil {
		course.Requirements = toJSONArray(input.Requirements)
	}
	if input.Objectives != nil {
		course.Objectives = toJSONArray(input.Objectives)
	}
	if input.Tags != nil {
		course.Tags = toJSONArray(input.Tags)
	}
	if input.Thumbnail != "" {
		if course.ThumbnailURL != "" {
			_ = cc.Blobs.Delete(c.Context(), course.ThumbnailURL)
		}
		url, err := cc.uploadThumbnail(c, input.Thumbnail)
		if err != nil {
			return err
		}
		course.ThumbnailURL = url
	}

	if err := cc.Courses.Update(c.Context(), course); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"course":  course,
	})
}

// DeleteCourse godoc
// @Summary Soft-delete a course
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	course, err := cc.Courses.Get(c.Context(), courseID)
	if err != nil {
		return err
	}
	if !canMutateCourse(course, middleware.UserID(c), middleware.Role(c)) {
		return apperrors.Forbidden("You don't have permission to delete this course")
	}

	if err := cc.Courses.Delete(c.Context(), courseID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Course deleted",
	})
}

// GetCourseRatingStats godoc
// @Summary Rating histogram for a course
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /courses/{id}/rating-stats [get]
func (cc *CoursesController) GetCourseRatingStats(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := cc.Courses.Get(c.Context(), courseID); err != nil {
		return err
	}

	stats, err := cc.Reviews.GetCourseRatingStats(c.Context(), courseID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// GetPlatformRatingStats is admin reporting over all reviews.
func (cc *CoursesController) GetPlatformRatingStats(c *fiber.Ctx) error {
	stats, err := cc.Reviews.GetPlatformRatingStats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

func (cc *CoursesController) uploadThumbnail(c *fiber.Ctx, payload string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apperrors.Validation("Thumbnail must be Base64 encoded")
	}

	name := fmt.Sprintf("thumbnails/%s", uuid.NewString())
	url, err := cc.Blobs.Upload(c.Context(), name, data)
	if err != nil {
		return "", apperrors.Internal("Could not upload thumbnail", err)
	}
	return url, nil
}
