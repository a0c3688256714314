package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/store"
	"github.com/coursehub/backend/internal/utils"
)

type ReviewsController struct {
	Courses     *store.CourseStore
	Enrollments *store.EnrollmentStore
	Reviews     *store.ReviewStore
}

func NewReviewsController(courses *store.CourseStore, enrollments *store.EnrollmentStore, reviews *store.ReviewStore) *ReviewsController {
	return &ReviewsController{Courses: courses, Enrollments: enrollments, Reviews: reviews}
}

// AddReview godoc
// @Summary Review a course
// @Tags reviews
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/reviews [post]
func (rc *ReviewsController) AddReview(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)

	var input struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	if _, err := rc.Courses.Get(c.Context(), courseID); err != nil {
		return err
	}

	// Only enrolled users (past or present students, not cancelled) may review.
	enrollment, err := rc.Enrollments.GetByUserAndCourse(c.Context(), userID, courseID)
	if err != nil || enrollment.Status == models.EnrollmentStatusCancelled {
		return apperrors.Forbidden("You must be enrolled in the course to review it")
	}

	review := models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   input.Rating,
		Comment:  utils.SanitizeText(input.Comment),
	}

	if err := rc.Reviews.Add(c.Context(), &review); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

func (rc *ReviewsController) ListReviews(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := rc.Courses.Get(c.Context(), courseID); err != nil {
		return err
	}

	reviews, err := rc.Reviews.ListByCourse(c.Context(), courseID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reviews": reviews,
	})
}

func (rc *ReviewsController) UpdateReview(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reviewID, err := utils.ParseIDParam(c, "reviewId")
	if err != nil {
		return err
	}

	var input struct {
		Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
		Comment string `json:"comment" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	review, err := rc.Reviews.Get(c.Context(), reviewID)
	if err != nil {
		return err
	}
	if review.CourseID != courseID {
		return apperrors.NotFound("Review not found")
	}
	if review.UserID != middleware.UserID(c) {
		return apperrors.Forbidden("You can only edit your own review")
	}

	if input.Rating != 0 {
		review.Rating = input.Rating
	}
	if input.Comment != "" {
		review.Comment = utils.SanitizeText(input.Comment)
	}

	if err := rc.Reviews.Update(c.Context(), review); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// DeleteReview removes the caller's review; admins may remove any.
func (rc *ReviewsController) DeleteReview(c *fiber.Ctx) error {
	courseID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reviewID, err := utils.ParseIDParam(c, "reviewId")
	if err != nil {
		return err
	}

	review, err := rc.Reviews.Get(c.Context(), reviewID)
	if err != nil {
		return err
	}
	if review.CourseID != courseID {
		return apperrors.NotFound("Review not found")
	}
	if review.UserID != middleware.UserID(c) && middleware.Role(c) != models.RoleAdmin {
		return apperrors.Forbidden("You can only delete your own review")
	}

	if err := rc.Reviews.Delete(c.Context(), reviewID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review deleted",
	})
}
