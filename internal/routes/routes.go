package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/controllers"
	"github.com/coursehub/backend/internal/integration"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/store"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {
	users := store.NewUserStore(db)
	courses := store.NewCourseStore(db)
	lessons := store.NewLessonStore(db)
	enrollments := store.NewEnrollmentStore(db)
	reviews := store.NewReviewStore(db)

	blobs := integration.NewLocalBlobStore(log, "https://cdn.coursehub.local")
	mailer := integration.NewLogMailer(log)

	authController := controllers.NewAuthController(users, cfg, mailer)
	usersController := controllers.NewUsersController(users)
	coursesController := controllers.NewCoursesController(courses, enrollments, reviews, blobs)
	lessonsController := controllers.NewLessonsController(courses, lessons, enrollments)
	enrollmentsController := controllers.NewEnrollmentsController(courses, enrollments, users, mailer)
	reviewsController := controllers.NewReviewsController(courses, enrollments, reviews)

	authMiddleware := middleware.AuthMiddleware(cfg)
	instructorOrAdmin := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Auth
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Users
	app.Get("/api/user/profile", authMiddleware, usersController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, usersController.UpdateProfile)

	// Courses
	coursesGroup := app.Group("/api/courses", authMiddleware)
	coursesGroup.Post("/", instructorOrAdmin, coursesController.CreateCourse)
	coursesGroup.Get("/", coursesController.ListCourses)
	coursesGroup.Get("/:id", coursesController.GetCourse)
	coursesGroup.Put("/:id", instructorOrAdmin, coursesController.UpdateCourse)
	coursesGroup.Delete("/:id", instructorOrAdmin, coursesController.DeleteCourse)
	coursesGroup.Get("/:id/rating-stats", coursesController.GetCourseRatingStats)

	// Lessons
	coursesGroup.Get("/:id/lessons", lessonsController.ListLessons)
	coursesGroup.Post("/:id/lessons", instructorOrAdmin, lessonsController.AddLesson)
	coursesGroup.Put("/:id/lessons/:lessonId", instructorOrAdmin, lessonsController.UpdateLesson)
	coursesGroup.Delete("/:id/lessons/:lessonId", instructorOrAdmin, lessonsController.DeleteLesson)

	// Enrollments & progress
	coursesGroup.Post("/:id/enroll", enrollmentsController.Enroll)
	coursesGroup.Delete("/:id/enroll", enrollmentsController.Unenroll)
	coursesGroup.Put("/:id/lessons/:lessonId/progress", enrollmentsController.UpdateLessonProgress)
	coursesGroup.Put("/:id/progress", enrollmentsController.SyncProgress)
	coursesGroup.Get("/:id/enrollments", instructorOrAdmin, enrollmentsController.CourseEnrollments)
	app.Get("/api/enrollments", authMiddleware, enrollmentsController.MyEnrollments)

	// Reviews
	coursesGroup.Post("/:id/reviews", reviewsController.AddReview)
	coursesGroup.Get("/:id/reviews", reviewsController.ListReviews)
	coursesGroup.Put("/:id/reviews/:reviewId", reviewsController.UpdateReview)
	coursesGroup.Delete("/:id/reviews/:reviewId", reviewsController.DeleteReview)

	// Admin reporting
	admin := app.Group("/api/admin", authMiddleware, adminOnly)
	admin.Get("/users", usersController.ListUsers)
	admin.Get("/rating-stats", coursesController.GetPlatformRatingStats)
}
