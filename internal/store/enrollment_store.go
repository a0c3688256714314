package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

type EnrollmentStore struct {
	db *gorm.DB
}

func NewEnrollmentStore(db *gorm.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

// Create enrolls a user in a course. The row insert (or reactivation of a
// previously cancelled row) and the total_enrollments adjustment happen in
// one transaction. A second active enrollment for the same pair is a
// Conflict; a cancelled one is reactivated in place, so the (user, course)
// unique index never sees a duplicate.
func (s *EnrollmentStore) Create(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&enrollment).Error

		switch {
		case err == nil:
			if enrollment.Status != models.EnrollmentStatusCancelled {
				return apperrors.Conflict("Already enrolled in this course")
			}
			// Reactivation: same row, history kept.
			enrollment.Status = models.EnrollmentStatusActive
			if err := tx.Save(&enrollment).Error; err != nil {
				return apperrors.FromDB(err, "Course not found")
			}

		case errors.Is(err, gorm.ErrRecordNotFound):
			enrollment = models.Enrollment{
				UserID:   userID,
				CourseID: courseID,
				Status:   models.EnrollmentStatusActive,
			}
			enrollment.SetCompletedLessonIDs(nil)
			if err := tx.Create(&enrollment).Error; err != nil {
				return apperrors.FromDB(err, "Course not found")
			}

		default:
			return apperrors.FromDB(err, "Course not found")
		}

		return adjustEnrollmentCount(tx, courseID, 1)
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (s *EnrollmentStore) Get(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, apperrors.FromDB(err, "Enrollment not found")
	}
	return &enrollment, nil
}

func (s *EnrollmentStore) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Enrollment not found")
	}
	return &enrollment, nil
}

func (s *EnrollmentStore) ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status != ?", userID, models.EnrollmentStatusCancelled).
		Order("updated_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Enrollment not found")
	}
	return enrollments, nil
}

func (s *EnrollmentStore) ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("course_id = ? AND status != ?", courseID, models.EnrollmentStatusCancelled).
		Order("updated_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Course not found")
	}
	return enrollments, nil
}

// MarkLesson records per-lesson progress: completed=true adds the lesson to
// the completed set, completed=false only accumulates watch time. The set
// never shrinks, so progress is monotonic until an explicit cancellation.
// Only published lessons count: the percentage is derived from the
// published-lesson total, so drafts may neither enter the completed set
// nor inflate it. Reaching 100% completes the enrollment.
func (s *EnrollmentStore) MarkLesson(ctx context.Context, userID, courseID, lessonID uint, completed bool, watchTimeSec int) (*models.Enrollment, error) {
	var enrollment models.Enrollment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&enrollment).Error
		if err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		if enrollment.Status == models.EnrollmentStatusCancelled {
			return apperrors.Validation("Enrollment is cancelled")
		}

		var lesson models.Lesson
		err = tx.Where("id = ? AND course_id = ? AND is_published = ?", lessonID, courseID, true).
			First(&lesson).Error
		if err != nil {
			return apperrors.FromDB(err, "Lesson not found")
		}

		ids := enrollment.CompletedLessonIDs()
		if completed && !containsID(ids, lessonID) {
			ids = append(ids, lessonID)
		}
		enrollment.SetCompletedLessonIDs(ids)
		enrollment.CurrentLessonID = &lessonID
		if watchTimeSec > 0 {
			enrollment.WatchTimeSec += watchTimeSec
		}

		if err := applyProgress(tx, &enrollment, len(ids)); err != nil {
			return err
		}

		if err := tx.Save(&enrollment).Error; err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// UpdateProgress merges a batch of completed lesson ids into the set (a
// bulk variant of MarkLesson used by clients syncing offline progress).
// Ids already present, unpublished or not belonging to the course are
// ignored.
func (s *EnrollmentStore) UpdateProgress(ctx context.Context, enrollmentID uint, completedLessons []uint, currentLessonID *uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		if enrollment.Status == models.EnrollmentStatusCancelled {
			return apperrors.Validation("Enrollment is cancelled")
		}

		var valid []uint
		if len(completedLessons) > 0 {
			err := tx.Model(&models.Lesson{}).
				Where("course_id = ? AND is_published = ? AND id IN ?", enrollment.CourseID, true, completedLessons).
				Pluck("id", &valid).Error
			if err != nil {
				return apperrors.FromDB(err, "Lesson not found")
			}
		}

		ids := enrollment.CompletedLessonIDs()
		for _, id := range valid {
			if !containsID(ids, id) {
				ids = append(ids, id)
			}
		}
		enrollment.SetCompletedLessonIDs(ids)
		if currentLessonID != nil {
			enrollment.CurrentLessonID = currentLessonID
		}

		if err := applyProgress(tx, &enrollment, len(ids)); err != nil {
			return err
		}

		if err := tx.Save(&enrollment).Error; err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// Complete forces the terminal completed state regardless of the lesson set.
func (s *EnrollmentStore) Complete(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&enrollment, id).Error; err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		if enrollment.Status != models.EnrollmentStatusActive {
			return apperrors.Validation("Only an active enrollment can be completed")
		}

		now := time.Now()
		enrollment.Status = models.EnrollmentStatusCompleted
		enrollment.Progress = 100
		enrollment.CompletedAt = &now

		if err := tx.Save(&enrollment).Error; err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// Cancel is a soft transition: the row and its history stay, the counter
// drops by one in the same transaction.
func (s *EnrollmentStore) Cancel(ctx context.Context, userID, courseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&enrollment).Error
		if err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}
		if enrollment.Status != models.EnrollmentStatusActive {
			return apperrors.Validation("Only an active enrollment can be cancelled")
		}

		enrollment.Status = models.EnrollmentStatusCancelled
		if err := tx.Save(&enrollment).Error; err != nil {
			return apperrors.FromDB(err, "Enrollment not found")
		}

		return adjustEnrollmentCount(tx, courseID, -1)
	})
}

// applyProgress derives the percentage from the authoritative published
// lesson count and flips the enrollment to completed at 100%.
func applyProgress(tx *gorm.DB, enrollment *models.Enrollment, completedCount int) error {
	total, err := countPublishedLessons(tx, enrollment.CourseID)
	if err != nil {
		return err
	}

	if total == 0 {
		enrollment.Progress = 0
		return nil
	}

	progress := float64(completedCount) / float64(total) * 100
	if progress > 100 {
		progress = 100
	}
	// Monotonic within a session of completions.
	if progress > enrollment.Progress {
		enrollment.Progress = progress
	}

	if enrollment.Progress >= 100 && enrollment.Status == models.EnrollmentStatusActive {
		now := time.Now()
		enrollment.Status = models.EnrollmentStatusCompleted
		enrollment.CompletedAt = &now
	}
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
