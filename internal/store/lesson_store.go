package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

type LessonStore struct {
	db *gorm.DB
}

func NewLessonStore(db *gorm.DB) *LessonStore {
	return &LessonStore{db: db}
}

// Create appends the lesson at the end of the course's sequence unless an
// explicit order was given.
func (s *LessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if lesson.SequenceOrder == 0 {
			var count int64
			if err := tx.Model(&models.Lesson{}).
				Where("course_id = ?", lesson.CourseID).
				Count(&count).Error; err != nil {
				return apperrors.FromDB(err, "Course not found")
			}
			lesson.SequenceOrder = int(count) + 1
		}

		if err := tx.Create(lesson).Error; err != nil {
			return apperrors.FromDB(err, "Course not found")
		}
		return nil
	})
}

func (s *LessonStore) Get(ctx context.Context, courseID, lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		First(&lesson).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Lesson not found")
	}
	return &lesson, nil
}

func (s *LessonStore) ListByCourse(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sequence_order ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Course not found")
	}
	return lessons, nil
}

func (s *LessonStore) Update(ctx context.Context, lesson *models.Lesson) error {
	if err := s.db.WithContext(ctx).Save(lesson).Error; err != nil {
		return apperrors.FromDB(err, "Lesson not found")
	}
	return nil
}

func (s *LessonStore) Delete(ctx context.Context, courseID, lessonID uint) error {
	result := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Lesson{}, lessonID)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "Lesson not found")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Lesson not found")
	}
	return nil
}

// countPublishedLessons is the authoritative lesson total used when
// deriving enrollment progress. It takes the caller's handle so it can run
// inside the same transaction as the progress write.
func countPublishedLessons(tx *gorm.DB, courseID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Lesson{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.FromDB(err, "Course not found")
	}
	return count, nil
}
