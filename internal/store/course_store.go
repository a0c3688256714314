// Package store is the data-access layer: one store per entity, each a thin
// wrapper over gorm that returns domain errors from internal/apperrors.
// Writes that touch a course's derived aggregates (rating, total_ratings,
// total_enrollments) are wrapped in a single transaction with the row write.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

type CourseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{db: db}
}

// CourseFilter narrows List; zero values mean "no filter".
type CourseFilter struct {
	Category     string
	Status       string
	Level        string
	InstructorID uint
	Search       string
	Page         int
	Limit        int
}

func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return apperrors.FromDB(err, "Course not found")
	}
	return nil
}

// List returns a page of courses plus the unpaginated total.
func (s *CourseStore) List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Course{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.InstructorID != 0 {
		query = query.Where("instructor_id = ?", filter.InstructorID)
	}
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "Course not found")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var courses []models.Course
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, apperrors.FromDB(err, "Course not found")
	}

	return courses, total, nil
}

func (s *CourseStore) Get(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_order ASC")
		}).
		Preload("Reviews").
		First(&course, id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Course not found")
	}
	return &course, nil
}

func (s *CourseStore) Update(ctx context.Context, course *models.Course) error {
	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		return apperrors.FromDB(err, "Course not found")
	}
	return nil
}

// Delete soft-deletes the course. Lessons and reviews stay behind their
// course's DeletedAt gate; Get filters them out by not finding the course.
func (s *CourseStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "Course not found")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Course not found")
	}
	return nil
}

// RecalcRating re-derives the rating aggregates outside a review write.
// Used by repair paths and tests; review mutations call the transactional
// variant internally.
func (s *CourseStore) RecalcRating(ctx context.Context, courseID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recalcCourseRating(tx, courseID)
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.FromDB(err, "Course not found")
	}
	return nil
}
