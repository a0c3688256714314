package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

type ReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// Add inserts a review and recomputes the course rating aggregates in one
// transaction. A user holding a live review for the course gets a Conflict;
// the uniqueness check runs inside the transaction so it sees the same
// snapshot as the insert.
func (s *ReviewStore) Add(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("user_id = ? AND course_id = ?", review.UserID, review.CourseID).
			First(&existing).Error
		if err == nil {
			return apperrors.Conflict("You have already reviewed this course")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromDB(err, "Course not found")
		}

		if err := tx.Create(review).Error; err != nil {
			return apperrors.FromDB(err, "Course not found")
		}

		return recalcCourseRating(tx, review.CourseID)
	})
}

func (s *ReviewStore) Get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, apperrors.FromDB(err, "Review not found")
	}
	return &review, nil
}

func (s *ReviewStore) ListByCourse(ctx context.Context, courseID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Course not found")
	}
	return reviews, nil
}

// Update rewrites rating/comment and recomputes the aggregates in the same
// transaction.
func (s *ReviewStore) Update(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return apperrors.FromDB(err, "Review not found")
		}
		return recalcCourseRating(tx, review.CourseID)
	})
}

// Delete soft-deletes the review and recomputes the aggregates. Removing
// the last review resets rating and total_ratings to zero — the recompute
// runs over live rows, so no stale aggregate survives.
func (s *ReviewStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			return apperrors.FromDB(err, "Review not found")
		}

		if err := tx.Delete(&review).Error; err != nil {
			return apperrors.FromDB(err, "Review not found")
		}

		return recalcCourseRating(tx, review.CourseID)
	})
}

// GetCourseRatingStats aggregates live reviews for one course into average,
// count and a 1-5 histogram. Pure read.
func (s *ReviewStore) GetCourseRatingStats(ctx context.Context, courseID uint) (*models.RatingStats, error) {
	return s.ratingStats(ctx, s.db.WithContext(ctx).Model(&models.Review{}).Where("course_id = ?", courseID))
}

// GetPlatformRatingStats is the unscoped variant used for admin reporting.
func (s *ReviewStore) GetPlatformRatingStats(ctx context.Context) (*models.RatingStats, error) {
	return s.ratingStats(ctx, s.db.WithContext(ctx).Model(&models.Review{}))
}

func (s *ReviewStore) ratingStats(ctx context.Context, query *gorm.DB) (*models.RatingStats, error) {
	type bucket struct {
		Rating int
		Count  int64
	}
	var buckets []bucket

	err := query.Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&buckets).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Course not found")
	}

	stats := &models.RatingStats{
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	var sum int64
	for _, b := range buckets {
		if b.Rating < 1 || b.Rating > 5 {
			continue
		}
		stats.Distribution[b.Rating] = b.Count
		stats.Count += b.Count
		sum += int64(b.Rating) * b.Count
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}

	return stats, nil
}
