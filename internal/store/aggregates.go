package store

import (
	"gorm.io/gorm"

	"github.com/coursehub/backend/internal/models"
)

// recalcCourseRating recomputes rating and total_ratings from the live
// review rows. It must run inside the same transaction as the review write
// that triggered it. The full recompute is O(reviews) per write but
// self-correcting: when the last review goes away both fields reset to zero
// instead of going stale.
func recalcCourseRating(tx *gorm.DB, courseID uint) error {
	type agg struct {
		Avg   float64
		Count int64
	}
	var result agg

	err := tx.Model(&models.Review{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"rating":        result.Avg,
			"total_ratings": result.Count,
		}).Error
}

// adjustEnrollmentCount moves total_enrollments by delta atomically. Callers
// run it in the transaction that inserts, cancels or reactivates the
// enrollment row, so the counter cannot drift from the rows on a crash.
func adjustEnrollmentCount(tx *gorm.DB, courseID uint, delta int) error {
	return tx.Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("total_enrollments", gorm.Expr("total_enrollments + ?", delta)).Error
}
